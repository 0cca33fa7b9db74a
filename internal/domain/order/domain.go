package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
	"github.com/furatpay/gateway/internal/utils/random"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// OrderDomain registers storefront orders and guards payer access to them.
type OrderDomain interface {
	// Register stores an order snapshot and returns its ID with a fresh order key.
	// The key is returned once and only its hash is stored.
	Register(ctx context.Context, req *model.RegisterOrderRequest) (*model.RegisterOrderResponse, error)

	// GetOrder returns the order.
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)

	// Authorize returns the order if key matches it.
	Authorize(ctx context.Context, orderID, key string) (*model.Order, error)
}

// orderDomain implements OrderDomain.
type orderDomain struct {
	orders outbound.OrderStatePort
	cost   int
	logger *zap.Logger
}

// NewOrderDomain creates a new order domain service.
func NewOrderDomain(orders outbound.OrderStatePort, logger *zap.Logger) OrderDomain {
	return &orderDomain{
		orders: orders,
		cost:   bcrypt.DefaultCost,
		logger: logger.Named("order"),
	}
}

func (d *orderDomain) Register(ctx context.Context, req *model.RegisterOrderRequest) (*model.RegisterOrderResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalidOrder(err)
	}

	orderID := req.OrderID
	if orderID == "" {
		orderID = uuid.NewString()
	}

	key, err := random.OrderKey()
	if err != nil {
		return nil, fmt.Errorf("generate order key: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), d.cost)
	if err != nil {
		return nil, fmt.Errorf("hash order key: %w", err)
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:         orderID,
		KeyHash:    string(hash),
		Total:      req.Total,
		Currency:   strings.ToUpper(req.Currency),
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		BuyerPhone: req.BuyerPhone,
		ReturnURL:  req.ReturnURL,
		Status:     model.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := d.orders.Create(ctx, order); err != nil {
		if errors.Is(err, outbound.ErrOrderExists) {
			return nil, ErrOrderExists
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	d.logger.Info("order registered",
		zap.String("order_id", order.ID),
		zap.Int64("total", order.Total),
		zap.String("currency", order.Currency),
	)

	return &model.RegisterOrderResponse{OrderID: order.ID, OrderKey: key}, nil
}

func (d *orderDomain) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := d.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (d *orderDomain) Authorize(ctx context.Context, orderID, key string) (*model.Order, error) {
	order, err := d.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if key == "" || order.KeyHash == "" {
		return nil, ErrInvalidOrderKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(order.KeyHash), []byte(key)); err != nil {
		d.logger.Warn("order key mismatch", zap.String("order_id", orderID))
		return nil, ErrInvalidOrderKey
	}
	return order, nil
}

func invalidOrder(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &validationError{msg: fmt.Sprintf("Invalid %s (%s).", jsonField(fe.Field()), fe.Tag())}
	}
	return ErrInvalidOrder
}

var fieldNames = map[string]string{
	"OrderID":    "order_id",
	"Total":      "total",
	"Currency":   "currency",
	"BuyerName":  "buyer_name",
	"BuyerEmail": "buyer_email",
	"BuyerPhone": "buyer_phone",
	"ReturnURL":  "return_url",
}

func jsonField(name string) string {
	if f, ok := fieldNames[name]; ok {
		return f
	}
	return name
}

// Compile-time check
var _ outbound.OrderAccessPort = (OrderDomain)(nil)
