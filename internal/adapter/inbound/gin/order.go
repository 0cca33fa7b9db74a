package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/domain/order"
	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/inbound"
)

// orderAdapter implements inbound.OrderHttpPort.
type orderAdapter struct {
	domain order.OrderDomain
	logger *zap.Logger
}

// NewOrderAdapter creates a new order HTTP adapter.
func NewOrderAdapter(domain order.OrderDomain, logger *zap.Logger) inbound.OrderHttpPort {
	return &orderAdapter{domain: domain, logger: logger}
}

// RegisterOrderRoutes registers order routes.
func RegisterOrderRoutes(r *gin.RouterGroup, adapter inbound.OrderHttpPort) {
	r.POST("/orders", adapter.RegisterOrder)
}

// RegisterOrder registers a storefront order snapshot.
//
//	@Summary		Register order
//	@Description	Stores the order total, currency and buyer contact. The order key is returned once.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		model.RegisterOrderRequest	true	"Order snapshot"
//	@Success		201		{object}	model.RegisterOrderResponse
//	@Failure		400		{object}	model.ErrorResponse	"Invalid input"
//	@Failure		409		{object}	model.ErrorResponse	"Order already registered"
//	@Failure		422		{object}	model.ErrorResponse	"Invalid order"
//	@Router			/orders [post]
func (a *orderAdapter) RegisterOrder(c *gin.Context) {
	var req model.RegisterOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	resp, err := a.domain.Register(c.Request.Context(), &req)
	if err != nil {
		handlePaymentError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Compile-time check
var _ inbound.OrderHttpPort = (*orderAdapter)(nil)
