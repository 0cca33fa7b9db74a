package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/infra/events"
	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/utils/requestctx"
)

func (d *paymentDomain) SaveExtensionData(ctx context.Context, orderID string, data *model.ExtensionData) error {
	if data == nil || strings.TrimSpace(data.ServiceID) == "" {
		return ErrServiceRequired
	}

	order, err := d.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}

	if err := d.checkoutData.Put(ctx, orderID, data, d.cfg.ExtensionDataTTL); err != nil {
		return fmt.Errorf("store extension data: %w", err)
	}
	return nil
}

func (d *paymentDomain) CreateSession(ctx context.Context, in model.CheckoutInput) (*model.CheckoutResult, error) {
	log := requestctx.Logger(ctx, d.logger).With(
		zap.String("order_id", in.OrderID),
		zap.String("source", string(in.Source)),
	)

	if !d.provider.Configured() {
		return nil, ErrGatewayUnavailable
	}

	serviceID := strings.TrimSpace(in.ServiceID)
	serviceName := in.ServiceName

	// Blocks checkout may have submitted its selection ahead of time.
	// It is kept until a session is attached so a failed attempt can be resubmitted.
	blocksData := in.Source == model.CheckoutSourceBlocks && d.checkoutData != nil
	if blocksData {
		data, err := d.checkoutData.Get(ctx, in.OrderID)
		if err != nil {
			log.Warn("extension data unavailable", zap.Error(err))
		} else if data != nil {
			if serviceID == "" {
				serviceID = strings.TrimSpace(data.ServiceID)
			}
			if serviceName == "" {
				serviceName = data.ServiceName
			}
		}
	}

	if serviceID == "" {
		return nil, ErrServiceRequired
	}

	order, err := d.orders.GetOrder(ctx, in.OrderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status.IsPaid() {
		return nil, ErrOrderAlreadyPaid
	}

	// Validate against a fresh list, never the cache.
	services, err := d.fetchServices(ctx)
	if err != nil {
		log.Warn("service list unavailable", zap.Error(err))
		return nil, err
	}
	service := model.FindService(services, serviceID)
	if service == nil || !service.IsActive() {
		log.Info("stale payment service rejected", zap.String("service_id", serviceID))
		return nil, ErrServiceUnavailable
	}
	if serviceName == "" {
		serviceName = service.Name
	}

	invoiceID, err := d.provider.CreateInvoice(ctx, order.Snapshot())
	if err != nil {
		log.Warn("create invoice failed", zap.Error(err))
		return nil, providerError("create invoice", err)
	}

	ps, err := d.provider.CreatePaymentSession(ctx, invoiceID, serviceID)
	if err != nil {
		log.Warn("create payment session failed",
			zap.String("invoice_id", invoiceID),
			zap.Error(err),
		)
		return nil, providerError("create payment session", err)
	}
	if ps == nil || ps.SessionID == "" || ps.PaymentURL == "" {
		log.Warn("provider returned incomplete session", zap.String("invoice_id", invoiceID))
		return nil, ErrProviderIncomplete
	}

	session := &model.PaymentSession{
		SessionID:   ps.SessionID,
		OrderID:     order.ID,
		ServiceID:   serviceID,
		ServiceName: serviceName,
		InvoiceID:   invoiceID,
		PaymentURL:  ps.PaymentURL,
		Status:      model.SessionStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := d.orders.AttachSession(ctx, session, NoteAwaitingPayment); err != nil {
		return nil, fmt.Errorf("attach session: %w", err)
	}
	if blocksData {
		if err := d.checkoutData.Delete(ctx, in.OrderID); err != nil {
			log.Warn("extension data cleanup failed", zap.Error(err))
		}
	}

	log.Info("payment session created",
		zap.String("session_id", session.SessionID),
		zap.String("service_id", serviceID),
	)
	d.publish(ctx, &SessionCreatedEvent{
		BaseEvent: events.NewBaseEvent(EventSessionCreated, order.ID),
		SessionID: session.SessionID,
		ServiceID: serviceID,
		Source:    in.Source,
	})

	redirect := session.PaymentURL
	if d.cfg.PayPageURL != "" {
		redirect = expandOrderURL(d.cfg.PayPageURL, order.ID)
	}

	return &model.CheckoutResult{
		OrderID:    order.ID,
		SessionID:  session.SessionID,
		PaymentURL: session.PaymentURL,
		Redirect:   redirect,
	}, nil
}
