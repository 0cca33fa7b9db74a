package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/domain/payment"
	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/inbound"
)

// paymentServiceAdapter implements inbound.PaymentServiceHttpPort.
type paymentServiceAdapter struct {
	domain payment.PaymentDomain
	logger *zap.Logger
}

// NewPaymentServiceAdapter creates a new service catalog HTTP adapter.
func NewPaymentServiceAdapter(domain payment.PaymentDomain, logger *zap.Logger) inbound.PaymentServiceHttpPort {
	return &paymentServiceAdapter{domain: domain, logger: logger}
}

// RegisterPaymentServiceRoutes registers service catalog routes.
func RegisterPaymentServiceRoutes(r *gin.RouterGroup, adapter inbound.PaymentServiceHttpPort) {
	r.GET("/payment-services", adapter.ListServices)
}

// ListServices lists the payment services offered at checkout.
//
//	@Summary		List payment services
//	@Description	Returns the active FuratPay payment services, served from cache
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	model.ServicesResponse
//	@Failure		502	{object}	model.ErrorResponse	"Provider failure"
//	@Failure		503	{object}	model.ErrorResponse	"Gateway unavailable"
//	@Router			/payment-services [get]
func (a *paymentServiceAdapter) ListServices(c *gin.Context) {
	if !a.domain.Available() {
		handlePaymentError(c, a.logger, payment.ErrGatewayUnavailable)
		return
	}

	services, err := a.domain.ListServices(c.Request.Context())
	if err != nil {
		handlePaymentError(c, a.logger, err)
		return
	}
	if services == nil {
		services = []*model.PaymentService{}
	}

	c.JSON(http.StatusOK, model.ServicesResponse{Data: services})
}

// Compile-time check
var _ inbound.PaymentServiceHttpPort = (*paymentServiceAdapter)(nil)
