package gin

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/domain/payment"
	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/inbound"
)

const (
	// DefaultSignatureHeader carries the notification signature.
	DefaultSignatureHeader = "X-Signature"

	maxNotificationBytes = 64 << 10
)

// notificationAdapter implements inbound.NotificationHttpPort.
type notificationAdapter struct {
	domain          payment.PaymentDomain
	signatureHeader string
	logger          *zap.Logger
}

// NewNotificationAdapter creates a new notification HTTP adapter.
func NewNotificationAdapter(domain payment.PaymentDomain, signatureHeader string, logger *zap.Logger) inbound.NotificationHttpPort {
	if signatureHeader == "" {
		signatureHeader = DefaultSignatureHeader
	}
	return &notificationAdapter{
		domain:          domain,
		signatureHeader: signatureHeader,
		logger:          logger,
	}
}

// RegisterNotificationRoutes registers provider notification routes.
func RegisterNotificationRoutes(r *gin.RouterGroup, adapter inbound.NotificationHttpPort, middleware ...gin.HandlerFunc) {
	notifications := r.Group("/notifications", middleware...)
	{
		notifications.POST("/furatpay", adapter.HandleFuratPayNotification)
	}
}

// HandleFuratPayNotification verifies and applies a FuratPay notification.
//
//	@Summary		FuratPay notification
//	@Description	Signed server-to-server payment notification. Duplicates are acknowledged without effect. A well-formed notification for a session the gateway does not know yet is answered with 404 unknown_session and is not recorded, so the provider retries it.
//	@Tags			Notifications
//	@Accept			json
//	@Produce		json
//	@Param			X-Signature	header		string						true	"HMAC-SHA256 of the raw body"
//	@Param			request		body		model.NotificationPayload	true	"Notification"
//	@Success		200			{object}	model.NotificationResponse
//	@Failure		400			{object}	model.ErrorResponse	"Malformed payload"
//	@Failure		401			{object}	model.ErrorResponse	"Invalid signature"
//	@Failure		404			{object}	model.ErrorResponse	"Unknown session"
//	@Router			/notifications/furatpay [post]
func (a *notificationAdapter) HandleFuratPayNotification(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxNotificationBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{
				Code:    "payload_too_large",
				Message: "notification body too large",
			})
			return
		}
		badRequest(c, "failed to read request body")
		return
	}

	if _, err := a.domain.HandleNotification(c.Request.Context(), body, c.GetHeader(a.signatureHeader)); err != nil {
		handlePaymentError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.NotificationResponse{Received: true})
}

// Compile-time check
var _ inbound.NotificationHttpPort = (*notificationAdapter)(nil)
