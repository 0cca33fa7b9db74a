package gin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/domain/order"
	"github.com/furatpay/gateway/internal/domain/payment"
	"github.com/furatpay/gateway/internal/model"
	apperrors "github.com/furatpay/gateway/internal/utils/errors"
	"github.com/furatpay/gateway/internal/utils/requestctx"
)

// handlePaymentError maps domain errors to HTTP responses.
func handlePaymentError(c *gin.Context, logger *zap.Logger, err error) {
	appErr := apperrors.FromError(err)
	status := appErr.StatusCode
	message := appErr.Message

	var m apperrors.Messager
	if errors.As(err, &m) {
		message = m.UserMessage()
	}

	code := errorCode(err)
	switch {
	case errors.Is(err, payment.ErrProviderCredentials):
		// Rejected provider credentials surface to the payer as an upstream failure.
		status = http.StatusBadGateway
	case code == "":
		code = strings.ToLower(appErr.Code)
	}

	if status >= http.StatusInternalServerError {
		requestctx.Logger(c.Request.Context(), logger).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, model.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, payment.ErrServiceRequired):
		return "service_required"
	case errors.Is(err, payment.ErrServiceUnavailable):
		return "service_unavailable"
	case errors.Is(err, payment.ErrOrderNotFound), errors.Is(err, order.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, payment.ErrOrderAlreadyPaid):
		return "order_already_paid"
	case errors.Is(err, payment.ErrNoSession):
		return "no_session"
	case errors.Is(err, payment.ErrSessionUnknown):
		return "unknown_session"
	case errors.Is(err, payment.ErrGatewayUnavailable):
		return "gateway_unavailable"
	case errors.Is(err, payment.ErrProviderCredentials),
		errors.Is(err, payment.ErrProviderFailure),
		errors.Is(err, payment.ErrProviderIncomplete):
		return "upstream_error"
	case errors.Is(err, payment.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, payment.ErrInvalidPayload):
		return "malformed_payload"
	case errors.Is(err, order.ErrOrderExists):
		return "order_exists"
	case errors.Is(err, order.ErrInvalidOrder):
		return "invalid_order"
	case errors.Is(err, apperrors.ErrAuth):
		return "unauthorized"
	}
	return ""
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{
		Code:    "invalid_input",
		Message: message,
	})
}
