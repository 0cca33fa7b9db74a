package payment

import (
	apperrors "github.com/furatpay/gateway/internal/utils/errors"
)

// Error kinds. Every error returned by the domain wraps exactly one of them.
var (
	ErrValidation       = apperrors.ErrValidation
	ErrAuth             = apperrors.ErrAuth
	ErrUpstream         = apperrors.ErrUpstream
	ErrMalformedPayload = apperrors.ErrMalformedPayload
	ErrConflict         = apperrors.ErrConflict
	ErrNotFound         = apperrors.ErrNotFound
	ErrUnavailable      = apperrors.ErrUnavailable
)

// Error is a domain error carrying a message that is safe to show to the payer.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap returns the error kind.
func (e *Error) Unwrap() error { return e.kind }

// UserMessage returns the payer-facing message.
func (e *Error) UserMessage() string { return e.msg }

var (
	// ErrServiceRequired is returned when checkout carries no payment service.
	ErrServiceRequired = newError(ErrValidation, "Please select a payment service.")

	// ErrServiceUnavailable is returned when the selected service is missing from
	// the provider's current list or is inactive.
	ErrServiceUnavailable = newError(ErrValidation, "The selected payment service is no longer available. Please choose another one.")

	// ErrOrderNotFound is returned when the order does not exist.
	ErrOrderNotFound = newError(ErrNotFound, "Order not found.")

	// ErrOrderAlreadyPaid is returned when checkout is attempted on a paid order.
	ErrOrderAlreadyPaid = newError(ErrConflict, "This order has already been paid.")

	// ErrNoSession is returned when the order has no payment session yet.
	ErrNoSession = newError(ErrNotFound, "No payment is in progress for this order.")

	// ErrSessionUnknown is returned when a notification names a session no order carries.
	ErrSessionUnknown = newError(ErrNotFound, "Unknown payment session.")

	// ErrGatewayUnavailable is returned when api_url or api_key is not configured.
	ErrGatewayUnavailable = newError(ErrUnavailable, "FuratPay is currently unavailable.")

	// ErrProviderCredentials is returned when the provider rejects the API key.
	ErrProviderCredentials = newError(ErrAuth, "The payment gateway is not configured correctly. Please contact the store.")

	// ErrProviderFailure is returned when the provider is unreachable or rejects a request.
	ErrProviderFailure = newError(ErrUpstream, "Could not reach the payment provider. Please try again.")

	// ErrProviderIncomplete is returned when the provider answers without a session ID or URL.
	ErrProviderIncomplete = newError(ErrUpstream, "The payment provider returned an incomplete response. Please try again.")

	// ErrInvalidSignature is returned when a notification fails verification.
	ErrInvalidSignature = newError(ErrAuth, "authentication failed")

	// ErrInvalidPayload is returned when a notification body cannot be parsed.
	ErrInvalidPayload = newError(ErrMalformedPayload, "malformed notification payload")

	// ErrInvalidStatusToken is returned when a status poll carries a bad token.
	ErrInvalidStatusToken = newError(ErrAuth, "authentication failed")

	// ErrInvalidOrderKey is returned when the pay page is opened with a wrong order key.
	ErrInvalidOrderKey = newError(ErrAuth, "authentication failed")
)
