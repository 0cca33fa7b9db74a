package order

import (
	apperrors "github.com/furatpay/gateway/internal/utils/errors"
)

// Error is an order domain error wrapping one of the shared error kinds.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Unwrap returns the error kind.
func (e *Error) Unwrap() error { return e.kind }

// UserMessage returns the caller-facing message.
func (e *Error) UserMessage() string { return e.msg }

// Domain errors for order.
var (
	ErrOrderNotFound   = &Error{kind: apperrors.ErrNotFound, msg: "Order not found."}
	ErrOrderExists     = &Error{kind: apperrors.ErrConflict, msg: "An order with this ID is already registered."}
	ErrInvalidOrderKey = &Error{kind: apperrors.ErrAuth, msg: "authentication failed"}
	ErrInvalidOrder    = &Error{kind: apperrors.ErrValidation, msg: "The order is invalid."}
)

// validationError carries the field-level reason of an invalid registration.
type validationError struct {
	msg string
}

func (e *validationError) Error() string       { return e.msg }
func (e *validationError) Unwrap() error       { return ErrInvalidOrder }
func (e *validationError) UserMessage() string { return e.msg }
