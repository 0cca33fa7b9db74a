package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns message", func(t *testing.T) {
		err := &AppError{Code: "TEST", Message: "test error message"}
		assert.Equal(t, "test error message", err.Error())
	})

	t.Run("Error includes wrapped error", func(t *testing.T) {
		err := &AppError{Code: "TEST", Message: "outer", Err: errors.New("inner")}
		assert.Contains(t, err.Error(), "outer")
		assert.Contains(t, err.Error(), "inner")
	})

	t.Run("Is matches kind", func(t *testing.T) {
		assert.True(t, errors.Is(Validation("bad"), ErrValidation))
		assert.True(t, errors.Is(Upstream(""), ErrUpstream))
		assert.False(t, errors.Is(Upstream(""), ErrValidation))
	})

	t.Run("Is matches code", func(t *testing.T) {
		assert.True(t, errors.Is(Conflict("a"), Conflict("b")))
	})
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, Validation("x").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, Auth().StatusCode)
	assert.Equal(t, "authentication failed", Auth().Message)
	assert.Equal(t, http.StatusBadGateway, Upstream("").StatusCode)
	assert.NotEmpty(t, Upstream("").Message)
	assert.Equal(t, http.StatusBadRequest, MalformedPayload("x").StatusCode)
	assert.Equal(t, http.StatusConflict, Conflict("x").StatusCode)
	assert.Equal(t, "order not found", NotFound("order").Message)
	assert.Equal(t, http.StatusTooManyRequests, RateLimited().StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, Unavailable("x").StatusCode)
}

type payerError struct{}

func (payerError) Error() string       { return "service 9 missing from catalog" }
func (payerError) UserMessage() string { return "Invalid payment service selected." }
func (payerError) Unwrap() error       { return ErrValidation }

func TestFromError(t *testing.T) {
	t.Run("passes AppError through", func(t *testing.T) {
		in := Conflict("dup")
		assert.Same(t, in, FromError(fmt.Errorf("wrap: %w", in)))
	})

	t.Run("maps kinds", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, GetStatusCode(fmt.Errorf("x: %w", ErrValidation)))
		assert.Equal(t, http.StatusUnauthorized, GetStatusCode(fmt.Errorf("x: %w", ErrAuth)))
		assert.Equal(t, http.StatusBadGateway, GetStatusCode(fmt.Errorf("x: %w", ErrUpstream)))
		assert.Equal(t, http.StatusBadRequest, GetStatusCode(fmt.Errorf("x: %w", ErrMalformedPayload)))
		assert.Equal(t, http.StatusNotFound, GetStatusCode(fmt.Errorf("x: %w", ErrNotFound)))
		assert.Equal(t, http.StatusServiceUnavailable, GetStatusCode(ErrUnavailable))
		assert.Equal(t, http.StatusInternalServerError, GetStatusCode(errors.New("boom")))
	})

	t.Run("uses payer message when available", func(t *testing.T) {
		appErr := FromError(payerError{})
		assert.Equal(t, "Invalid payment service selected.", appErr.Message)
	})

	t.Run("hides auth details", func(t *testing.T) {
		appErr := FromError(fmt.Errorf("signature mismatch for key abc: %w", ErrAuth))
		assert.Equal(t, "authentication failed", appErr.Message)
	})

	t.Run("hides internal details", func(t *testing.T) {
		appErr := FromError(errors.New("pq: connection refused"))
		assert.Equal(t, "internal server error", appErr.Message)
	})
}
