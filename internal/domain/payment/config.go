package payment

import (
	"strings"
	"time"
)

// ProviderName identifies FuratPay in the notification log.
const ProviderName = "furatpay"

// Order notes written on session transitions.
const (
	NoteAwaitingPayment = "Awaiting FuratPay payment confirmation"
	NotePaymentComplete = "Payment completed via FuratPay"
	NotePaymentFailed   = "Payment failed or was declined"
)

// MessagePaymentFailed is shown to the payer when a session fails.
const MessagePaymentFailed = "Payment failed or was declined. Please try again."

// Config holds payment domain configuration.
type Config struct {
	// ReturnURL is the default post-payment landing page. "{order_id}" is substituted.
	ReturnURL string
	// PayPageURL is the storefront page hosting the polling client. "{order_id}" is substituted.
	PayPageURL string

	PollInterval time.Duration
	MaxAttempts  int

	ServicesCacheTTL time.Duration
	ExtensionDataTTL time.Duration

	// ServicesFetchTimeout bounds a shared catalog refresh, which outlives
	// the request that started it.
	ServicesFetchTimeout time.Duration
}

// DefaultConfig returns default payment configuration.
func DefaultConfig() *Config {
	return &Config{
		ReturnURL:            "/checkout/order-received/{order_id}",
		PayPageURL:           "/checkout/pay/{order_id}",
		PollInterval:         5 * time.Second,
		MaxAttempts:          360,
		ServicesCacheTTL:     5 * time.Minute,
		ExtensionDataTTL:     30 * time.Minute,
		ServicesFetchTimeout: 15 * time.Second,
	}
}

func expandOrderURL(tmpl, orderID string) string {
	return strings.ReplaceAll(tmpl, "{order_id}", orderID)
}
