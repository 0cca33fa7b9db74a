package inbound

import "github.com/gin-gonic/gin"

// PaymentServiceHttpPort defines HTTP handler interface for the service catalog.
type PaymentServiceHttpPort interface {
	// ListServices handles GET /payment-services
	ListServices(c *gin.Context)
}

// CheckoutHttpPort defines HTTP handler interface for checkout operations.
type CheckoutHttpPort interface {
	// ClassicCheckout handles POST /checkout/classic
	// Starts a payment session from the classic checkout form.
	ClassicCheckout(c *gin.Context)

	// BlocksCheckout handles POST /checkout/blocks
	// Starts a payment session from the blocks (Store API) checkout.
	BlocksCheckout(c *gin.Context)

	// SaveExtensionData handles PUT /checkout/orders/:id/extension-data
	SaveExtensionData(c *gin.Context)

	// PayPage handles GET /checkout/orders/:id/pay
	// Returns the payment URL and status token for the polling client.
	PayPage(c *gin.Context)

	// GetStatus handles GET /checkout/orders/:id/status
	GetStatus(c *gin.Context)
}

// NotificationHttpPort defines HTTP handler interface for provider notifications.
type NotificationHttpPort interface {
	// HandleFuratPayNotification handles POST /notifications/furatpay
	HandleFuratPayNotification(c *gin.Context)
}
