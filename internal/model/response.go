package model

// ErrorResponse defines error response structure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse defines success response structure.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ServicesResponse lists the payment services offered at checkout.
type ServicesResponse struct {
	Data []*PaymentService `json:"data"`
}

// CheckoutResponse is returned by both checkout front-end adapters.
type CheckoutResponse struct {
	Result string `json:"result"`
	*CheckoutResult
}

// RegisterOrderResponse is returned after an order snapshot is registered.
type RegisterOrderResponse struct {
	OrderID  string `json:"order_id"`
	OrderKey string `json:"order_key"`
}

// NotificationResponse acknowledges a provider notification.
type NotificationResponse struct {
	Received bool `json:"received"`
}
