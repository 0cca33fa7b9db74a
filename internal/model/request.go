package model

// RegisterOrderRequest registers a storefront order snapshot.
type RegisterOrderRequest struct {
	OrderID    string `json:"order_id" validate:"omitempty,max=64"`
	Total      int64  `json:"total" validate:"gt=0"`
	Currency   string `json:"currency" validate:"required,len=3"`
	BuyerName  string `json:"buyer_name" validate:"max=255"`
	BuyerEmail string `json:"buyer_email" validate:"omitempty,email"`
	BuyerPhone string `json:"buyer_phone" validate:"max=50"`
	ReturnURL  string `json:"return_url" validate:"omitempty,url"`
}

// ClassicCheckoutRequest is the classic checkout form submission.
type ClassicCheckoutRequest struct {
	OrderID string `form:"order_id" json:"order_id" binding:"required"`
	Service string `form:"furatpay_service" json:"furatpay_service"`
}

// KeyValue is one entry of the blocks Store API payment_data list.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BlocksCheckoutRequest is the blocks (Store API) checkout submission.
type BlocksCheckoutRequest struct {
	OrderID       string     `json:"order_id" binding:"required"`
	PaymentMethod string     `json:"payment_method"`
	PaymentData   []KeyValue `json:"payment_data"`
}

// Value returns the payment_data entry for key.
func (r *BlocksCheckoutRequest) Value(key string) string {
	for _, kv := range r.PaymentData {
		if kv.Key == key {
			return kv.Value
		}
	}
	return ""
}

// ExtensionDataRequest stores blocks extension data ahead of checkout.
type ExtensionDataRequest struct {
	ServiceID   string `json:"furatpay_service" binding:"required"`
	ServiceName string `json:"furatpay_service_name"`
}
