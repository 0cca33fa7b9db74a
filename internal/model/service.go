package model

// Service statuses reported by the provider.
const (
	ServiceStatusActive   = "active"
	ServiceStatusInactive = "inactive"
)

// PaymentService is a payment network the buyer can choose at checkout.
type PaymentService struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo,omitempty"`
	Status string `json:"status,omitempty"`
}

// IsActive returns true unless the provider marked the service inactive.
func (s *PaymentService) IsActive() bool {
	return s.Status == "" || s.Status == ServiceStatusActive
}

// FindService returns the service with id, or nil.
func FindService(services []*PaymentService, id string) *PaymentService {
	for _, s := range services {
		if s != nil && s.ID == id {
			return s
		}
	}
	return nil
}
