package memory

import (
	"context"
	"sync"
	"time"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

type extensionEntry struct {
	data      model.ExtensionData
	expiresAt time.Time
}

// CheckoutDataStore is a TTL keyed store for blocks extension data.
type CheckoutDataStore struct {
	mu      sync.Mutex
	entries map[string]extensionEntry
	now     func() time.Time
}

// NewCheckoutDataStore creates an empty store.
func NewCheckoutDataStore() *CheckoutDataStore {
	return &CheckoutDataStore{
		entries: make(map[string]extensionEntry),
		now:     time.Now,
	}
}

func (s *CheckoutDataStore) Put(_ context.Context, orderID string, data *model.ExtensionData, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[orderID] = extensionEntry{data: *data, expiresAt: now.Add(ttl)}
	return nil
}

func (s *CheckoutDataStore) Get(_ context.Context, orderID string) (*model.ExtensionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[orderID]
	if !ok {
		return nil, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, orderID)
		return nil, nil
	}
	data := e.data
	return &data, nil
}

func (s *CheckoutDataStore) Delete(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, orderID)
	return nil
}

// Compile-time check
var _ outbound.CheckoutDataStorePort = (*CheckoutDataStore)(nil)
