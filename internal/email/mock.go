package email

import (
	"context"
	"sync"

	"github.com/avilaj/tienda/internal/domain"
)

// MockSender implements Sender for testing.
type MockSender struct {
	mu sync.Mutex

	// Err, when set, is returned by SendOrderConfirmation.
	Err error

	// Sent records every order passed to SendOrderConfirmation.
	Sent []*domain.PendingOrder
}

func (m *MockSender) SendOrderConfirmation(ctx context.Context, order *domain.PendingOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, order)
	return m.Err
}

// SentCount returns how many confirmations were attempted. Safe to call while
// a send may be in flight on another goroutine.
func (m *MockSender) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
