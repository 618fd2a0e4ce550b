package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/avilaj/tienda/internal/backend"
	"github.com/avilaj/tienda/internal/domain"
)

// BackendSender dispatches the confirmation email through the commerce
// backend's mail endpoint. Store identity (name, contact mail, phone) is
// fetched lazily from the settings endpoint and cached for the process
// lifetime. Sends run on detached goroutines, so the cache is guarded.
type BackendSender struct {
	client *backend.Client

	mu       sync.Mutex
	settings *backend.StoreSettings
}

// NewBackendSender creates a sender over the backend mail endpoint.
func NewBackendSender(client *backend.Client) *BackendSender {
	return &BackendSender{client: client}
}

// SendOrderConfirmation builds the mail payload from the order and posts it.
func (s *BackendSender) SendOrderConfirmation(ctx context.Context, order *domain.PendingOrder) error {
	settings, err := s.storeSettings(ctx)
	if err != nil {
		return err
	}

	items := make([]backend.OrderEmailItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, backend.OrderEmailItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.LineTotal,
		})
	}

	req := backend.OrderEmailRequest{
		StoreName:    settings.StoreName,
		Name:         order.Customer,
		ClientMail:   order.Email,
		Items:        items,
		Subtotal:     order.Subtotal,
		ShippingCost: order.ShippingCost,
		Total:        order.Total,
		StoreMail:    settings.StoreEmail,
		StorePhone:   settings.StorePhone,
	}
	if err := s.client.SendOrderEmail(ctx, req); err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}
	return nil
}

func (s *BackendSender) storeSettings(ctx context.Context) (*backend.StoreSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings != nil {
		return s.settings, nil
	}
	settings, err := s.client.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}
	s.settings = settings
	return settings, nil
}
