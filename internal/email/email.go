package email

import (
	"context"

	"github.com/avilaj/tienda/internal/domain"
)

// Sender defines the interface for dispatching the order confirmation email.
// The store backend owns the template and the SMTP credentials; senders only
// hand it the order data.
type Sender interface {
	// SendOrderConfirmation notifies the customer that their order was
	// received. It is called after the order is accepted, so failures must
	// never undo the order.
	SendOrderConfirmation(ctx context.Context, order *domain.PendingOrder) error
}
