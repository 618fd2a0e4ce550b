// Package payment creates gateway payment sessions. Implementations cover
// the backend's preference endpoint (MercadoPago-style redirect) and Stripe
// Checkout.
package payment

import "context"

// SessionParams describes the payment to collect.
type SessionParams struct {
	// Total is the order total in currency units.
	Total float64

	// CustomerEmail prefills the gateway form when supported.
	CustomerEmail string

	// Reference ties the gateway session back to the pending order.
	Reference string
}

// Session is a created gateway session. Control leaves the application when
// the browser follows RedirectURL, and returns via the gateway's callback.
type Session struct {
	ID          string
	RedirectURL string
}

// Provider creates payment sessions with an external gateway.
type Provider interface {
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)
}
