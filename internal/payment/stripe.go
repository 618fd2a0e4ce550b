package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeProvider implements Provider using Stripe Checkout, for stores that
// take card payments directly instead of through the backend gateway.
type StripeProvider struct {
	successURL string
	cancelURL  string
	currency   string
}

// NewStripeProvider creates a Stripe checkout provider. The API key is set
// globally on the Stripe SDK.
func NewStripeProvider(apiKey, successURL, cancelURL string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{
		successURL: successURL,
		cancelURL:  cancelURL,
		currency:   "ars",
	}
}

// CreateSession creates a single-payment Stripe Checkout session for the
// order total.
func (p *StripeProvider) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	checkoutParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Pedido " + params.Reference),
					},
					// Stripe amounts are in the currency's minor unit.
					UnitAmount: stripe.Int64(int64(params.Total * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(p.successURL),
		CancelURL:         stripe.String(p.cancelURL),
		ClientReferenceID: stripe.String(params.Reference),
	}
	if params.CustomerEmail != "" {
		checkoutParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	checkoutParams.Context = ctx

	session, err := checkoutsession.New(checkoutParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &Session{ID: session.ID, RedirectURL: session.URL}, nil
}
