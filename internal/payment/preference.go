package payment

import (
	"context"
	"fmt"

	"github.com/avilaj/tienda/internal/backend"
)

// DefaultGatewayRedirectBase is the production checkout redirect for the
// preference gateway.
const DefaultGatewayRedirectBase = "https://www.mercadopago.com.ar/checkout/v1/redirect"

// PreferenceProvider creates payment preferences through the commerce
// backend, which holds the gateway credentials. The returned redirect carries
// the preference id as a query parameter.
type PreferenceProvider struct {
	client       *backend.Client
	redirectBase string
}

// NewPreferenceProvider creates the backend-preference provider.
// redirectBase may be empty to use the production gateway URL.
func NewPreferenceProvider(client *backend.Client, redirectBase string) *PreferenceProvider {
	if redirectBase == "" {
		redirectBase = DefaultGatewayRedirectBase
	}
	return &PreferenceProvider{client: client, redirectBase: redirectBase}
}

// CreateSession requests a preference token and builds the redirect URL.
func (p *PreferenceProvider) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	pref, err := p.client.CreatePreference(ctx, params.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to create preference: %w", err)
	}

	return &Session{
		ID:          pref.ID,
		RedirectURL: fmt.Sprintf("%s?preference-id=%s", p.redirectBase, pref.ID),
	}, nil
}
