// Package backend is the REST client for the commerce API this storefront
// consumes. Three HTTP clients with tiered timeouts mirror how the operations
// differ: ordinary reads, order creation (critical path, must not be cut off
// early), and email dispatch (allowed to take much longer without being
// considered failed).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Timeouts groups the three client tiers.
type Timeouts struct {
	Standard time.Duration // ordinary reads and searches
	Long     time.Duration // order creation
	Email    time.Duration // email dispatch
}

// DefaultTimeouts matches the deployed configuration.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Standard: 10 * time.Second,
		Long:     25 * time.Second,
		Email:    30 * time.Second,
	}
}

// Client talks to the commerce backend.
type Client struct {
	baseURL  string
	standard *http.Client
	long     *http.Client
	email    *http.Client
}

// NewClient creates a backend client for baseURL.
func NewClient(baseURL string, t Timeouts) *Client {
	return &Client{
		baseURL:  baseURL,
		standard: &http.Client{Timeout: t.Standard},
		long:     &http.Client{Timeout: t.Long},
		email:    &http.Client{Timeout: t.Email},
	}
}

// SearchAddresses queries the geocoding search endpoint.
func (c *Client) SearchAddresses(ctx context.Context, req SearchAddressesRequest) (*SearchAddressesResponse, error) {
	if req.Country == "" {
		req.Country = "ar"
	}
	var resp SearchAddressesResponse
	if err := c.post(ctx, c.standard, "/store/searchAddresses", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to search addresses: %w", err)
	}
	return &resp, nil
}

// ValidateAddress validates a free-text address and prices it.
func (c *Client) ValidateAddress(ctx context.Context, address string) (*ValidateAddressResponse, error) {
	body := map[string]interface{}{
		"address":           address,
		"country":           "ar",
		"returnSuggestions": true,
	}
	var resp ValidateAddressResponse
	if err := c.post(ctx, c.standard, "/store/validateAddress", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to validate address: %w", err)
	}
	return &resp, nil
}

// CalculateShipping resolves a free-text address into priced candidates.
func (c *Client) CalculateShipping(ctx context.Context, address string) (*SearchAddressesResponse, error) {
	body := map[string]string{"address": address}
	var resp SearchAddressesResponse
	if err := c.post(ctx, c.standard, "/store/calculateShipping", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to calculate shipping: %w", err)
	}
	return &resp, nil
}

// ReverseGeocode resolves a coordinate pair to a formatted address.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*ReverseGeocodeResponse, error) {
	body := map[string]float64{"lat": lat, "lng": lng}
	var resp ReverseGeocodeResponse
	if err := c.post(ctx, c.standard, "/store/reverseGeocode", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to reverse geocode: %w", err)
	}
	return &resp, nil
}

// ScheduleStatus fetches the operating-hours status.
func (c *Client) ScheduleStatus(ctx context.Context) (*ScheduleStatus, error) {
	var resp ScheduleStatus
	if err := c.get(ctx, c.standard, "/store/horario", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule status: %w", err)
	}
	return &resp, nil
}

// Settings fetches the store settings (name, contact, address).
func (c *Client) Settings(ctx context.Context) (*StoreSettings, error) {
	var resp StoreSettings
	if err := c.get(ctx, c.standard, "/store/variablesenv", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch store settings: %w", err)
	}
	return &resp, nil
}

// CreatePreference requests a payment-preference token for the gateway
// redirect.
func (c *Client) CreatePreference(ctx context.Context, total float64) (*PreferenceResponse, error) {
	body := map[string]float64{"total": total}
	var resp PreferenceResponse
	if err := c.post(ctx, c.standard, "/store/create_preference", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to create payment preference: %w", err)
	}
	return &resp, nil
}

// CreateOrder submits the order to the backend. Uses the long-timeout client:
// order creation is the critical-path, must-not-lose operation.
func (c *Client) CreateOrder(ctx context.Context, order interface{}) error {
	if err := c.post(ctx, c.long, "/store/NuevoPedido", order, nil); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// SendOrderEmail dispatches the order-confirmation email. Uses the extended
// timeout client; a timeout here is likely-success-but-unconfirmed.
func (c *Client) SendOrderEmail(ctx context.Context, req OrderEmailRequest) error {
	if err := c.post(ctx, c.email, "/store/mailPedidoRealizado", req, nil); err != nil {
		return fmt.Errorf("failed to send order email: %w", err)
	}
	return nil
}

// Offers fetches the promotional price tier listing.
func (c *Client) Offers(ctx context.Context) ([]Product, error) {
	var resp []Product
	if err := c.get(ctx, c.standard, "/store/articulosOF", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch offers: %w", err)
	}
	return resp, nil
}

// Featured fetches the featured-product listing.
func (c *Client) Featured(ctx context.Context) ([]Product, error) {
	var resp []Product
	if err := c.get(ctx, c.standard, "/store/articulosDEST", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}
	return resp, nil
}

// PromoImages fetches the promotional banner image URLs.
func (c *Client) PromoImages(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.get(ctx, c.standard, "/store/getImagenesPublicidad", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch promo images: %w", err)
	}
	return resp, nil
}

// Categories fetches the category listing.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.get(ctx, c.standard, "/store/categorias", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return resp, nil
}

// Products fetches a paginated, optionally filtered product listing.
func (c *Client) Products(ctx context.Context, search, category string, page int) (*ProductPage, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if category != "" {
		q.Set("categoria", category)
	}
	if page > 0 {
		q.Set("pagina", fmt.Sprintf("%d", page))
	}
	path := "/store/articulos"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp ProductPage
	if err := c.get(ctx, c.standard, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return &resp, nil
}

// ProductImage resolves a product's image URL by barcode.
func (c *Client) ProductImage(ctx context.Context, barcode string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	path := "/store/imagenArticulo/" + url.PathEscape(barcode)
	if err := c.get(ctx, c.standard, path, &resp); err != nil {
		return "", fmt.Errorf("failed to resolve product image: %w", err)
	}
	return resp.URL, nil
}

func (c *Client) post(ctx context.Context, client *http.Client, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(client, req, out)
}

func (c *Client) get(ctx context.Context, client *http.Client, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(client, req, out)
}

func (c *Client) do(client *http.Client, req *http.Request, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a bounded slice of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Status: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
