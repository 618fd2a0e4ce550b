package domain

import "context"

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrQuantityTooHigh  = &Error{Code: EINVALID, Message: "Quantity above the per-item limit"}
	ErrCartNotLoaded    = &Error{Code: EINTERNAL, Message: "Cart store has not been loaded yet"}
)

// CartService is the single source of truth for cart contents.
// The canonical home of the collection is the durable store; in-memory state
// is a cache that syncs to the store on every mutation, but only after Load
// has completed, so an empty first render never overwrites saved data.
type CartService interface {
	// Load reads the cart from the durable store. Runs exactly once per
	// session; subsequent calls are no-ops. Corrupt or malformed stored data
	// is discarded and replaced with an empty cart.
	Load(ctx context.Context) error

	// AddItem adds a product to the cart. If a line with the same name
	// already exists, its quantity is incremented instead of appending a
	// duplicate line.
	AddItem(ctx context.Context, item NewCartItem) (*CartSummary, error)

	// UpdateQuantity sets the quantity of a cart line. Quantity must be in
	// [1, max]; zero or negative requests are rejected so the caller can
	// route them through a removal confirmation instead.
	UpdateQuantity(ctx context.Context, id string, quantity int) (*CartSummary, error)

	// RemoveItem deletes a cart line.
	RemoveItem(ctx context.Context, id string) (*CartSummary, error)

	// Clear empties the collection. Invoked after a confirmed order or an
	// explicit reset.
	Clear(ctx context.Context) error

	// Summary returns the current lines with derived totals.
	Summary(ctx context.Context) (*CartSummary, error)
}

// CartItem represents one cart line.
type CartItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	UnitPrice     int64   `json:"price"`
	Quantity      int     `json:"quantity"`
	LineTotal     int64   `json:"total"`
	ImageRef      string  `json:"imageUrl,omitempty"`
	BarcodeRef    string  `json:"barcode,omitempty"`
	InternalCode  int64   `json:"internalCode,omitempty"`
	IsOffer       bool    `json:"isOffer,omitempty"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
}

// NewCartItem carries the fields needed to add a product to the cart.
// UnitPrice is rounded to the nearest integer unit at insertion.
type NewCartItem struct {
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	ImageRef      string  `json:"imageUrl,omitempty"`
	BarcodeRef    string  `json:"barcode,omitempty"`
	InternalCode  int64   `json:"internalCode,omitempty"`
	IsOffer       bool    `json:"isOffer,omitempty"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
}

// CartSummary aggregates cart lines with derived totals.
// Totals are computed on every read, never stored redundantly.
type CartSummary struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int64      `json:"totalPrice"`
}
