package domain

import "context"

// AddressSource identifies which resolution path produced a selection.
// Only one path may be active at a time: the text input and the map picker
// both write to the same selection slot.
type AddressSource string

const (
	AddressSourceInput AddressSource = "input"
	AddressSourceMap   AddressSource = "map"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AddressSelection is a resolved, priced delivery address.
type AddressSelection struct {
	FormattedAddress string        `json:"address"`
	Coordinates      Coordinates   `json:"coordinates"`
	DistanceKm       float64       `json:"distance"`
	ShippingCost     float64       `json:"shippingCost"`
	Source           AddressSource `json:"source"`
}

// AddressComponents carries the structured parts of a geocoded result.
type AddressComponents struct {
	HouseNumber string `json:"house_number,omitempty"`
	Road        string `json:"road,omitempty"`
	City        string `json:"city,omitempty"`
}

// AddressSuggestion is one ranked candidate returned by the text search path.
type AddressSuggestion struct {
	ID           string            `json:"id"`
	Formatted    string            `json:"formatted"`
	Confidence   float64           `json:"confidence"`
	DistanceKm   float64           `json:"distance"`
	ShippingCost float64           `json:"shippingCost"`
	Coordinates  Coordinates       `json:"coordinates"`
	Components   AddressComponents `json:"components"`
	IsComplete   bool              `json:"isComplete"`
	Quality      float64           `json:"quality"`
}

// SavedAddress is a previously used selection kept in the durable store with
// a usage counter.
type SavedAddress struct {
	ID         string           `json:"id"`
	Nickname   string           `json:"nickname,omitempty"`
	Selection  AddressSelection `json:"selection"`
	SavedAt    string           `json:"savedAt"`
	LastUsed   string           `json:"lastUsed,omitempty"`
	UsageCount int              `json:"usageCount"`
}

// AddressService converts free-text or map-picked input into a priced,
// validated delivery address.
type AddressService interface {
	// SearchText runs the debounced text path for a given input field.
	// Queries shorter than the minimum length clear the field's suggestions.
	// A new call for the same field cancels the field's in-flight request so
	// a stale slow response cannot overwrite a newer one. Search failures
	// degrade to an empty suggestion list.
	SearchText(ctx context.Context, field, query string) ([]AddressSuggestion, error)

	// SelectSuggestion finalizes a text-path suggestion into the active
	// selection and clears the map path.
	SelectSuggestion(s AddressSuggestion) *AddressSelection

	// PickOnMap resolves a clicked coordinate pair: reverse-geocodes it
	// (falling back to a coordinate label on failure) and prices it against
	// the store origin. Clears the text path.
	PickOnMap(ctx context.Context, point Coordinates) (*AddressSelection, error)

	// Selection returns the active selection, or nil.
	Selection() *AddressSelection

	// ClearSelection drops the active selection and both paths' state.
	ClearSelection()
}

// SavedAddressService manages the saved-addresses collection.
type SavedAddressService interface {
	List(ctx context.Context) ([]SavedAddress, error)
	Save(ctx context.Context, sel AddressSelection, nickname string) (*SavedAddress, error)
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, id string) error
}
