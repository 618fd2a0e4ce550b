package handler

import (
	"net/http"

	"github.com/avilaj/tienda/internal/backend"
	"github.com/avilaj/tienda/internal/domain"
)

// AddressHandler handles address resolution and the saved-addresses
// collection.
type AddressHandler struct {
	addresses domain.AddressService
	saved     domain.SavedAddressService
	client    *backend.Client
}

// NewAddressHandler creates an address handler.
func NewAddressHandler(addresses domain.AddressService, saved domain.SavedAddressService, client *backend.Client) *AddressHandler {
	return &AddressHandler{addresses: addresses, saved: saved, client: client}
}

// Search handles POST /api/addresses/search.
// An empty suggestion list is a normal outcome (short query, no matches, or a
// degraded geocoder), never an error.
func (h *AddressHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Query string `json:"query"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if req.Field == "" {
		req.Field = "address"
	}

	suggestions, err := h.addresses.SearchText(r.Context(), req.Field, req.Query)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	if suggestions == nil {
		suggestions = []domain.AddressSuggestion{}
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

// Validate handles POST /api/addresses/validate: a one-shot server-side check
// of a fully typed address, with correction suggestions.
func (h *AddressHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if req.Address == "" {
		RespondError(w, r, domain.Invalid("addresses.validate", "address is required"))
		return
	}

	resp, err := h.client.ValidateAddress(r.Context(), req.Address)
	if err != nil {
		RespondError(w, r, domain.Unavailable(err, "addresses.validate", "Address validation is temporarily unavailable"))
		return
	}
	RespondJSON(w, http.StatusOK, resp)
}

// Quote handles POST /api/addresses/quote: prices a free-text address without
// going through the suggestion flow.
func (h *AddressHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if req.Address == "" {
		RespondError(w, r, domain.Invalid("addresses.quote", "address is required"))
		return
	}

	resp, err := h.client.CalculateShipping(r.Context(), req.Address)
	if err != nil {
		RespondError(w, r, domain.Unavailable(err, "addresses.quote", "Shipping calculation is temporarily unavailable"))
		return
	}
	RespondJSON(w, http.StatusOK, resp)
}

// Select handles POST /api/addresses/select.
func (h *AddressHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req domain.AddressSuggestion
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}

	sel := h.addresses.SelectSuggestion(req)
	RespondJSON(w, http.StatusOK, sel)
}

// PickOnMap handles POST /api/addresses/map.
func (h *AddressHandler) PickOnMap(w http.ResponseWriter, r *http.Request) {
	var req domain.Coordinates
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}

	sel, err := h.addresses.PickOnMap(r.Context(), req)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, sel)
}

// Selection handles GET /api/addresses/selection.
func (h *AddressHandler) Selection(w http.ResponseWriter, r *http.Request) {
	sel := h.addresses.Selection()
	if sel == nil {
		RespondError(w, r, domain.NotFound("addresses.selection", "address selection", "active"))
		return
	}
	RespondJSON(w, http.StatusOK, sel)
}

// ClearSelection handles DELETE /api/addresses/selection.
func (h *AddressHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.addresses.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

// ListSaved handles GET /api/addresses/saved.
func (h *AddressHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	list, err := h.saved.List(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.SavedAddress{}
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"addresses": list})
}

// Save handles POST /api/addresses/saved.
func (h *AddressHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname  string                  `json:"nickname"`
		Selection domain.AddressSelection `json:"selection"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}

	saved, err := h.saved.Save(r.Context(), req.Selection, req.Nickname)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, saved)
}

// DeleteSaved handles DELETE /api/addresses/saved/{id}.
func (h *AddressHandler) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	if err := h.saved.Delete(r.Context(), r.PathValue("id")); err != nil {
		RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UseSaved handles POST /api/addresses/saved/{id}/use: bumps the usage
// counter and installs the saved selection as the active one.
func (h *AddressHandler) UseSaved(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.saved.IncrementUsage(r.Context(), id); err != nil {
		RespondError(w, r, err)
		return
	}

	list, err := h.saved.List(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}
	for _, a := range list {
		if a.ID == id {
			RespondJSON(w, http.StatusOK, a.Selection)
			return
		}
	}
	RespondError(w, r, domain.NotFound("addresses.use", "saved address", id))
}
