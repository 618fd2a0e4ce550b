package handler

import (
	"net/http"

	"github.com/avilaj/tienda/internal/domain"
)

// CartHandler handles the cart routes.
type CartHandler struct {
	cart domain.CartService
}

// NewCartHandler creates a cart handler.
func NewCartHandler(cart domain.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// View handles GET /api/cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cart.Summary(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, summary)
}

// Add handles POST /api/cart/items.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req domain.NewCartItem
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}

	summary, err := h.cart.AddItem(r.Context(), req)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, summary)
}

// UpdateQuantity handles PUT /api/cart/items/{id}.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}

	summary, err := h.cart.UpdateQuantity(r.Context(), r.PathValue("id"), req.Quantity)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, summary)
}

// Remove handles DELETE /api/cart/items/{id}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cart.RemoveItem(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, summary)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
