package handler

import (
	"net/http"

	"github.com/avilaj/tienda/internal/domain"
)

// OrderHandler handles order submission and confirmation.
type OrderHandler struct {
	orders       domain.OrderService
	checkout     domain.CheckoutService
	availability domain.AvailabilityService
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(orders domain.OrderService, checkout domain.CheckoutService, availability domain.AvailabilityService) *OrderHandler {
	return &OrderHandler{
		orders:       orders,
		checkout:     checkout,
		availability: availability,
	}
}

type submitResponse struct {
	RedirectURL string `json:"redirectUrl,omitempty"`
	Confirmed   bool   `json:"confirmed"`

	// DeferredFulfillment warns that the store is outside operating hours and
	// the order will be prepared at reopening.
	DeferredFulfillment bool `json:"deferredFulfillment,omitempty"`
}

// Submit handles POST /api/orders: validates the form, checks the
// availability gate, and starts the submission.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := h.checkout.Validate(); err != nil {
		RespondError(w, r, err)
		return
	}

	avail := h.availability.Current()
	if !avail.CanCheckout() {
		RespondError(w, r, &domain.Error{
			Code:    domain.EUNAVAILABLE,
			Message: "The store is not taking orders right now",
			Op:      "order.submit",
		})
		return
	}

	draft := h.checkout.Draft()
	result, err := h.orders.Submit(r.Context(), &draft)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusAccepted, submitResponse{
		RedirectURL:         result.RedirectURL,
		Confirmed:           result.Confirmed,
		DeferredFulfillment: avail.DeferredFulfillment(),
	})
}

// Confirm handles POST /api/orders/confirm, the landing step after a cash
// submission or a gateway return.
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Confirm(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, order)
}

// Retry handles POST /api/orders/retry, re-enabling confirmation after a
// failure.
func (h *OrderHandler) Retry(w http.ResponseWriter, r *http.Request) {
	h.orders.Retry()
	w.WriteHeader(http.StatusNoContent)
}

// Pending handles GET /api/orders/pending.
func (h *OrderHandler) Pending(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Pending(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, order)
}
