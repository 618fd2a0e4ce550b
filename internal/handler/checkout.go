package handler

import (
	"net/http"

	"github.com/avilaj/tienda/internal/domain"
)

// CheckoutHandler handles the checkout form routes. Field updates are partial:
// only the fields present in the request body are applied, in the same order
// the form presents them.
type CheckoutHandler struct {
	checkout  domain.CheckoutService
	addresses domain.AddressService
}

// NewCheckoutHandler creates a checkout handler.
func NewCheckoutHandler(checkout domain.CheckoutService, addresses domain.AddressService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, addresses: addresses}
}

type checkoutUpdateRequest struct {
	Name            *string                 `json:"name,omitempty"`
	Email           *string                 `json:"email,omitempty"`
	Phone           *string                 `json:"phone,omitempty"`
	Note            *string                 `json:"note,omitempty"`
	FulfillmentMode *domain.FulfillmentMode `json:"fulfillmentMode,omitempty"`
	PaymentMethod   *domain.PaymentMethod   `json:"paymentMethod,omitempty"`
	IsApartment     *bool                   `json:"isApartment,omitempty"`
	ApartmentNumber *string                 `json:"apartmentNumber,omitempty"`
	UseSelection    bool                    `json:"useSelection,omitempty"`
}

type checkoutStateResponse struct {
	Draft       domain.OrderDraft `json:"draft"`
	FieldErrors map[string]string `json:"fieldErrors"`
	CanSubmit   bool              `json:"canSubmit"`
}

// State handles GET /api/checkout.
func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.state())
}

// Update handles PATCH /api/checkout. Individual field failures are recorded
// as field errors and reported in the response body, not as an HTTP error;
// the form stays editable.
func (h *CheckoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req checkoutUpdateRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}

	if req.Name != nil {
		h.checkout.SetName(*req.Name)
	}
	if req.Email != nil {
		h.checkout.SetEmail(*req.Email)
	}
	if req.Phone != nil {
		h.checkout.SetPhone(*req.Phone)
	}
	if req.Note != nil {
		h.checkout.SetNote(*req.Note)
	}
	if req.FulfillmentMode != nil {
		h.checkout.SetFulfillmentMode(*req.FulfillmentMode)
	}
	if req.IsApartment != nil || req.ApartmentNumber != nil {
		isApartment := false
		number := ""
		if req.IsApartment != nil {
			isApartment = *req.IsApartment
		}
		if req.ApartmentNumber != nil {
			number = *req.ApartmentNumber
		}
		h.checkout.SetApartment(isApartment, number)
	}
	if req.UseSelection {
		h.checkout.SetAddress(h.addresses.Selection())
	}
	if req.PaymentMethod != nil {
		h.checkout.SetPaymentMethod(*req.PaymentMethod)
	}

	RespondJSON(w, http.StatusOK, h.state())
}

// Validate handles POST /api/checkout/validate: the final full-form pass
// before submission.
func (h *CheckoutHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if err := h.checkout.Validate(); err != nil {
		RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) state() checkoutStateResponse {
	return checkoutStateResponse{
		Draft:       h.checkout.Draft(),
		FieldErrors: h.checkout.FieldErrors(),
		CanSubmit:   h.checkout.CanSubmit(),
	}
}
