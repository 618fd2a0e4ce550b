package handler

import (
	"net/http"

	"github.com/avilaj/tienda/internal/domain"
)

// AvailabilityHandler exposes the operating-hours gate.
type AvailabilityHandler struct {
	availability domain.AvailabilityService
}

// NewAvailabilityHandler creates an availability handler.
func NewAvailabilityHandler(availability domain.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Current handles GET /api/availability.
func (h *AvailabilityHandler) Current(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.availability.Current())
}

// Refresh handles POST /api/availability/refresh: an on-demand poll outside
// the background cadence.
func (h *AvailabilityHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.availability.Refresh(r.Context()))
}
