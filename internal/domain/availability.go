package domain

import "context"

// AvailabilityState is the store's checkout gate state.
type AvailabilityState string

const (
	// StoreOpen is the unblocked default.
	StoreOpen AvailabilityState = "open"

	// StoreClosedWithinSchedule means the store entity is active but the
	// current time is outside operating hours. Checkout may continue with a
	// deferred-fulfillment warning.
	StoreClosedWithinSchedule AvailabilityState = "closed_within_schedule"

	// StoreInactive means the store entity is disabled entirely, independent
	// of schedule. Checkout is blocked.
	StoreInactive AvailabilityState = "inactive"
)

// Schedule carries operating-hours metadata for user-facing messages.
type Schedule struct {
	Opens          string `json:"apertura"`
	Closes         string `json:"cierre"`
	OpensDisplay   string `json:"aperturaFormateada"`
	ClosesDisplay  string `json:"cierreFormateada"`
	MinutesToOpen  int    `json:"minutosParaAbrir"`
	MinutesToClose int    `json:"minutosParaCerrar"`
}

// Availability is the decision the gate hands to checkout.
type Availability struct {
	State    AvailabilityState `json:"state"`
	Open     bool              `json:"estaAbierto"`
	Schedule Schedule          `json:"horarios"`

	// Degraded is true when the last poll failed and the state is the
	// fail-open default rather than a confirmed reading.
	Degraded bool `json:"degraded,omitempty"`
}

// CanCheckout reports whether checkout may proceed at all.
func (a Availability) CanCheckout() bool {
	return a.State != StoreInactive
}

// DeferredFulfillment reports whether the user should be warned that the
// order will be prepared when the store reopens.
func (a Availability) DeferredFulfillment() bool {
	return a.State == StoreClosedWithinSchedule
}

// AvailabilityService polls the operating-hours endpoint and caches the
// result. Poll failures default to open: a transient backend error must never
// block all orders.
type AvailabilityService interface {
	// Current returns the cached availability.
	Current() Availability

	// Refresh polls the backend immediately and updates the cache.
	Refresh(ctx context.Context) Availability

	// Start launches the background poller. It stops when ctx is cancelled.
	Start(ctx context.Context)
}
