package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avilaj/tienda/internal/backend"
	"github.com/avilaj/tienda/internal/domain"
	"github.com/avilaj/tienda/internal/telemetry"
)

// defaultPollInterval matches the deployed schedule-check cadence.
const defaultPollInterval = 5 * time.Minute

// availabilityService implements domain.AvailabilityService over the backend
// schedule endpoint. Before the first poll completes the cached state is the
// fail-open default.
type availabilityService struct {
	client   *backend.Client
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
	interval time.Duration

	mu      sync.RWMutex
	current domain.Availability
}

// NewAvailabilityService creates the availability gate. metrics may be nil.
// interval <= 0 uses the 5 minute default.
func NewAvailabilityService(client *backend.Client, metrics *telemetry.BusinessMetrics, interval time.Duration, logger *slog.Logger) domain.AvailabilityService {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &availabilityService{
		client:   client,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		current:  failOpenAvailability(),
	}
}

// Current returns the cached availability.
func (s *availabilityService) Current() domain.Availability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Refresh polls the backend and updates the cache. A poll error keeps the
// store sellable: the result degrades to open rather than blocking checkout.
func (s *availabilityService) Refresh(ctx context.Context) domain.Availability {
	status, err := s.client.ScheduleStatus(ctx)

	var next domain.Availability
	if err != nil {
		s.logger.Warn("availability: schedule poll failed, assuming open", "error", err)
		if s.metrics != nil {
			s.metrics.AvailabilityPollsFailed.Inc()
		}
		next = failOpenAvailability()
	} else {
		next = mapAvailability(status)
	}

	if s.metrics != nil {
		s.metrics.AvailabilityPolls.WithLabelValues(string(next.State)).Inc()
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return next
}

// Start polls immediately, then on the configured interval until ctx is
// cancelled.
func (s *availabilityService) Start(ctx context.Context) {
	go func() {
		s.Refresh(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Refresh(ctx)
			}
		}
	}()
}

// mapAvailability derives the gate state from the raw schedule response.
// An explicitly inactive store blocks checkout outright; a store that is
// merely outside hours stays sellable with a deferred-fulfillment warning.
func mapAvailability(status *backend.ScheduleStatus) domain.Availability {
	state := domain.StoreOpen
	switch {
	case status.StoreActive != nil && !*status.StoreActive:
		state = domain.StoreInactive
	case !status.Open:
		state = domain.StoreClosedWithinSchedule
	}

	schedule := status.Hours
	schedule.MinutesToOpen = status.Times.MinutesToOpen
	schedule.MinutesToClose = status.Times.MinutesToClose

	return domain.Availability{
		State:    state,
		Open:     status.Open,
		Schedule: schedule,
	}
}

// failOpenAvailability is the degraded default when no confirmed reading
// exists. The placeholder hours match the backend's own fallback.
func failOpenAvailability() domain.Availability {
	return domain.Availability{
		State: domain.StoreOpen,
		Open:  true,
		Schedule: domain.Schedule{
			Opens:         "08:00",
			Closes:        "02:00",
			OpensDisplay:  "8:00 AM",
			ClosesDisplay: "2:00 AM",
		},
		Degraded: true,
	}
}
