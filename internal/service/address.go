package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avilaj/tienda/internal/backend"
	"github.com/avilaj/tienda/internal/domain"
	"github.com/avilaj/tienda/internal/shipping"
	"github.com/avilaj/tienda/internal/telemetry"
)

// Geocoder is the slice of the backend client the address service needs.
type Geocoder interface {
	SearchAddresses(ctx context.Context, req backend.SearchAddressesRequest) (*backend.SearchAddressesResponse, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*backend.ReverseGeocodeResponse, error)
}

// AddressConfig tunes the text search path.
type AddressConfig struct {
	// MinQueryLength below which queries only clear suggestions. Default 3.
	MinQueryLength int

	// Debounce is how long a query must stay unchanged before it is sent.
	// Default 500ms.
	Debounce time.Duration

	// SearchLimit caps returned suggestions. Default 6.
	SearchLimit int

	// FarDistanceKm is the distance beyond which candidates are penalized.
	// Default 50.
	FarDistanceKm float64

	// Locality boosts candidates whose city matches. Default "córdoba".
	Locality string
}

func (c *AddressConfig) applyDefaults() {
	if c.MinQueryLength <= 0 {
		c.MinQueryLength = 3
	}
	if c.Debounce <= 0 {
		c.Debounce = 500 * time.Millisecond
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = 6
	}
	if c.FarDistanceKm <= 0 {
		c.FarDistanceKm = 50
	}
	if c.Locality == "" {
		c.Locality = "córdoba"
	}
}

// addressService implements domain.AddressService.
//
// Both resolution paths write to the same selection slot, so activating one
// clears the other. Text searches are debounced and cancellable per input
// field: a new call replaces (and cancels) the field's in-flight request, so
// a stale slow response can never overwrite a newer one.
type addressService struct {
	geo     Geocoder
	quoter  *shipping.Quoter
	cfg     AddressConfig
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger

	mu        sync.Mutex
	inflight  map[string]*searchCall
	selection *domain.AddressSelection
	seq       uint64
}

// searchCall is one in-flight (or debouncing) text search for a field.
type searchCall struct {
	id     uint64
	cancel context.CancelFunc
}

// NewAddressService creates the address resolution service. metrics may be
// nil.
func NewAddressService(geo Geocoder, quoter *shipping.Quoter, cfg AddressConfig, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.AddressService {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &addressService{
		geo:      geo,
		quoter:   quoter,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		inflight: map[string]*searchCall{},
	}
}

// SearchText runs the debounced text path for one input field.
// Failures and supersession degrade to an empty suggestion list; the caller
// never sees an error it has to handle.
func (s *addressService) SearchText(ctx context.Context, field, query string) ([]domain.AddressSuggestion, error) {
	query = strings.TrimSpace(query)
	if len(query) < s.cfg.MinQueryLength {
		s.cancelField(field)
		return nil, nil
	}

	callCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if prev, ok := s.inflight[field]; ok {
		prev.cancel()
	}
	s.seq++
	call := &searchCall{id: s.seq, cancel: cancel}
	s.inflight[field] = call
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		// Drop the entry only if it is still ours; a newer call may have
		// replaced it already.
		if cur, ok := s.inflight[field]; ok && cur.id == call.id {
			delete(s.inflight, field)
		}
		s.mu.Unlock()
		cancel()
	}()

	select {
	case <-time.After(s.cfg.Debounce):
	case <-callCtx.Done():
		return nil, nil
	}

	if s.metrics != nil {
		s.metrics.AddressSearches.WithLabelValues("input").Inc()
	}
	resp, err := s.geo.SearchAddresses(callCtx, backend.SearchAddressesRequest{
		Query: query,
		Limit: s.cfg.SearchLimit,
	})
	if err != nil {
		if callCtx.Err() == nil {
			s.logger.Warn("address: search failed", "query", query, "error", err)
		}
		return nil, nil
	}
	if !resp.Success || len(resp.Results) == 0 {
		return nil, nil
	}

	suggestions := make([]domain.AddressSuggestion, 0, len(resp.Results))
	for i, r := range resp.Results {
		suggestions = append(suggestions, domain.AddressSuggestion{
			ID:           fmt.Sprintf("addr_%d_%d", i, time.Now().UnixMilli()),
			Formatted:    r.Formatted,
			Confidence:   r.Confidence,
			DistanceKm:   r.DistanceKm,
			ShippingCost: r.ShippingCost,
			Coordinates:  r.Coordinates,
			Components:   r.Components,
			IsComplete:   r.Components.HouseNumber != "" && r.Components.Road != "",
			Quality:      s.quality(r),
		})
	}
	s.rank(suggestions)

	if len(suggestions) > s.cfg.SearchLimit {
		suggestions = suggestions[:s.cfg.SearchLimit]
	}
	return suggestions, nil
}

// quality scores a candidate: geocoder confidence, boosted for a house
// number, a street name, and a locality match, penalized when far away.
// Clamped to [0, 1].
func (s *addressService) quality(r backend.SearchResult) float64 {
	q := r.Confidence
	if r.Components.HouseNumber != "" {
		q += 0.2
	}
	if r.Components.Road != "" {
		q += 0.1
	}
	if strings.Contains(strings.ToLower(r.Components.City), s.cfg.Locality) {
		q += 0.1
	}
	if r.DistanceKm > s.cfg.FarDistanceKm {
		q -= 0.3
	}
	if q > 1 {
		q = 1
	}
	if q < 0 {
		q = 0
	}
	return q
}

// rank orders candidates: complete addresses first, then by quality when the
// gap is meaningful, then nearest first.
func (s *addressService) rank(list []domain.AddressSuggestion) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.IsComplete != b.IsComplete {
			return a.IsComplete
		}
		if diff := a.Quality - b.Quality; diff > 0.1 || diff < -0.1 {
			return a.Quality > b.Quality
		}
		return a.DistanceKm < b.DistanceKm
	})
}

// SelectSuggestion finalizes a text-path candidate and clears the map path.
func (s *addressService) SelectSuggestion(sg domain.AddressSuggestion) *domain.AddressSelection {
	s.cancelAll()

	sel := &domain.AddressSelection{
		FormattedAddress: sg.Formatted,
		Coordinates:      sg.Coordinates,
		DistanceKm:       sg.DistanceKm,
		ShippingCost:     sg.ShippingCost,
		Source:           domain.AddressSourceInput,
	}

	s.mu.Lock()
	s.selection = sel
	s.mu.Unlock()
	return sel
}

// PickOnMap resolves a clicked coordinate pair. Distance and cost are
// computed locally against the store origin; reverse geocoding failure still
// yields a usable, coordinate-labeled selection.
func (s *addressService) PickOnMap(ctx context.Context, point domain.Coordinates) (*domain.AddressSelection, error) {
	s.cancelAll()

	if s.metrics != nil {
		s.metrics.AddressSearches.WithLabelValues("map").Inc()
	}

	distance := s.quoter.DistanceTo(point)
	cost := s.quoter.Cost(distance)

	formatted := fmt.Sprintf("Ubicación (%.4f, %.4f)", point.Lat, point.Lng)
	if resp, err := s.geo.ReverseGeocode(ctx, point.Lat, point.Lng); err != nil {
		s.logger.Warn("address: reverse geocode failed, using coordinate label",
			"lat", point.Lat, "lng", point.Lng, "error", err)
	} else if resp.Success && resp.Formatted != "" {
		formatted = resp.Formatted
	}

	sel := &domain.AddressSelection{
		FormattedAddress: formatted,
		Coordinates:      point,
		DistanceKm:       distance,
		ShippingCost:     cost,
		Source:           domain.AddressSourceMap,
	}

	s.mu.Lock()
	s.selection = sel
	s.mu.Unlock()
	return sel, nil
}

// Selection returns the active selection, or nil.
func (s *addressService) Selection() *domain.AddressSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// ClearSelection drops the active selection and any in-flight searches.
func (s *addressService) ClearSelection() {
	s.cancelAll()
	s.mu.Lock()
	s.selection = nil
	s.mu.Unlock()
}

func (s *addressService) cancelField(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if call, ok := s.inflight[field]; ok {
		call.cancel()
		delete(s.inflight, field)
	}
}

func (s *addressService) cancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for field, call := range s.inflight {
		call.cancel()
		delete(s.inflight, field)
	}
}
