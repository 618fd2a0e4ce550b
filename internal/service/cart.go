package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/avilaj/tienda/internal/domain"
	"github.com/avilaj/tienda/internal/storage"
	"github.com/avilaj/tienda/internal/telemetry"
)

// cartService implements domain.CartService over the durable store.
//
// Lines are merged by product name: adding an item whose name matches an
// existing line increments that line instead of appending a duplicate. This
// matches the deployed merge behavior; see DESIGN.md for the trade-off.
type cartService struct {
	mu          sync.Mutex
	store       storage.Store
	metrics     *telemetry.BusinessMetrics
	logger      *slog.Logger
	maxQuantity int

	items  []domain.CartItem
	loaded bool
}

// NewCartService creates a CartService backed by store. maxQuantity is the
// per-line ceiling (0 uses the default of 30). metrics may be nil.
func NewCartService(store storage.Store, maxQuantity int, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.CartService {
	if maxQuantity <= 0 {
		maxQuantity = 30
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cartService{
		store:       store,
		metrics:     metrics,
		logger:      logger,
		maxQuantity: maxQuantity,
	}
}

// Load reads the cart from the durable store, exactly once per session.
// Anything that does not parse into a well-formed array of valid items is
// discarded rather than propagated.
func (s *cartService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *cartService) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	raw, found, err := s.store.Get(ctx, storage.KeyCart)
	if err != nil {
		// A broken store read degrades to an empty cart; writes may still
		// succeed later.
		s.logger.Error("cart: failed to read stored cart", "error", err)
		s.loaded = true
		return nil
	}
	if found {
		items, ok := decodeStoredCart(raw)
		if !ok {
			s.logger.Warn("cart: discarding corrupt stored cart", "bytes", len(raw))
		} else {
			s.items = items
		}
	}

	s.loaded = true
	return nil
}

// decodeStoredCart parses stored bytes defensively. Returns ok=false when the
// value is not an array of valid items (string name, positive quantity,
// non-negative price).
func decodeStoredCart(raw []byte) ([]domain.CartItem, bool) {
	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	for i := range items {
		it := &items[i]
		if it.Name == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, false
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.LineTotal = it.UnitPrice * int64(it.Quantity)
	}
	return items, true
}

// AddItem adds a product, merging by name. The unit price is rounded to the
// nearest integer unit at insertion.
func (s *cartService) AddItem(ctx context.Context, item domain.NewCartItem) (*domain.CartSummary, error) {
	if item.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if item.Name == "" {
		return nil, domain.Invalid("cart.add", "item name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}

	price := int64(math.Round(item.UnitPrice))

	merged := false
	for i := range s.items {
		if s.items[i].Name == item.Name {
			q := s.items[i].Quantity + item.Quantity
			if q > s.maxQuantity {
				q = s.maxQuantity
			}
			s.items[i].Quantity = q
			s.items[i].LineTotal = s.items[i].UnitPrice * int64(q)
			merged = true
			break
		}
	}

	if !merged {
		q := item.Quantity
		if q > s.maxQuantity {
			q = s.maxQuantity
		}
		s.items = append(s.items, domain.CartItem{
			ID:            uuid.NewString(),
			Name:          item.Name,
			UnitPrice:     price,
			Quantity:      q,
			LineTotal:     price * int64(q),
			ImageRef:      item.ImageRef,
			BarcodeRef:    item.BarcodeRef,
			InternalCode:  item.InternalCode,
			IsOffer:       item.IsOffer,
			OriginalPrice: item.OriginalPrice,
		})
	}

	s.persistLocked(ctx)
	if s.metrics != nil {
		s.metrics.CartItemsAdded.WithLabelValues(fmt.Sprintf("%t", merged)).Inc()
	}
	return s.summaryLocked(), nil
}

// UpdateQuantity sets a line's quantity. Zero or negative is rejected so the
// caller can route it through a removal confirmation; values above the
// ceiling are rejected with no state change.
func (s *cartService) UpdateQuantity(ctx context.Context, id string, quantity int) (*domain.CartSummary, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if quantity > s.maxQuantity {
		return nil, domain.ErrQuantityTooHigh
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			s.items[i].LineTotal = s.items[i].UnitPrice * int64(quantity)
			s.persistLocked(ctx)
			return s.summaryLocked(), nil
		}
	}

	return nil, domain.ErrCartItemNotFound
}

// RemoveItem deletes a cart line.
func (s *cartService) RemoveItem(ctx context.Context, id string) (*domain.CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked(ctx)
			return s.summaryLocked(), nil
		}
	}

	return nil, domain.ErrCartItemNotFound
}

// Clear empties the collection.
func (s *cartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return err
	}

	s.items = nil
	if err := s.store.Delete(ctx, storage.KeyCart); err != nil {
		s.logger.Error("cart: failed to clear stored cart", "error", err)
	}
	if s.metrics != nil {
		s.metrics.CartCleared.Inc()
	}
	return nil
}

// Summary returns the current lines with derived totals.
func (s *cartService) Summary(ctx context.Context) (*domain.CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.summaryLocked(), nil
}

// summaryLocked computes totals on every read; they are never stored.
func (s *cartService) summaryLocked() *domain.CartSummary {
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)

	var totalItems int
	var totalPrice int64
	for _, it := range items {
		totalItems += it.Quantity
		totalPrice += it.LineTotal
	}

	return &domain.CartSummary{
		Items:      items,
		TotalItems: totalItems,
		TotalPrice: totalPrice,
	}
}

// persistLocked syncs in-memory state to the durable store. Loading must have
// completed first, so an empty first render cannot overwrite saved data. A
// write failure degrades to a reduced-field write, and finally to in-memory
// state only; the session never crashes over a persistence error.
func (s *cartService) persistLocked(ctx context.Context) {
	if !s.loaded {
		return
	}

	payload, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("cart: failed to encode cart", "error", err)
		return
	}

	err = s.store.Put(ctx, storage.KeyCart, payload)
	if err == nil {
		return
	}
	s.logger.Warn("cart: full write failed, retrying with reduced fields", "error", err)

	reduced := make([]domain.CartItem, len(s.items))
	for i, it := range s.items {
		reduced[i] = domain.CartItem{
			ID:        it.ID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		}
	}
	payload, err = json.Marshal(reduced)
	if err != nil {
		s.logger.Error("cart: failed to encode reduced cart", "error", err)
		return
	}
	if err := s.store.Put(ctx, storage.KeyCart, payload); err != nil {
		s.logger.Error("cart: persistence unavailable, continuing in memory",
			"error", fmt.Errorf("reduced write failed: %w", err))
	}
}
