package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avilaj/tienda/internal/domain"
	"github.com/avilaj/tienda/internal/storage"
)

// savedAddressService keeps previously used selections in the durable store
// with usage counters, so returning customers can reuse them.
type savedAddressService struct {
	mu     sync.Mutex
	store  storage.Store
	logger *slog.Logger
}

// NewSavedAddressService creates a SavedAddressService backed by store.
func NewSavedAddressService(store storage.Store, logger *slog.Logger) domain.SavedAddressService {
	if logger == nil {
		logger = slog.Default()
	}
	return &savedAddressService{store: store, logger: logger}
}

// List returns the saved addresses. Corrupt stored data yields an empty list.
func (s *savedAddressService) List(ctx context.Context) ([]domain.SavedAddress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(ctx), nil
}

func (s *savedAddressService) listLocked(ctx context.Context) []domain.SavedAddress {
	raw, found, err := s.store.Get(ctx, storage.KeySavedAddresses)
	if err != nil || !found {
		return nil
	}

	var list []domain.SavedAddress
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Warn("addresses: discarding corrupt saved addresses", "error", err)
		return nil
	}
	return list
}

// Save appends a selection with a fresh id and zeroed usage counter.
func (s *savedAddressService) Save(ctx context.Context, sel domain.AddressSelection, nickname string) (*domain.SavedAddress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := domain.SavedAddress{
		ID:        uuid.NewString(),
		Nickname:  nickname,
		Selection: sel,
		SavedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	list := append(s.listLocked(ctx), saved)
	if err := s.persistLocked(ctx, list); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Delete removes a saved address by id.
func (s *savedAddressService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.listLocked(ctx)
	out := list[:0]
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return s.persistLocked(ctx, out)
}

// IncrementUsage bumps a saved address's usage counter and last-used stamp.
func (s *savedAddressService) IncrementUsage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.listLocked(ctx)
	for i := range list {
		if list[i].ID == id {
			list[i].UsageCount++
			list[i].LastUsed = time.Now().UTC().Format(time.RFC3339)
			return s.persistLocked(ctx, list)
		}
	}
	return domain.NotFound("addresses.increment", "saved address", id)
}

func (s *savedAddressService) persistLocked(ctx context.Context, list []domain.SavedAddress) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode saved addresses: %w", err)
	}
	if err := s.store.Put(ctx, storage.KeySavedAddresses, payload); err != nil {
		return fmt.Errorf("failed to persist saved addresses: %w", err)
	}
	return nil
}
