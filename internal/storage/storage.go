package storage

import "context"

// Well-known keys in the durable client store.
const (
	KeyCart           = "cart"
	KeySavedAddresses = "saved_addresses"
	KeyPendingOrder   = "pedido"
)

// Store is a small durable key/value store for client-side state: the cart,
// the pending order, and saved addresses. It is the Go counterpart of the
// browser's localStorage: local, durable across restarts, tolerant of
// whatever bytes a previous session left behind.
type Store interface {
	// Get returns the stored value for key. found is false when the key has
	// never been written or was deleted.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put stores value under key, replacing any prior value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the store.
	Close() error
}
