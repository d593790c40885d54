// Package cart keeps session carts: a mapping of product id to quantity
// per session id. Carts never hold prices.
package cart

import "context"

type Store interface {
	// Get returns the session's cart; an unknown session has an empty cart.
	Get(ctx context.Context, sessionID string) (map[uint]int, error)
	// Add merges quantity into the product's entry, creating it if needed.
	Add(ctx context.Context, sessionID string, productID uint, quantity int) error
	Remove(ctx context.Context, sessionID string, productID uint) error
	// Take returns the cart and empties it in one step, so only one caller
	// ever owns a given set of entries.
	Take(ctx context.Context, sessionID string) (map[uint]int, error)
	// Restore merges taken entries back into the cart after a failed
	// checkout. Entries added in the meantime are kept.
	Restore(ctx context.Context, sessionID string, items map[uint]int) error
}
