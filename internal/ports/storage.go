package ports

import (
	"context"

	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
)

// KeyValueStore is the durable medium behind favorites and settings. Values
// are opaque JSON documents overwritten wholesale on every Set, so concurrent
// writers resolve as last-write-wins. Get reports ok=false for a missing key.
// Implementations must be safe for concurrent use.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// FavoritesStore loads and persists the favorites set. Save failures are
// non-fatal to callers: the in-memory set stays authoritative.
type FavoritesStore interface {
	Load(ctx context.Context) (domain.FavoriteSet, error)
	Save(ctx context.Context, set domain.FavoriteSet) error
}
