// Package favorites persists the user's favorite images in a key/value store.
package favorites

import (
	"context"
	"encoding/json"

	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
	"github.com/alexisbeaulieu97/picgrid/internal/logger"
	"github.com/alexisbeaulieu97/picgrid/internal/ports"
	apperrors "github.com/alexisbeaulieu97/picgrid/pkg/errors"
)

// Key is the storage key holding the JSON array of favorite images.
const Key = "favorites"

// Store reads and writes the favorites set.
type Store struct {
	kv  ports.KeyValueStore
	log *logger.Logger
}

// NewStore wraps kv. A nil logger discards output.
func NewStore(kv ports.KeyValueStore, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{kv: kv, log: log.WithComponent("favorites")}
}

// Load returns the stored set. A missing key yields an empty set. Unreadable
// or corrupt data yields an empty set together with a PersistenceError.
func (s *Store) Load(ctx context.Context) (domain.FavoriteSet, error) {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return domain.FavoriteSet{}, apperrors.NewPersistenceError(Key, "read", err)
	}
	if !ok || len(raw) == 0 {
		return domain.FavoriteSet{}, nil
	}

	var set domain.FavoriteSet
	if err := json.Unmarshal(raw, &set); err != nil {
		s.log.Warn(err, "stored favorites are corrupt; starting empty")
		return domain.FavoriteSet{}, apperrors.NewPersistenceError(Key, "decode", err)
	}

	s.log.WithFields(map[string]any{"count": set.Len()}).Debug("favorites loaded")
	return set, nil
}

// Save overwrites the stored set.
func (s *Store) Save(ctx context.Context, set domain.FavoriteSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return apperrors.NewPersistenceError(Key, "encode", err)
	}
	if err := s.kv.Set(ctx, Key, data); err != nil {
		return apperrors.NewPersistenceError(Key, "write", err)
	}
	s.log.WithFields(map[string]any{"count": set.Len()}).Debug("favorites saved")
	return nil
}

var _ ports.FavoritesStore = (*Store)(nil)
