// Package settings stores user display preferences.
package settings

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/alexisbeaulieu97/picgrid/internal/logger"
	"github.com/alexisbeaulieu97/picgrid/internal/ports"
	apperrors "github.com/alexisbeaulieu97/picgrid/pkg/errors"
)

// DarkModeKey holds a JSON boolean.
const DarkModeKey = "darkMode"

// Settings are the persisted display preferences.
type Settings struct {
	DarkMode bool `json:"darkMode" yaml:"darkMode"`
}

// Store reads and writes Settings.
type Store struct {
	kv  ports.KeyValueStore
	log *logger.Logger

	saveMu  sync.Mutex
	written uint64
}

// NewStore returns a Store backed by kv.
func NewStore(kv ports.KeyValueStore, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{kv: kv, log: log.WithComponent("settings")}
}

// Load returns stored settings, falling back to defaults for missing or
// unreadable values. A corrupt value is reported alongside the defaults.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	var out Settings

	raw, ok, err := s.kv.Get(ctx, DarkModeKey)
	if err != nil {
		return out, apperrors.NewPersistenceError(DarkModeKey, "read", err)
	}
	if !ok {
		return out, nil
	}

	if err := json.Unmarshal(raw, &out.DarkMode); err != nil {
		s.log.Warn(err, "stored dark mode flag is corrupt; using default")
		return Settings{}, apperrors.NewPersistenceError(DarkModeKey, "decode", err)
	}
	return out, nil
}

// Save persists every setting.
func (s *Store) Save(ctx context.Context, st Settings) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.saveLocked(ctx, st)
}

// SaveRevision persists st unless a save with a higher revision has already
// been written. Callers number their saves so that concurrent writers cannot
// leave an older value on disk.
func (s *Store) SaveRevision(ctx context.Context, revision uint64, st Settings) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if revision <= s.written {
		s.log.WithFields(map[string]any{"revision": revision, "written": s.written}).Debug("skipping stale settings save")
		return nil
	}
	if err := s.saveLocked(ctx, st); err != nil {
		return err
	}
	s.written = revision
	return nil
}

func (s *Store) saveLocked(ctx context.Context, st Settings) error {
	data, err := json.Marshal(st.DarkMode)
	if err != nil {
		return apperrors.NewPersistenceError(DarkModeKey, "encode", err)
	}
	if err := s.kv.Set(ctx, DarkModeKey, data); err != nil {
		return apperrors.NewPersistenceError(DarkModeKey, "write", err)
	}
	return nil
}
