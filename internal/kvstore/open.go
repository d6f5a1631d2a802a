// Package kvstore provides the durable key/value media used for favorites and
// settings: a JSON document on disk or an SQLite database.
package kvstore

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/picgrid/internal/logger"
	"github.com/alexisbeaulieu97/picgrid/internal/ports"
	apperrors "github.com/alexisbeaulieu97/picgrid/pkg/errors"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open returns the store for driver rooted at path.
func Open(ctx context.Context, driver, path string, log *logger.Logger) (ports.KeyValueStore, error) {
	switch driver {
	case DriverFile, "":
		store, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		if cause := store.Recovered(); cause != nil {
			log.WithFields(map[string]any{"path": path, "backup": store.BackupPath()}).
				Warn(cause, "store file is corrupt; starting with an empty store")
		}
		return store, nil
	case DriverSQLite:
		return OpenSQLite(ctx, path, log)
	default:
		return nil, apperrors.NewValidationError("storage.driver", fmt.Sprintf("unsupported driver %q", driver), nil)
	}
}
