package grid

import (
	"context"

	galleryapp "github.com/alexisbeaulieu97/picgrid/internal/app/gallery"
	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
	"github.com/alexisbeaulieu97/picgrid/internal/events"
	"github.com/alexisbeaulieu97/picgrid/internal/settings"
)

// Controller exposes the gallery intents and state the grid requires.
type Controller interface {
	Initialize(ctx context.Context) error
	LoadMore(ctx context.Context) (bool, error)
	Reset(ctx context.Context) error
	ToggleFavorite(ctx context.Context, img domain.Image) error
	SetSearchTerm(term string)
	SetFavoritesOnly(on bool)
	SelectImage(img domain.Image)
	ClearSelection()
	Snapshot() galleryapp.State
	Subscribe() (<-chan events.Event, func())
}

// SettingsStore persists the theme preference.
type SettingsStore interface {
	Load(ctx context.Context) (settings.Settings, error)
	// SaveRevision writes st unless a higher revision was already written.
	SaveRevision(ctx context.Context, revision uint64, st settings.Settings) error
}

// URLBuilder produces sized image references for the detail view.
type URLBuilder interface {
	ImageURL(id domain.ImageID, width, height int) string
}
