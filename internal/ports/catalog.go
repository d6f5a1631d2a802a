package ports

import (
	"context"

	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
)

// CatalogClient retrieves pages of image metadata from the remote catalog.
// Pages are 1-based. An empty result is a valid answer meaning the catalog has
// no more pages; it is never reported as an error. Failures surface as
// errors.FetchError (transport or non-success status) or errors.ParseError
// (malformed body). Implementations must not retry.
type CatalogClient interface {
	FetchPage(ctx context.Context, page, pageSize int) ([]domain.Image, error)
}

// ImageLookup resolves a single catalog entry by identifier.
type ImageLookup interface {
	FetchImage(ctx context.Context, id domain.ImageID) (domain.Image, error)
}

// ImageURLBuilder produces sized image references. Resizing is delegated to
// the remote service through the URL.
type ImageURLBuilder interface {
	ImageURL(id domain.ImageID, width, height int) string
}
