package gallery

import (
	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
)

// State is a read-only copy of the controller state.
type State struct {
	Cursor        int
	Collection    []domain.Image
	Favorites     domain.FavoriteSet
	SearchTerm    string
	FavoritesOnly bool
	Loading       bool
	Exhausted     bool

	// Err is the last catalog failure. It is cleared by the next successful
	// fetch or by Reset.
	Err error
	// PersistErr is the last favorites storage failure. It never blocks the UI.
	PersistErr error

	Selected *domain.Image
}

// Filter returns the active view filters.
func (s State) Filter() domain.ViewFilter {
	return domain.ViewFilter{SearchTerm: s.SearchTerm, FavoritesOnly: s.FavoritesOnly}
}

// Displayed returns the displayed sequence for this snapshot.
func (s State) Displayed() []domain.Image {
	return domain.Display(s.Collection, s.Favorites, s.Filter())
}

// CanLoadMore reports whether LoadMore would issue a fetch.
func (s State) CanLoadMore() bool {
	return !s.Loading && !s.Exhausted && !s.Filter().Active()
}
