package gallery

import "strings"

// ViewFilter holds the user-controlled filters applied to the gallery.
type ViewFilter struct {
	SearchTerm    string
	FavoritesOnly bool
}

// Active reports whether the filter narrows the unfiltered collection. Paging
// is suspended while a filter is active.
func (f ViewFilter) Active() bool {
	return f.FavoritesOnly || f.SearchTerm != ""
}

// MatchesSearch reports whether the canonical ID of img contains term.
func MatchesSearch(img Image, term string) bool {
	return strings.Contains(img.ID.String(), term)
}

// Display derives the displayed sequence. Favorites-only mode shows the
// favorites in insertion order; otherwise the collection is shown, narrowed by
// the search term when one is set. The result never aliases collection.
func Display(collection []Image, favorites FavoriteSet, filter ViewFilter) []Image {
	if filter.FavoritesOnly {
		return favorites.Images()
	}

	if filter.SearchTerm == "" {
		out := make([]Image, len(collection))
		copy(out, collection)
		return out
	}

	out := make([]Image, 0, len(collection))
	for _, img := range collection {
		if MatchesSearch(img, filter.SearchTerm) {
			out = append(out, img)
		}
	}
	return out
}
