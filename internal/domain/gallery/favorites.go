package gallery

import "encoding/json"

// FavoriteSet maps image IDs to the image record captured when it was
// favorited. It keeps insertion order so favorites-only mode is stable.
//
// A FavoriteSet is a value: every mutating operation returns a new set and
// leaves the receiver untouched, so snapshots can share it freely. The zero
// value is an empty set.
type FavoriteSet struct {
	order []ImageID
	items map[ImageID]Image
}

// NewFavoriteSet builds a set from images, keeping the first record per ID.
func NewFavoriteSet(images ...Image) FavoriteSet {
	set := FavoriteSet{
		order: make([]ImageID, 0, len(images)),
		items: make(map[ImageID]Image, len(images)),
	}
	for _, img := range images {
		if _, ok := set.items[img.ID]; ok {
			continue
		}
		set.order = append(set.order, img.ID)
		set.items[img.ID] = img
	}
	return set
}

// Len returns the number of favorites.
func (s FavoriteSet) Len() int {
	return len(s.order)
}

// Has reports whether id is a favorite.
func (s FavoriteSet) Has(id ImageID) bool {
	_, ok := s.items[id]
	return ok
}

// Get returns the stored record for id.
func (s FavoriteSet) Get(id ImageID) (Image, bool) {
	img, ok := s.items[id]
	return img, ok
}

// Images returns the favorites in insertion order. The result is never nil.
func (s FavoriteSet) Images() []Image {
	out := make([]Image, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// IDs returns the favorite identifiers in insertion order.
func (s FavoriteSet) IDs() []ImageID {
	out := make([]ImageID, len(s.order))
	copy(out, s.order)
	return out
}

// Equal reports whether both sets hold the same identifiers, ignoring order.
func (s FavoriteSet) Equal(other FavoriteSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, id := range s.order {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Toggle removes img from the set when its ID is present and appends it
// otherwise. The input set is not modified.
func Toggle(set FavoriteSet, img Image) FavoriteSet {
	if set.Has(img.ID) {
		return set.without(img.ID)
	}
	return set.with(img)
}

// SetMembership makes img a member of the set when favorite is true and
// removes it otherwise. It returns set unchanged when it already agrees.
func SetMembership(set FavoriteSet, img Image, favorite bool) FavoriteSet {
	if set.Has(img.ID) == favorite {
		return set
	}
	return Toggle(set, img)
}

func (s FavoriteSet) with(img Image) FavoriteSet {
	next := FavoriteSet{
		order: make([]ImageID, len(s.order), len(s.order)+1),
		items: make(map[ImageID]Image, len(s.items)+1),
	}
	copy(next.order, s.order)
	for id, stored := range s.items {
		next.items[id] = stored
	}
	next.order = append(next.order, img.ID)
	next.items[img.ID] = img
	return next
}

func (s FavoriteSet) without(id ImageID) FavoriteSet {
	next := FavoriteSet{
		order: make([]ImageID, 0, len(s.order)),
		items: make(map[ImageID]Image, len(s.items)),
	}
	for _, existing := range s.order {
		if existing == id {
			continue
		}
		next.order = append(next.order, existing)
		next.items[existing] = s.items[existing]
	}
	return next
}

// MarshalJSON encodes the set as an array of image records.
func (s FavoriteSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Images())
}

// UnmarshalJSON decodes an array of image records.
func (s *FavoriteSet) UnmarshalJSON(data []byte) error {
	var images []Image
	if err := json.Unmarshal(data, &images); err != nil {
		return err
	}
	*s = NewFavoriteSet(images...)
	return nil
}
