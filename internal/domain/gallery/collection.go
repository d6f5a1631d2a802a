package gallery

// Merge returns existing followed by every record of page whose ID is not
// already present, in fetch order. Neither input is modified.
func Merge(existing, page []Image) []Image {
	out := make([]Image, len(existing), len(existing)+len(page))
	copy(out, existing)

	seen := make(map[ImageID]struct{}, len(existing)+len(page))
	for _, img := range existing {
		seen[img.ID] = struct{}{}
	}

	for _, img := range page {
		if _, dup := seen[img.ID]; dup {
			continue
		}
		seen[img.ID] = struct{}{}
		out = append(out, img)
	}

	return out
}

// Dedupe keeps the first occurrence of every ID.
func Dedupe(images []Image) []Image {
	return Merge(nil, images)
}

// IndexOf returns the position of id in images, or -1.
func IndexOf(images []Image, id ImageID) int {
	for i, img := range images {
		if img.ID == id {
			return i
		}
	}
	return -1
}
