package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ImageID is the canonical string form of a catalog identifier. The catalog
// may encode identifiers as JSON strings or numbers; both decode to the same
// ImageID so comparisons and search matching never depend on the wire type.
type ImageID string

// String returns the identifier text.
func (id ImageID) String() string {
	return string(id)
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ImageID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ImageID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("image id must be a string or number: %w", err)
	}
	*id = ImageID(n.String())
	return nil
}

// Image is a single catalog entry. Identity is the ID; the remaining fields
// are treated as immutable once fetched.
type Image struct {
	ID          ImageID `json:"id"`
	Author      string  `json:"author"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	URL         string  `json:"url,omitempty"`
	DownloadURL string  `json:"download_url,omitempty"`
}

// Dimensions renders the original pixel size, or an empty string when the
// catalog did not report one.
func (i Image) Dimensions() string {
	if i.Width <= 0 || i.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", i.Width, i.Height)
}
