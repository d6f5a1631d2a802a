package main

import (
	"os"
	"strings"

	"golang.org/x/term"

	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
)

const jsonPayloadVersion = "1.0"

type imageJSON struct {
	ID           string `json:"id"`
	Author       string `json:"author"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	URL          string `json:"url,omitempty"`
	DownloadURL  string `json:"download_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url"`
	Favorite     bool   `json:"favorite"`
}

func supportsUnicode(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func favoriteMarker(favorite, useUnicode bool) string {
	if !favorite {
		return ""
	}
	if useUnicode {
		return "♥ yes"
	}
	return "[*] yes"
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func sizeOrFallback(img domain.Image) string {
	return valueOrFallback(img.Dimensions(), "-")
}
