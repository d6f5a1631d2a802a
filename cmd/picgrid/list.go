package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/picgrid/internal/catalog"
	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
)

type listOptions struct {
	page       int
	limit      int
	search     string
	jsonOutput bool
}

func newListCmd(flags *rootFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, flags, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Catalog page to fetch (1-based)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 0, "Images per page (default catalog.page_size)")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Only show images whose ID contains this text")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runList(cmd *cobra.Command, flags *rootFlags, opts *listOptions) error {
	app, ctx, err := newAppContext(cmd, flags, false)
	if err != nil {
		return err
	}
	defer app.Close()

	limit := opts.limit
	if limit <= 0 {
		limit = app.Config.Catalog.PageSize
	}

	images, err := app.Catalog.FetchPage(ctx, opts.page, limit)
	if err != nil {
		return newCommandError("list images", fmt.Sprintf("fetching page %d", opts.page), err,
			"Check your network connection and the catalog.base_url setting.")
	}

	favs, err := app.Favorites.Load(ctx)
	if err != nil {
		app.Logger.Warn(err, "favorites unavailable; listing without favorite markers")
	}

	shown := domain.Display(images, favs, domain.ViewFilter{SearchTerm: opts.search})

	if opts.jsonOutput {
		return renderImagesJSON(cmd, app.Catalog, opts.page, shown, favs)
	}

	if len(shown) == 0 {
		if opts.search != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No images found matching your search.")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "No images on page %d.\n", opts.page)
		}
		return nil
	}

	return renderImagesTable(cmd, shown, favs)
}

func renderImagesTable(cmd *cobra.Command, images []domain.Image, favs domain.FavoriteSet) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintln(writer, "ID\tAUTHOR\tSIZE\tFAVORITE")

	useUnicode := supportsUnicode(cmd.OutOrStdout())

	for _, img := range images {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			img.ID,
			valueOrFallback(img.Author, "(unknown)"),
			sizeOrFallback(img),
			favoriteMarker(favs.Has(img.ID), useUnicode),
		)
	}

	return writer.Flush()
}

type listJSONPayload struct {
	Version string      `json:"version"`
	Page    int         `json:"page,omitempty"`
	Count   int         `json:"count"`
	Images  []imageJSON `json:"images"`
}

func renderImagesJSON(cmd *cobra.Command, urls *catalog.Client, page int, images []domain.Image, favs domain.FavoriteSet) error {
	payload := listJSONPayload{
		Version: jsonPayloadVersion,
		Page:    page,
		Count:   len(images),
		Images:  make([]imageJSON, len(images)),
	}

	for i, img := range images {
		payload.Images[i] = imageJSON{
			ID:           img.ID.String(),
			Author:       img.Author,
			Width:        img.Width,
			Height:       img.Height,
			URL:          img.URL,
			DownloadURL:  img.DownloadURL,
			ThumbnailURL: urls.ImageURL(img.ID, catalog.ThumbnailWidth, catalog.ThumbnailHeight),
			Favorite:     favs.Has(img.ID),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
