package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	galleryapp "github.com/alexisbeaulieu97/picgrid/internal/app/gallery"
	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
)

type favoritesListOptions struct {
	jsonOutput bool
}

func newFavoritesCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage favorite images",
	}

	cmd.AddCommand(newFavoritesListCmd(flags))
	cmd.AddCommand(newFavoritesAddCmd(flags))
	cmd.AddCommand(newFavoritesRemoveCmd(flags))

	return cmd
}

func newFavoritesListCmd(flags *rootFlags) *cobra.Command {
	opts := &favoritesListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List favorite images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavoritesList(cmd, flags, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func newFavoritesAddCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>...",
		Short: "Add images to favorites by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavoritesEdit(cmd, flags, args, true)
		},
	}
}

func newFavoritesRemoveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Remove images from favorites by ID",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavoritesEdit(cmd, flags, args, false)
		},
	}
}

func runFavoritesList(cmd *cobra.Command, flags *rootFlags, opts *favoritesListOptions) error {
	app, ctx, err := newAppContext(cmd, flags, false)
	if err != nil {
		return err
	}
	defer app.Close()

	favs, err := app.Favorites.Load(ctx)
	if err != nil {
		app.Logger.Warn(err, "stored favorites are unreadable")
	}
	images := favs.Images()

	if opts.jsonOutput {
		return renderImagesJSON(cmd, app.Catalog, 0, images, favs)
	}

	if len(images) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No favorite images yet.")
		fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'picgrid favorites add <id>' or press 'f' in the gallery to add one.")
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tAUTHOR\tSIZE\tDOWNLOAD URL")
	for _, img := range images {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			img.ID,
			valueOrFallback(img.Author, "(unknown)"),
			sizeOrFallback(img),
			valueOrFallback(img.DownloadURL, "-"),
		)
	}
	return writer.Flush()
}

// runFavoritesEdit toggles each ID that is not already in the wanted state.
func runFavoritesEdit(cmd *cobra.Command, flags *rootFlags, ids []string, add bool) error {
	operation := "remove favorites"
	if add {
		operation = "add favorites"
	}

	app, ctx, err := newAppContext(cmd, flags, false)
	if err != nil {
		return err
	}
	defer app.Close()

	ctrl := galleryapp.New(app.Catalog, app.Favorites, galleryapp.Options{
		PageSize: app.Config.Catalog.PageSize,
		Logger:   app.Logger,
	})
	if err := ctrl.LoadFavorites(ctx); err != nil {
		return newCommandError(operation, "reading stored favorites", err,
			"Inspect or delete the store at "+app.Config.Storage.Path+".")
	}

	out := cmd.OutOrStdout()
	for _, raw := range ids {
		id := domain.ImageID(strings.TrimSpace(raw))
		if id == "" {
			return newCommandError(operation, "parsing arguments", fmt.Errorf("empty image ID"), "Pass numeric image IDs such as 42.")
		}

		if ctrl.IsFavorite(id) == add {
			state := "already"
			if !add {
				state = "not"
			}
			fmt.Fprintf(out, "Image %s is %s a favorite.\n", id, state)
			continue
		}

		img, err := resolveImage(ctx, app, ctrl, id, add)
		if err != nil {
			return newCommandError(operation, "looking up image "+id.String(), err,
				"Check the ID exists with 'picgrid list --search "+id.String()+"'.")
		}

		if err := ctrl.ToggleFavorite(ctx, img); err != nil {
			return newCommandError(operation, "saving favorites", err,
				"Check storage.path permissions and free disk space.")
		}

		if add {
			fmt.Fprintf(out, "Added image %s by %s to favorites.\n", img.ID, valueOrFallback(img.Author, "unknown author"))
		} else {
			fmt.Fprintf(out, "Removed image %s from favorites.\n", img.ID)
		}
	}

	return nil
}

func resolveImage(ctx context.Context, app *AppContext, ctrl *galleryapp.Controller, id domain.ImageID, add bool) (domain.Image, error) {
	if !add {
		if img, ok := ctrl.Snapshot().Favorites.Get(id); ok {
			return img, nil
		}
		return domain.Image{ID: id}, nil
	}
	return app.Catalog.FetchImage(ctx, id)
}
