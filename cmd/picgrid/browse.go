package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	galleryapp "github.com/alexisbeaulieu97/picgrid/internal/app/gallery"
	"github.com/alexisbeaulieu97/picgrid/internal/events"
	"github.com/alexisbeaulieu97/picgrid/internal/tui/grid"
)

func newBrowseCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Launch the interactive gallery (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, flags)
		},
	}
}

func runBrowse(cmd *cobra.Command, flags *rootFlags) error {
	app, ctx, err := newAppContext(cmd, flags, true)
	if err != nil {
		return err
	}
	defer app.Close()

	broker := events.NewBroker()
	defer broker.Close()

	ctrl := galleryapp.New(app.Catalog, app.Favorites, galleryapp.Options{
		PageSize: app.Config.Catalog.PageSize,
		Logger:   app.Logger,
		Broker:   broker,
	})

	model := grid.NewModel(ctrl, app.Settings, app.Catalog, grid.Options{
		Context: ctx,
		Unicode: app.Config.UI.Unicode && supportsUnicode(os.Stdout),
	})
	defer model.Close()

	app.Logger.Info("launching gallery")
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		app.Logger.Error(err, "gallery exited with error")
		return newCommandError("run gallery", "interactive session", err, "Run 'picgrid list' for a non-interactive listing.")
	}
	return nil
}
