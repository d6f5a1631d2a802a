package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "picgrid",
		Short:         "Browse the Picsum photo catalog from your terminal",
		Long:          "picgrid pages through the Picsum photo catalog, keeps a list of favorite images and lets you search them by ID.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a config file (default ~/.picgrid/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newBrowseCmd(flags))
	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newFavoritesCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
