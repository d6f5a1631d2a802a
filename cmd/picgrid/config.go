package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/picgrid/internal/config"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return newCommandError("load configuration", configSource(flags.configPath), err,
					"Fix the reported setting in the config file or PICGRID_* environment variables.")
			}

			out, err := cfg.YAML()
			if err != nil {
				return newCommandError("render configuration", "YAML encoding", err, "")
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	return cmd
}
