package main

import (
	"github.com/spf13/cobra"

	"github.com/rjboer/chirpgen/internal/config"
)

func newConfigCmd(state *cliState) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings",
		Long: `Print the settings after defaults, config file, environment and flags
are merged. The output can be saved and passed back with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.Encode(cmd.OutOrStdout(), state.settings, format)
		},
	}
	addRadarFlags(cmd.Flags(), config.Defaults().Radar)
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, toml, json)")
	return cmd
}
