package config

import (
	"context"

	"github.com/spf13/cobra"

	"ticketdash/internal/interfaces/cli/app"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long:  `Print the configuration after defaults, the config file and TICKETDASH_* variables are merged. Secrets are omitted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Bootstrap(context.Background(), app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.Config.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
