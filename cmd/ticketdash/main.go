package main

import (
	"os"

	"github.com/spf13/cobra"

	"ticketdash/internal/interfaces/cli/agents"
	"ticketdash/internal/interfaces/cli/app"
	"ticketdash/internal/interfaces/cli/config"
	"ticketdash/internal/interfaces/cli/diagnostics"
	"ticketdash/internal/interfaces/cli/engine"
	"ticketdash/internal/interfaces/cli/follow"
	"ticketdash/internal/interfaces/cli/serve"
	"ticketdash/internal/interfaces/cli/ui"
	"ticketdash/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ticketdash",
		Short:        "Ticketdash - operator dashboard for the ticket simulation",
		Long:         `Ticketdash watches and controls a ticket-booking simulation from the terminal, over a local HTTP mirror, or one command at a time.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", "", "Path to the config file (default: config.yaml in ./configs or ../configs)")

	rootCmd.AddCommand(
		ui.NewCommand(),
		serve.NewCommand(),
		engine.NewStartCommand(),
		engine.NewStopCommand(),
		agents.NewVendorCommand(),
		agents.NewCustomerCommand(),
		diagnostics.NewCommand(),
		follow.NewCommand(),
		config.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
