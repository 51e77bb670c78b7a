package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"ticketdash/internal/interfaces/cli/app"
	"ticketdash/internal/interfaces/tui"
)

var logFile string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the terminal dashboard",
		Long: `Open the full-screen operator dashboard. Every panel polls the ticket service on its
own schedule; commands are entered through the control panel forms.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	cmd.Flags().StringVar(&logFile, "log-file", "ticketdash.log", "Log file used while the dashboard owns the terminal")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := app.SignalContext()
	defer stop()

	a, err := app.Bootstrap(ctx, app.Options{LogFile: logFile, Journal: true, Redis: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.StartHousekeeping(); err != nil {
		return err
	}

	d, err := a.NewDashboard()
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}
	if err := d.Mount(ctx); err != nil {
		return fmt.Errorf("failed to mount dashboard: %w", err)
	}
	defer d.Close()

	a.Logger.Infow("dashboard started", "backend", a.Client.BaseURL())
	return tui.Run(ctx, d, d.Control())
}
