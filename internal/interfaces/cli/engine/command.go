package engine

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"ticketdash/internal/application/control"
	"ticketdash/internal/domain/simulation"
	"ticketdash/internal/interfaces/cli/app"
)

var capacity int

// NewStartCommand returns the start command.
func NewStartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the ticket simulation",
		Long: `Start the ticket simulation. Without --capacity the engine uses its default
capacity.`,
		Args: cobra.NoArgs,
		RunE: runStart,
	}

	cmd.Flags().IntVar(&capacity, "capacity", 0, "Maximum ticket pool capacity")

	return cmd
}

// NewStopCommand returns the stop command.
func NewStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the ticket simulation",
		Args:  cobra.NoArgs,
		RunE:  runStop,
	}
}

func runStart(cmd *cobra.Command, args []string) error {
	return app.Execute(cmd, func(ctx context.Context, panel *control.Panel) (*control.Result, error) {
		if !cmd.Flags().Changed("capacity") {
			return panel.RunStartDefault(ctx)
		}
		return panel.Run(ctx, control.FormStart, simulation.CapacityForm(strconv.Itoa(capacity)))
	})
}

func runStop(cmd *cobra.Command, args []string) error {
	return app.Execute(cmd, func(ctx context.Context, panel *control.Panel) (*control.Result, error) {
		return panel.Stop(ctx)
	})
}
