package follow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ticketdash/internal/infrastructure/pubsub"
	"ticketdash/internal/interfaces/cli/app"
)

var panels []string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Print panel changes published by other dashboards",
		Long: `Subscribe to the panel events other ticketdash instances publish on Redis and
print one line per event. Requires redis.enabled.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	cmd.Flags().StringSliceVar(&panels, "panel", nil, "Only print these panels (header, inventory, sales, logs, control)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := app.SignalContext()
	defer stop()

	a, err := app.Bootstrap(ctx, app.Options{Redis: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Bus == nil {
		return errors.New("redis is disabled or unreachable")
	}

	out := cmd.OutOrStdout()
	err = a.Bus.SubscribePanels(ctx, func(event pubsub.PanelEvent) {
		if !wanted(event.Panel) {
			return
		}
		fmt.Fprintln(out, formatEvent(event))
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func wanted(panel string) bool {
	if len(panels) == 0 {
		return true
	}
	for _, p := range panels {
		if p == panel {
			return true
		}
	}
	return false
}

func formatEvent(event pubsub.PanelEvent) string {
	at := time.UnixMilli(event.Timestamp).Local().Format(time.TimeOnly)
	instance := event.InstanceID
	if len(instance) > 8 {
		instance = instance[:8]
	}
	return fmt.Sprintf("%s %-9s %s %s", at, event.Panel, instance, event.Snapshot)
}
