package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ticketdash/internal/application/control"
)

const commandTimeout = 30 * time.Second

// Execute runs one operator command through a control panel that is not attached
// to a dashboard, and prints the resulting message.
func Execute(cmd *cobra.Command, fn func(context.Context, *control.Panel) (*control.Result, error)) error {
	ctx, stop := SignalContext()
	defer stop()

	a, err := Bootstrap(ctx, Options{Journal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	result, err := fn(ctx, a.NewPanel())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	return err
}
