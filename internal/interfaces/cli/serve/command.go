package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ticketdash/internal/interfaces/cli/app"
	httpRouter "ticketdash/internal/interfaces/http"
)

const shutdownTimeout = 10 * time.Second

var addr string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard headless behind the local mirror API",
		Long: `Poll the ticket service without a terminal UI and expose the dashboard state and
the operator commands as JSON on the mirror address.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: mirror.host:mirror.port from config)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := app.SignalContext()
	defer stop()

	a, err := app.Bootstrap(ctx, app.Options{Journal: true, Redis: true})
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

	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	router := httpRouter.NewRouter(d, d.Control(), &a.Config.Mirror, a.Logger)
	router.SetupRoutes()

	listen := addr
	if listen == "" {
		listen = a.Config.Mirror.GetAddr()
	}
	srv := &http.Server{
		Addr:         listen,
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Infow("mirror API starting",
			"address", listen,
			"backend", a.Client.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mirror API failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Infow("shutting down mirror API...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Errorw("mirror API forced to shutdown", "error", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.Logger.Infow("mirror API exited gracefully")
	return nil
}
