// Package app bootstraps the collaborators shared by the ticketdash commands.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"ticketdash/internal/application/control"
	"ticketdash/internal/infrastructure/config"
	"ticketdash/internal/infrastructure/diagnostics"
	"ticketdash/internal/infrastructure/pubsub"
	"ticketdash/internal/infrastructure/scheduler"
	"ticketdash/internal/infrastructure/ticketapi"
	"ticketdash/internal/interfaces/dashboard"
	"ticketdash/internal/shared/logger"
)

// ConfigPath is bound to the root --config flag.
var ConfigPath string

// pruneInterval is how often the diagnostics journal drops expired rows.
const pruneInterval = time.Hour

// Options selects the optional parts of the bootstrap.
type Options struct {
	// LogFile replaces a console log output, so a full-screen UI stays readable.
	LogFile string
	// Journal opens the diagnostics journal when it is enabled in config.
	Journal bool
	// Redis connects the panel event bus when it is enabled in config.
	Redis bool
}

// App holds the configured collaborators of one command run.
type App struct {
	Config     *config.Config
	Logger     logger.Interface
	Client     *ticketapi.Client
	Dispatcher *control.Dispatcher
	// Journal is nil when diagnostics are disabled or could not be opened.
	Journal *diagnostics.Journal
	// Bus is nil when Redis is disabled or unreachable.
	Bus *pubsub.RedisPanelBus

	redis     *redis.Client
	scheduler *scheduler.SchedulerManager
}

// Bootstrap loads configuration and builds the collaborators selected by opts.
// Optional infrastructure that fails to come up is logged and left out.
func Bootstrap(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := cfg.Logger
	if opts.LogFile != "" && isConsole(logCfg.OutputPath) {
		logCfg.OutputPath = opts.LogFile
	}
	if err := logger.Init(&logCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	clientOpts := []ticketapi.Option{ticketapi.WithLogger(log)}
	if cfg.Backend.RequestIDHeader != "" {
		clientOpts = append(clientOpts, ticketapi.WithRequestIDHeader(cfg.Backend.RequestIDHeader))
	}
	client := ticketapi.NewClient(cfg.Backend.BaseURL, clientOpts...)

	a := &App{
		Config: cfg,
		Logger: log,
		Client: client,
		Dispatcher: control.NewDispatcher(client,
			control.WithCapacityLimit(cfg.Commands.MaxCapacityLimit),
			control.WithLogger(log),
		),
	}

	if opts.Journal && cfg.Diagnostics.Enabled {
		journal, err := diagnostics.Open(&cfg.Diagnostics, log)
		if err != nil {
			log.Warnw("diagnostics journal unavailable", "path", cfg.Diagnostics.SQLitePath, "error", err)
		} else {
			a.Journal = journal
		}
	}

	if opts.Redis && cfg.Redis.Enabled {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err := pubsub.NewRedisClient(pingCtx, &cfg.Redis)
		cancel()
		if err != nil {
			log.Warnw("panel event bus unavailable", "address", cfg.Redis.GetAddr(), "error", err)
		} else {
			a.redis = rdb
			a.Bus = pubsub.NewRedisPanelBus(rdb, cfg.Redis.ChannelPrefix, log)
			log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
		}
	}

	return a, nil
}

// Recorder returns the failure recorder for panels and commands.
func (a *App) Recorder() dashboard.Recorder {
	if a.Journal == nil {
		return diagnostics.Nop{}
	}
	return a.Journal
}

// NewDashboard composes a dashboard from the app's collaborators.
func (a *App) NewDashboard() (*dashboard.Dashboard, error) {
	deps := dashboard.Deps{
		Fetcher:    a.Client,
		Dispatcher: a.Dispatcher,
		Polling:    a.Config.Polling,
		Recorder:   a.Recorder(),
		Logger:     a.Logger,
	}
	if a.Bus != nil {
		deps.Publisher = a.Bus
	}
	return dashboard.New(deps)
}

// NewPanel builds a control panel that is not attached to a dashboard.
func (a *App) NewPanel() *control.Panel {
	return control.NewPanel(a.Dispatcher, nil,
		control.WithRecorder(a.Recorder()),
		control.WithPanelLogger(a.Logger),
	)
}

// StartHousekeeping schedules journal pruning when the journal is open.
func (a *App) StartHousekeeping() error {
	if a.Journal == nil {
		return nil
	}
	manager, err := scheduler.NewSchedulerManager(a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := manager.RegisterJournalPruning(a.Journal, a.Config.Diagnostics.Retention, pruneInterval); err != nil {
		return fmt.Errorf("failed to register journal pruning: %w", err)
	}
	manager.Start()
	a.scheduler = manager
	return nil
}

// Close releases everything Bootstrap opened.
func (a *App) Close() {
	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			a.Logger.Warnw("failed to stop scheduler", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warnw("failed to close redis client", "error", err)
		}
	}
	if a.Journal != nil {
		if err := a.Journal.Close(); err != nil {
			a.Logger.Warnw("failed to close diagnostics journal", "error", err)
		}
	}
	_ = logger.Sync()
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func isConsole(output string) bool {
	switch strings.ToLower(output) {
	case "", "stdout", "stderr":
		return true
	}
	return false
}
