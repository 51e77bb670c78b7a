// Package poller runs recurring fetches of a backend endpoint using gocron v2.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"ticketdash/internal/shared/goroutine"
	"ticketdash/internal/shared/logger"
)

// stopTimeout bounds how long Cancel waits for ticks whose fetcher ignores
// context cancellation.
const stopTimeout = 5 * time.Second

// Fetcher retrieves the raw body of a read endpoint.
type Fetcher interface {
	Get(ctx context.Context, endpoint string) ([]byte, error)
}

// Config describes one polling loop. OnSuccess and OnFailure are never called
// concurrently with each other for the same poller and must not call Cancel.
type Config[T any] struct {
	Name     string
	Endpoint string
	Interval time.Duration
	// RequestTimeout bounds each fetch. Zero leaves a fetch in flight until Cancel.
	RequestTimeout time.Duration
	Parse          func(body []byte) (T, error)
	OnSuccess      func(value T)
	OnFailure      func(err error)
	Logger         logger.Interface
}

func (c Config[T]) validate(fetcher Fetcher) error {
	switch {
	case fetcher == nil:
		return errors.New("poller: fetcher is required")
	case c.Interval <= 0:
		return fmt.Errorf("poller %q: interval must be positive", c.Name)
	case c.RequestTimeout < 0:
		return fmt.Errorf("poller %q: request timeout must not be negative", c.Name)
	case c.Parse == nil:
		return fmt.Errorf("poller %q: parse function is required", c.Name)
	case c.OnSuccess == nil || c.OnFailure == nil:
		return fmt.Errorf("poller %q: success and failure callbacks are required", c.Name)
	}
	return nil
}

// Handle is the cancellation handle of a running poller.
type Handle struct {
	name      string
	scheduler gocron.Scheduler
	ctx       context.Context
	cancelCtx context.CancelFunc
	logger    logger.Interface

	// issued numbers ticks as they start; delivered is the newest tick whose
	// result reached a callback.
	issued    atomic.Uint64
	mu        sync.Mutex
	delivered uint64
	cancelled bool
	once      sync.Once
}

// Start fetches cfg.Endpoint immediately and then every cfg.Interval until the
// returned handle is cancelled. Ticks may overlap; a result older than one
// already delivered is dropped.
func Start[T any](fetcher Fetcher, cfg Config[T]) (*Handle, error) {
	if err := cfg.validate(fetcher); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	scheduler, err := gocron.NewScheduler(gocron.WithStopTimeout(stopTimeout))
	if err != nil {
		return nil, fmt.Errorf("poller %q: create scheduler: %w", cfg.Name, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{
		name:      cfg.Name,
		scheduler: scheduler,
		ctx:       ctx,
		cancelCtx: cancel,
		logger:    log.With("poller", cfg.Name, "endpoint", cfg.Endpoint),
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Interval),
		gocron.NewTask(func() {
			goroutine.Protect(h.logger, "poll:"+cfg.Name, func() {
				runTick(h, fetcher, cfg)
			})
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithName(cfg.Name),
		gocron.WithTags("poll", cfg.Name),
	)
	if err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("poller %q: register job: %w", cfg.Name, err)
	}

	scheduler.Start()
	h.logger.Debugw("poller started", "interval", cfg.Interval, "request_timeout", cfg.RequestTimeout)
	return h, nil
}

func runTick[T any](h *Handle, fetcher Fetcher, cfg Config[T]) {
	if h.ctx.Err() != nil {
		return
	}
	seq := h.issued.Add(1)

	ctx := h.ctx
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}

	var value T
	body, err := fetcher.Get(ctx, cfg.Endpoint)
	if err == nil {
		value, err = cfg.Parse(body)
	}

	delivered := h.deliver(seq, func() {
		if err != nil {
			cfg.OnFailure(err)
			return
		}
		cfg.OnSuccess(value)
	})
	if !delivered {
		h.logger.Debugw("poll result dropped", "seq", seq)
		return
	}
	if err != nil {
		h.logger.Debugw("poll failed", "seq", seq, "error", err)
	}
}

// deliver runs fn if the handle is live and seq is newer than anything already
// delivered.
func (h *Handle) deliver(seq uint64, fn func()) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled || seq <= h.delivered {
		return false
	}
	h.delivered = seq
	fn()
	return true
}

// Supersede drops the results of every tick issued so far. Callers use it when
// they write state that is newer than anything an in-flight fetch can return.
// Like Cancel, it must not be called from a callback.
func (h *Handle) Supersede() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if issued := h.issued.Load(); issued > h.delivered {
		h.delivered = issued
	}
}

// Name returns the poller's name.
func (h *Handle) Name() string {
	return h.name
}

// Cancel stops scheduling, aborts in-flight fetches and guarantees no callback
// runs after it returns. It is safe to call more than once.
func (h *Handle) Cancel() {
	h.once.Do(func() {
		// Taking the lock waits out a callback already running.
		h.mu.Lock()
		h.cancelled = true
		h.mu.Unlock()

		h.cancelCtx()
		if err := h.scheduler.Shutdown(); err != nil {
			h.logger.Warnw("poller shutdown incomplete", "error", err)
		}
		h.logger.Debugw("poller cancelled")
	})
}
