// Package panels holds the view state of each dashboard panel and the pollers
// that keep it in sync with the backend.
package panels

import (
	"fmt"
	"sync"
	"time"

	"ticketdash/internal/infrastructure/poller"
	"ticketdash/internal/shared/logger"
)

// Name identifies a panel in change notifications and published events.
type Name string

const (
	PanelHeader    Name = "header"
	PanelInventory Name = "inventory"
	PanelSales     Name = "sales"
	PanelLogs      Name = "logs"
	PanelControl   Name = "control"
)

// FailureRecorder keeps a trail of poll and command failures.
type FailureRecorder interface {
	RecordFailure(source string, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordFailure(string, error) {}

// Options configures a store. Zero values fall back to the defaults below.
type Options struct {
	Interval       time.Duration
	RequestTimeout time.Duration
	// MaxSamples caps a store's history, oldest first out. Zero means no cap.
	MaxSamples int
	Logger     logger.Interface
	Recorder   FailureRecorder
	// OnChange is called after every state change, outside the store's lock.
	OnChange func(Name)
}

// observer carries what every store shares: its name, collaborators and the
// pollers it owns.
type observer struct {
	name     Name
	opts     Options
	logger   logger.Interface
	recorder FailureRecorder

	handlesMu sync.Mutex
	handles   []*poller.Handle
}

func newObserver(name Name, defaultInterval time.Duration, opts Options) observer {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	return observer{
		name:     name,
		opts:     opts,
		logger:   opts.Logger.Named("panel").With("panel", string(name)),
		recorder: opts.Recorder,
	}
}

func (o *observer) changed() {
	if o.opts.OnChange != nil {
		o.opts.OnChange(o.name)
	}
}

func (o *observer) failed(source string, err error) {
	o.logger.Warnw("panel refresh failed", "source", source, "error", err)
	o.recorder.RecordFailure(source, err)
}

// track adopts a started poller; a mount error cancels the ones already started.
func (o *observer) track(h *poller.Handle, err error) error {
	if err != nil {
		o.unmount()
		return fmt.Errorf("mount %s panel: %w", o.name, err)
	}
	o.handlesMu.Lock()
	o.handles = append(o.handles, h)
	o.handlesMu.Unlock()
	return nil
}

func (o *observer) mounted() bool {
	o.handlesMu.Lock()
	defer o.handlesMu.Unlock()
	return len(o.handles) > 0
}

func (o *observer) unmount() {
	o.handlesMu.Lock()
	handles := o.handles
	o.handles = nil
	o.handlesMu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
}

func pollerConfig[T any](o *observer, source, endpoint string, parse func([]byte) (T, error), onSuccess func(T), onFailure func(error)) poller.Config[T] {
	return poller.Config[T]{
		Name:           source,
		Endpoint:       endpoint,
		Interval:       o.opts.Interval,
		RequestTimeout: o.opts.RequestTimeout,
		Parse:          parse,
		OnSuccess:      onSuccess,
		OnFailure:      onFailure,
		Logger:         o.opts.Logger,
	}
}
