// Package dashboard composes the panel stores and the control panel into one
// mountable unit shared by the terminal UI and the mirror API.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"ticketdash/internal/application/control"
	"ticketdash/internal/application/panels"
	"ticketdash/internal/infrastructure/poller"
	"ticketdash/internal/infrastructure/pubsub"
	sharedConfig "ticketdash/internal/shared/config"
	"ticketdash/internal/shared/goroutine"
	"ticketdash/internal/shared/logger"
)

// publishTimeout bounds a single panel event publish.
const publishTimeout = 2 * time.Second

// Recorder keeps a trail of poll and command failures.
type Recorder interface {
	RecordFailure(source string, err error)
}

// Deps are the collaborators of a Dashboard. Publisher and Recorder are optional.
type Deps struct {
	Fetcher    poller.Fetcher
	Dispatcher *control.Dispatcher
	Polling    sharedConfig.PollingConfig
	Recorder   Recorder
	Publisher  pubsub.PanelPublisher
	Logger     logger.Interface
}

// Snapshot is the render state of every panel at one moment.
type Snapshot struct {
	Header    panels.HeaderSnapshot    `json:"header"`
	Inventory panels.InventorySnapshot `json:"inventory"`
	Sales     panels.SalesSnapshot     `json:"sales"`
	Logs      panels.LogsSnapshot      `json:"logs"`
	Control   control.Snapshot         `json:"control"`
}

// Dashboard owns the four polled panels and the control panel. Panels poll
// independently; Close cancels every poller.
type Dashboard struct {
	fetcher   poller.Fetcher
	publisher pubsub.PanelPublisher
	logger    logger.Interface

	header    *panels.HeaderStore
	inventory *panels.InventoryStore
	sales     *panels.SalesStore
	logs      *panels.LogStore
	control   *control.Panel

	changes chan struct{}

	dirtyMu sync.Mutex
	dirty   map[panels.Name]bool
	wake    chan struct{}

	mu      sync.Mutex
	mounted bool
	closed  bool
	cancel  context.CancelFunc
	stop    func() bool
}

func New(deps Deps) (*Dashboard, error) {
	if deps.Fetcher == nil {
		return nil, errors.New("dashboard requires a fetcher")
	}
	if deps.Dispatcher == nil {
		return nil, errors.New("dashboard requires a dispatcher")
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}

	d := &Dashboard{
		fetcher:   deps.Fetcher,
		publisher: deps.Publisher,
		logger:    log.Named("dashboard"),
		changes:   make(chan struct{}, 1),
		dirty:     make(map[panels.Name]bool),
		wake:      make(chan struct{}, 1),
	}

	var recorder panels.FailureRecorder
	if deps.Recorder != nil {
		recorder = deps.Recorder
	}
	opts := func(interval time.Duration) panels.Options {
		return panels.Options{
			Interval:       interval,
			RequestTimeout: deps.Polling.RequestTimeout,
			Logger:         log,
			Recorder:       recorder,
			OnChange:       d.notify,
		}
	}
	d.header = panels.NewHeaderStore(opts(deps.Polling.StatusInterval))
	d.inventory = panels.NewInventoryStore(opts(deps.Polling.InventoryInterval))
	salesOpts := opts(deps.Polling.SalesInterval)
	salesOpts.MaxSamples = deps.Polling.SalesHistory
	d.sales = panels.NewSalesStore(salesOpts)
	d.logs = panels.NewLogStore(opts(deps.Polling.LogsInterval))

	panelOpts := []control.PanelOption{
		control.WithPanelLogger(log),
		control.WithOnChange(func() { d.notify(panels.PanelControl) }),
	}
	if deps.Recorder != nil {
		panelOpts = append(panelOpts, control.WithRecorder(deps.Recorder))
	}
	d.control = control.NewPanel(deps.Dispatcher, d.header, panelOpts...)

	return d, nil
}

// Mount starts every panel's pollers. The dashboard closes itself when ctx ends.
// A dashboard can be mounted once.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mu.Lock()
	if d.mounted || d.closed {
		d.mu.Unlock()
		return errors.New("dashboard already mounted")
	}
	d.mounted = true
	runCtx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	if d.publisher != nil {
		goroutine.SafeGo(d.logger, "dashboard-publisher", func() { d.publishLoop(runCtx) })
	}

	mounts := []func(poller.Fetcher) error{
		d.header.Mount,
		d.inventory.Mount,
		d.sales.Mount,
		d.logs.Mount,
	}
	for _, mount := range mounts {
		// Holding mu keeps Close from running between the check and the mount,
		// so a store mounted here is always unmounted by Close.
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return errors.New("dashboard closed while mounting")
		}
		err := mount(d.fetcher)
		d.mu.Unlock()
		if err != nil {
			d.Close()
			return err
		}
	}

	stop := context.AfterFunc(ctx, d.Close)
	d.mu.Lock()
	d.stop = stop
	d.mu.Unlock()

	d.logger.Infow("dashboard mounted")
	return nil
}

// Close cancels every poller. Results still in flight are dropped. Safe to call
// more than once.
func (d *Dashboard) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	cancel, stop := d.cancel, d.stop
	d.mu.Unlock()

	if stop != nil {
		stop()
	}
	d.header.Unmount()
	d.inventory.Unmount()
	d.sales.Unmount()
	d.logs.Unmount()
	if cancel != nil {
		cancel()
	}
	d.logger.Infow("dashboard closed")
}

// Snapshot returns a copy of every panel's state.
func (d *Dashboard) Snapshot() Snapshot {
	return Snapshot{
		Header:    d.header.Snapshot(),
		Inventory: d.inventory.Snapshot(),
		Sales:     d.sales.Snapshot(),
		Logs:      d.logs.Snapshot(),
		Control:   d.control.Snapshot(),
	}
}

// Changes signals that at least one panel changed since the last receive.
// Bursts of changes are coalesced into one signal.
func (d *Dashboard) Changes() <-chan struct{} {
	return d.changes
}

// Control returns the operator control panel.
func (d *Dashboard) Control() *control.Panel {
	return d.control
}

func (d *Dashboard) notify(name panels.Name) {
	select {
	case d.changes <- struct{}{}:
	default:
	}

	if d.publisher == nil {
		return
	}
	d.dirtyMu.Lock()
	d.dirty[name] = true
	d.dirtyMu.Unlock()
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// publishLoop publishes the latest snapshot of each changed panel, in the order
// the loop sees them. Intermediate states of a busy panel may be skipped.
func (d *Dashboard) publishLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.wake:
		}

		d.dirtyMu.Lock()
		names := make([]panels.Name, 0, len(d.dirty))
		for name := range d.dirty {
			names = append(names, name)
		}
		clear(d.dirty)
		d.dirtyMu.Unlock()

		for _, name := range names {
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			if err := d.publisher.PublishPanel(pubCtx, string(name), d.panelSnapshot(name)); err != nil {
				d.logger.Debugw("panel publish failed", "panel", string(name), "error", err)
			}
			cancel()
		}
	}
}

func (d *Dashboard) panelSnapshot(name panels.Name) any {
	switch name {
	case panels.PanelHeader:
		return d.header.Snapshot()
	case panels.PanelInventory:
		return d.inventory.Snapshot()
	case panels.PanelSales:
		return d.sales.Snapshot()
	case panels.PanelLogs:
		return d.logs.Snapshot()
	default:
		return d.control.Snapshot()
	}
}
