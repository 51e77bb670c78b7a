package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdash/internal/application/control"
	"ticketdash/internal/application/panels"
	"ticketdash/internal/domain/simulation"
	vo "ticketdash/internal/domain/simulation/valueobjects"
	"ticketdash/internal/infrastructure/ticketapi"
	sharedConfig "ticketdash/internal/shared/config"
)

type fakeBackend struct {
	hits    atomic.Int64
	running atomic.Bool
	failing atomic.Bool
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.hits.Add(1)
	if b.failing.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","message":"engine down"}`))
		return
	}
	switch r.URL.Path {
	case ticketapi.EndpointStatus:
		if b.running.Load() {
			_, _ = w.Write([]byte(`{"status":"success","message":"Running"}`))
		} else {
			_, _ = w.Write([]byte(`{"status":"success","message":"Stopped"}`))
		}
	case ticketapi.EndpointTickets:
		_, _ = w.Write([]byte(`{"status":"success","ticketStatus":{"currentSize":4,"totalTicketsAdded":10,"maxCapacity":20,"activeVendors":2,"activeCustomers":1}}`))
	case ticketapi.EndpointSales:
		_, _ = w.Write([]byte(`{"ticketSales":150.5}`))
	case ticketapi.EndpointLogs:
		_, _ = w.Write([]byte(`{"status":"success","logs":["vendor v1 released 5 tickets"]}`))
	case ticketapi.EndpointStart:
		b.running.Store(true)
		_, _ = w.Write([]byte(`{"status":"success","message":"System started successfully with max capacity."}`))
	case ticketapi.EndpointStop:
		b.running.Store(false)
		_, _ = w.Write([]byte(`{"status":"success","message":"System stopped successfully"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	panels map[string]int
}

func (p *recordingPublisher) PublishPanel(_ context.Context, panel string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.panels == nil {
		p.panels = make(map[string]int)
	}
	p.panels[panel]++
	return nil
}

func (p *recordingPublisher) count(panel string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.panels[panel]
}

type countingRecorder struct {
	n atomic.Int64
}

func (r *countingRecorder) RecordFailure(string, error) {
	r.n.Add(1)
}

func fastPolling() sharedConfig.PollingConfig {
	return sharedConfig.PollingConfig{
		StatusInterval:    20 * time.Millisecond,
		InventoryInterval: 20 * time.Millisecond,
		SalesInterval:     20 * time.Millisecond,
		LogsInterval:      20 * time.Millisecond,
	}
}

func newTestDashboard(t *testing.T, backend http.Handler, deps Deps) *Dashboard {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := ticketapi.NewClient(server.URL)
	deps.Fetcher = client
	deps.Dispatcher = control.NewDispatcher(client)
	if deps.Polling.StatusInterval == 0 {
		deps.Polling = fastPolling()
	}
	d, err := New(deps)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)

	_, err = New(Deps{Fetcher: ticketapi.NewClient("http://localhost")})
	assert.Error(t, err)
}

func TestInitialSnapshot(t *testing.T) {
	d := newTestDashboard(t, &fakeBackend{}, Deps{})

	snap := d.Snapshot()
	assert.Equal(t, vo.StateNotStarted, snap.Header.Status.State)
	assert.Equal(t, vo.NotStartedLabel, snap.Inventory.Label)
	assert.Empty(t, snap.Sales.Samples)
	assert.Equal(t, vo.NotStartedLabel, snap.Control.Message)
}

func TestMountPopulatesEveryPanel(t *testing.T) {
	backend := &fakeBackend{}
	backend.running.Store(true)
	d := newTestDashboard(t, backend, Deps{})

	require.NoError(t, d.Mount(context.Background()))

	assert.Eventually(t, func() bool {
		snap := d.Snapshot()
		return snap.Header.Status.State.IsRunning() &&
			snap.Header.ActiveVendors == 2 &&
			snap.Inventory.Label == panels.ConnectedLabel &&
			len(snap.Sales.Samples) > 0 &&
			len(snap.Logs.Entries) == 1
	}, 2*time.Second, 10*time.Millisecond)

	snap := d.Snapshot()
	assert.Equal(t, 4, snap.Inventory.Tickets.CurrentSize)
	assert.Equal(t, 150.5, snap.Sales.Samples[0].TicketSales)
	assert.Equal(t, "vendor v1 released 5 tickets", snap.Logs.Entries[0].Line)
}

func TestMountTwiceFails(t *testing.T) {
	d := newTestDashboard(t, &fakeBackend{}, Deps{})

	require.NoError(t, d.Mount(context.Background()))
	assert.Error(t, d.Mount(context.Background()))
}

func TestFailuresDegradeEachPanelAndAreRecorded(t *testing.T) {
	backend := &fakeBackend{}
	backend.running.Store(true)
	recorder := &countingRecorder{}
	d := newTestDashboard(t, backend, Deps{Recorder: recorder})
	require.NoError(t, d.Mount(context.Background()))

	assert.Eventually(t, func() bool {
		return len(d.Snapshot().Sales.Samples) > 0
	}, 2*time.Second, 10*time.Millisecond)

	backend.failing.Store(true)

	assert.Eventually(t, func() bool {
		snap := d.Snapshot()
		return snap.Header.Status.State.IsNotStarted() &&
			snap.Inventory.Label == vo.NotStartedLabel &&
			len(snap.Sales.Samples) == 0 && snap.Sales.Error != "" &&
			snap.Logs.Error != ""
	}, 2*time.Second, 10*time.Millisecond)

	snap := d.Snapshot()
	assert.Equal(t, 4, snap.Inventory.Tickets.CurrentSize, "numbers survive a failed poll")
	assert.Len(t, snap.Logs.Entries, 1, "lines survive a failed poll")
	assert.Positive(t, recorder.n.Load())
}

func TestCloseStopsPolling(t *testing.T) {
	backend := &fakeBackend{}
	d := newTestDashboard(t, backend, Deps{})
	require.NoError(t, d.Mount(context.Background()))

	assert.Eventually(t, func() bool { return backend.hits.Load() > 4 }, 2*time.Second, 10*time.Millisecond)

	d.Close()
	d.Close()
	settled := backend.hits.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, settled, backend.hits.Load())
	assert.Error(t, d.Mount(context.Background()))
}

// closingFetcher closes the dashboard from its first fetch, while Mount may
// still be starting the remaining panels.
type closingFetcher struct {
	d     *Dashboard
	once  sync.Once
	calls atomic.Int64
}

func (f *closingFetcher) Get(ctx context.Context, endpoint string) ([]byte, error) {
	f.calls.Add(1)
	f.once.Do(func() { go f.d.Close() })
	return nil, errors.New("unavailable")
}

func TestCloseDuringMountLeavesNoPollers(t *testing.T) {
	fetcher := &closingFetcher{}
	d, err := New(Deps{
		Fetcher:    fetcher,
		Dispatcher: control.NewDispatcher(ticketapi.NewClient("http://localhost")),
		Polling:    fastPolling(),
	})
	require.NoError(t, err)
	fetcher.d = d

	_ = d.Mount(context.Background())

	assert.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.closed
	}, 2*time.Second, 5*time.Millisecond)
	d.Close()

	assert.Eventually(t, func() bool {
		before := fetcher.calls.Load()
		time.Sleep(60 * time.Millisecond)
		return fetcher.calls.Load() == before
	}, 2*time.Second, 10*time.Millisecond)
}

func TestContextCancellationClosesDashboard(t *testing.T) {
	backend := &fakeBackend{}
	d := newTestDashboard(t, backend, Deps{})
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Mount(ctx))

	assert.Eventually(t, func() bool { return backend.hits.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	assert.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.closed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChangesAreCoalesced(t *testing.T) {
	d := newTestDashboard(t, &fakeBackend{}, Deps{})

	require.NoError(t, d.Control().Open(control.FormStart))
	require.NoError(t, d.Control().Cancel(control.FormStart))

	select {
	case <-d.Changes():
	default:
		t.Fatal("expected a change signal")
	}
	select {
	case <-d.Changes():
		t.Fatal("changes should be coalesced into one signal")
	default:
	}
}

func TestStartCommandUpdatesHeaderAndPublishes(t *testing.T) {
	backend := &fakeBackend{}
	publisher := &recordingPublisher{}
	d := newTestDashboard(t, backend, Deps{Publisher: publisher})
	require.NoError(t, d.Mount(context.Background()))

	require.NoError(t, d.Control().Open(control.FormStart))
	res, err := d.Control().Submit(context.Background(), control.FormStart,
		simulation.CapacityForm("50"))
	require.NoError(t, err)
	assert.Equal(t, "System started successfully with max capacity.", res.Message)

	assert.Equal(t, res.Message, d.Snapshot().Control.Message)
	assert.Eventually(t, func() bool {
		return d.Snapshot().Header.Status.State.IsRunning()
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return publisher.count(string(panels.PanelControl)) > 0 &&
			publisher.count(string(panels.PanelHeader)) > 0 &&
			publisher.count(string(panels.PanelSales)) > 0
	}, 2*time.Second, 10*time.Millisecond)
}
