package panels

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdash/internal/domain/simulation"
	vo "ticketdash/internal/domain/simulation/valueobjects"
	"ticketdash/internal/infrastructure/ticketapi"
	apperrors "ticketdash/internal/shared/errors"
)

// scriptedFetcher answers each endpoint with the function registered for it.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses map[string]func() ([]byte, error)
	calls     map[string]int
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{
		responses: make(map[string]func() ([]byte, error)),
		calls:     make(map[string]int),
	}
}

func (f *scriptedFetcher) set(endpoint string, fn func() ([]byte, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[endpoint] = fn
}

func (f *scriptedFetcher) callCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func (f *scriptedFetcher) Get(ctx context.Context, endpoint string) ([]byte, error) {
	f.mu.Lock()
	f.calls[endpoint]++
	fn := f.responses[endpoint]
	f.mu.Unlock()
	if fn == nil {
		return nil, apperrors.NewTransportError("no route", nil)
	}
	return fn()
}

func body(s string) func() ([]byte, error) {
	return func() ([]byte, error) { return []byte(s), nil }
}

func fail(err error) func() ([]byte, error) {
	return func() ([]byte, error) { return nil, err }
}

type fakeRecorder struct {
	mu      sync.Mutex
	sources []string
}

func (r *fakeRecorder) RecordFailure(source string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}

func (r *fakeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sources)
}

func TestHeaderStore(t *testing.T) {
	t.Run("starts not started", func(t *testing.T) {
		s := NewHeaderStore(Options{})
		assert.Equal(t, vo.StateNotStarted, s.Snapshot().Status.State)
		assert.Equal(t, "System not started", s.Snapshot().Status.Label())
	})

	t.Run("status failure resets state but keeps counts", func(t *testing.T) {
		rec := &fakeRecorder{}
		var changes atomic.Int32
		s := NewHeaderStore(Options{Recorder: rec, OnChange: func(Name) { changes.Add(1) }})

		s.ApplyStatus(simulation.NewSystemStatus("Running"))
		s.ApplyTickets(simulation.TicketStatus{ActiveVendors: 2, ActiveCustomers: 1})
		s.StatusFailed(apperrors.NewTransportError("down", nil))

		snap := s.Snapshot()
		assert.Equal(t, vo.StateNotStarted, snap.Status.State)
		assert.Equal(t, 2, snap.ActiveVendors)
		assert.Equal(t, 1, snap.ActiveCustomers)
		assert.Equal(t, 1, rec.count())
		assert.Equal(t, int32(3), changes.Load())
	})

	t.Run("ticket failure leaves everything", func(t *testing.T) {
		s := NewHeaderStore(Options{})
		s.ApplyStatus(simulation.NewSystemStatus("Running"))
		s.ApplyTickets(simulation.TicketStatus{ActiveVendors: 4})

		s.TicketsFailed(errors.New("boom"))

		assert.Equal(t, vo.StateRunning, s.Snapshot().Status.State)
		assert.Equal(t, 4, s.Snapshot().ActiveVendors)
	})

	t.Run("command applied", func(t *testing.T) {
		s := NewHeaderStore(Options{})
		s.ApplyTickets(simulation.TicketStatus{ActiveVendors: 1})

		s.CommandApplied(vo.StateStopped)

		assert.Equal(t, vo.StateStopped, s.Snapshot().Status.State)
		assert.Equal(t, "Stopped", s.Snapshot().Status.Message)
		assert.Equal(t, 1, s.Snapshot().ActiveVendors)
	})
}

func TestHeaderStoreMount(t *testing.T) {
	f := newScriptedFetcher()
	f.set(ticketapi.EndpointStatus, body(`{"status":"success","message":"Running"}`))
	f.set(ticketapi.EndpointTickets, body(`{"status":"success","ticketStatus":{"currentSize":3,"totalTicketsAdded":9,"maxCapacity":10,"activeVendors":2,"activeCustomers":5}}`))

	s := NewHeaderStore(Options{Interval: time.Hour})
	require.NoError(t, s.Mount(f))
	defer s.Unmount()
	assert.Error(t, s.Mount(f))

	assert.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Status.State == vo.StateRunning && snap.ActiveCustomers == 5
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, s.Snapshot().ActiveVendors)
}

func TestHeaderStoreDropsStatusIssuedBeforeCommand(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f := newScriptedFetcher()
	f.set(ticketapi.EndpointStatus, func() ([]byte, error) {
		once.Do(func() { close(started) })
		<-release
		return []byte(`{"status":"success","message":"Stopped"}`), nil
	})
	f.set(ticketapi.EndpointTickets, body(`{"status":"success","ticketStatus":{"currentSize":0,"totalTicketsAdded":0,"maxCapacity":0,"activeVendors":0,"activeCustomers":0}}`))

	s := NewHeaderStore(Options{Interval: time.Hour})
	require.NoError(t, s.Mount(f))
	defer s.Unmount()

	<-started
	s.CommandApplied(vo.StateRunning)
	close(release)

	assert.Never(t, func() bool {
		return s.Snapshot().Status.State != vo.StateRunning
	}, 150*time.Millisecond, 10*time.Millisecond)
}

func TestInventoryStore(t *testing.T) {
	s := NewInventoryStore(Options{})
	assert.Equal(t, "System not started", s.Snapshot().Label)
	assert.False(t, s.Snapshot().Received)

	tickets := simulation.TicketStatus{CurrentSize: 7, TotalTicketsAdded: 20, MaxCapacity: 50, ActiveVendors: 1, ActiveCustomers: 2}
	s.Apply(tickets)
	assert.Equal(t, ConnectedLabel, s.Snapshot().Label)
	assert.Equal(t, tickets, s.Snapshot().Tickets)

	s.Failed(apperrors.NewParseError("bad", nil))
	assert.Equal(t, "System not started", s.Snapshot().Label)
	assert.Equal(t, tickets, s.Snapshot().Tickets)
	assert.True(t, s.Snapshot().Received)
}

func TestSalesStore(t *testing.T) {
	s := NewSalesStore(Options{})
	clock := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(5 * time.Second)
		return clock
	}

	s.Apply(100)
	s.Apply(150)
	snap := s.Snapshot()
	require.Len(t, snap.Samples, 2)
	assert.Equal(t, 150.0, snap.Samples[1].TicketSales)
	assert.True(t, snap.Samples[1].CapturedAt.After(snap.Samples[0].CapturedAt))
	assert.Empty(t, snap.Error)

	s.Failed(apperrors.NewTransportError("down", nil))
	snap = s.Snapshot()
	assert.Empty(t, snap.Samples)
	assert.Equal(t, SalesErrorMessage, snap.Error)

	s.Apply(175)
	snap = s.Snapshot()
	require.Len(t, snap.Samples, 1)
	assert.Equal(t, 175.0, snap.Samples[0].TicketSales)
	assert.Empty(t, snap.Error)
}

func TestSalesStoreKeepsNewestSamples(t *testing.T) {
	s := NewSalesStore(Options{MaxSamples: 3})
	for _, v := range []float64{1, 2, 3, 4, 5} {
		s.Apply(v)
	}

	snap := s.Snapshot()
	require.Len(t, snap.Samples, 3)
	assert.Equal(t, []float64{3, 4, 5}, []float64{
		snap.Samples[0].TicketSales, snap.Samples[1].TicketSales, snap.Samples[2].TicketSales,
	})
}

func TestSalesSnapshotIsACopy(t *testing.T) {
	s := NewSalesStore(Options{})
	s.Apply(1)

	snap := s.Snapshot()
	snap.Samples[0].TicketSales = 999

	assert.Equal(t, 1.0, s.Snapshot().Samples[0].TicketSales)
}

func TestLogStore(t *testing.T) {
	s := NewLogStore(Options{})
	s.Apply([]simulation.LogEntry{{Line: "one"}, {Line: "two"}})

	t.Run("server message shown, lines kept", func(t *testing.T) {
		s.Failed(apperrors.NewServerError(http.StatusOK, "log file locked"))
		snap := s.Snapshot()
		assert.Equal(t, "log file locked", snap.Error)
		assert.Len(t, snap.Entries, 2)
	})

	t.Run("server without message", func(t *testing.T) {
		s.Failed(apperrors.NewServerError(http.StatusInternalServerError, ""))
		assert.Equal(t, LogsFetchFailedMessage, s.Snapshot().Error)
	})

	t.Run("transport", func(t *testing.T) {
		s.Failed(apperrors.NewTransportError("down", nil))
		assert.Equal(t, LogsTransportMessage, s.Snapshot().Error)
	})

	t.Run("success replaces wholesale", func(t *testing.T) {
		s.Apply([]simulation.LogEntry{{Line: "three"}})
		snap := s.Snapshot()
		assert.Equal(t, []simulation.LogEntry{{Line: "three"}}, snap.Entries)
		assert.Empty(t, snap.Error)
	})
}

func TestSalesStoreMountClearsOnFailure(t *testing.T) {
	f := newScriptedFetcher()
	f.set(ticketapi.EndpointSales, body(`{"ticketSales":10}`))
	rec := &fakeRecorder{}

	s := NewSalesStore(Options{Interval: 20 * time.Millisecond, Recorder: rec})
	require.NoError(t, s.Mount(f))
	defer s.Unmount()

	assert.Eventually(t, func() bool { return len(s.Snapshot().Samples) >= 2 }, 2*time.Second, 5*time.Millisecond)

	f.set(ticketapi.EndpointSales, fail(apperrors.NewTransportError("down", nil)))
	assert.Eventually(t, func() bool { return s.Snapshot().Error == SalesErrorMessage }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, rec.count(), 1)
}

func TestUnmountStopsPolling(t *testing.T) {
	f := newScriptedFetcher()
	f.set(ticketapi.EndpointLogs, body(`{"status":"success","logs":[]}`))

	s := NewLogStore(Options{Interval: 10 * time.Millisecond})
	require.NoError(t, s.Mount(f))
	assert.Eventually(t, func() bool { return f.callCount(ticketapi.EndpointLogs) >= 2 }, 2*time.Second, 5*time.Millisecond)

	s.Unmount()
	after := f.callCount(ticketapi.EndpointLogs)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, f.callCount(ticketapi.EndpointLogs))

	require.NoError(t, s.Mount(f))
	s.Unmount()
}
