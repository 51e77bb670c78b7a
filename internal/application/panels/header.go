package panels

import (
	"errors"
	"sync"
	"time"

	"ticketdash/internal/domain/simulation"
	vo "ticketdash/internal/domain/simulation/valueobjects"
	"ticketdash/internal/infrastructure/poller"
	"ticketdash/internal/infrastructure/ticketapi"
)

// DefaultHeaderInterval is the status and agent count refresh period.
const DefaultHeaderInterval = 5 * time.Second

// HeaderSnapshot is the system status line with agent counts.
type HeaderSnapshot struct {
	Status          simulation.SystemStatus `json:"status"`
	ActiveVendors   int                     `json:"activeVendors"`
	ActiveCustomers int                     `json:"activeCustomers"`
}

// HeaderStore tracks the engine state from /status and agent counts from /tickets.
// A failed status poll resets the state to not started; a failed ticket poll
// leaves the counts as they were.
type HeaderStore struct {
	observer

	mu       sync.RWMutex
	snapshot HeaderSnapshot
	// status is the /status poller, superseded when a command changes the state.
	status *poller.Handle
}

// NewHeaderStore returns a store showing the not started state.
func NewHeaderStore(opts Options) *HeaderStore {
	return &HeaderStore{
		observer: newObserver(PanelHeader, DefaultHeaderInterval, opts),
		snapshot: HeaderSnapshot{Status: simulation.NotStartedStatus()},
	}
}

// Mount starts the status and ticket pollers.
func (s *HeaderStore) Mount(fetcher poller.Fetcher) error {
	if s.mounted() {
		return errors.New("header panel already mounted")
	}
	status, err := poller.Start(fetcher, pollerConfig(&s.observer, "header.status", ticketapi.EndpointStatus,
		ticketapi.ParseSystemStatus, s.ApplyStatus, s.StatusFailed))
	if err := s.track(status, err); err != nil {
		return err
	}
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()

	return s.track(poller.Start(fetcher, pollerConfig(&s.observer, "header.tickets", ticketapi.EndpointTickets,
		ticketapi.ParseTicketStatus, s.ApplyTickets, s.TicketsFailed)))
}

// Unmount cancels both pollers.
func (s *HeaderStore) Unmount() {
	s.mu.Lock()
	s.status = nil
	s.mu.Unlock()
	s.unmount()
}

// Snapshot returns the current header.
func (s *HeaderStore) Snapshot() HeaderSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// ApplyStatus records a /status result.
func (s *HeaderStore) ApplyStatus(status simulation.SystemStatus) {
	s.mu.Lock()
	s.snapshot.Status = status
	s.mu.Unlock()
	s.changed()
}

// StatusFailed resets the state to not started and records the failure.
func (s *HeaderStore) StatusFailed(err error) {
	s.mu.Lock()
	s.snapshot.Status = simulation.NotStartedStatus()
	s.mu.Unlock()
	s.failed("header.status", err)
	s.changed()
}

// ApplyTickets records the agent counts of a /tickets result.
func (s *HeaderStore) ApplyTickets(tickets simulation.TicketStatus) {
	s.mu.Lock()
	s.snapshot.ActiveVendors = tickets.ActiveVendors
	s.snapshot.ActiveCustomers = tickets.ActiveCustomers
	s.mu.Unlock()
	s.changed()
}

// TicketsFailed records the failure and keeps the last counts.
func (s *HeaderStore) TicketsFailed(err error) {
	s.failed("header.tickets", err)
}

// CommandApplied reflects a successful start or stop before the next poll
// confirms it. A /status fetch issued before this call is dropped when it lands,
// so it cannot put back the state the command replaced.
func (s *HeaderStore) CommandApplied(state vo.SystemState) {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()
	if status != nil {
		status.Supersede()
	}
	s.ApplyStatus(simulation.SystemStatus{State: state, Message: state.Label()})
}
