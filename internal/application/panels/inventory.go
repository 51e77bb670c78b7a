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

const (
	// DefaultInventoryInterval is the /tickets refresh period.
	DefaultInventoryInterval = 5 * time.Second

	// ConnectedLabel is shown once ticket status has been received.
	ConnectedLabel = "Connected"
)

// InventorySnapshot is the ticket pool summary.
type InventorySnapshot struct {
	Label   string                  `json:"label"`
	Tickets simulation.TicketStatus `json:"tickets"`
	// Received is false until the first successful poll.
	Received bool `json:"received"`
}

// InventoryStore tracks /tickets. On failure only the label resets; the last
// numbers stay on screen.
type InventoryStore struct {
	observer

	mu       sync.RWMutex
	snapshot InventorySnapshot
}

// NewInventoryStore returns a store that has not received ticket status yet.
func NewInventoryStore(opts Options) *InventoryStore {
	return &InventoryStore{
		observer: newObserver(PanelInventory, DefaultInventoryInterval, opts),
		snapshot: InventorySnapshot{Label: vo.NotStartedLabel},
	}
}

// Mount starts the /tickets poller.
func (s *InventoryStore) Mount(fetcher poller.Fetcher) error {
	if s.mounted() {
		return errors.New("inventory panel already mounted")
	}
	return s.track(poller.Start(fetcher, pollerConfig(&s.observer, "inventory", ticketapi.EndpointTickets,
		ticketapi.ParseTicketStatus, s.Apply, s.Failed)))
}

// Unmount cancels the poller.
func (s *InventoryStore) Unmount() {
	s.unmount()
}

// Snapshot returns the current summary.
func (s *InventoryStore) Snapshot() InventorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Apply records a /tickets result.
func (s *InventoryStore) Apply(tickets simulation.TicketStatus) {
	s.mu.Lock()
	s.snapshot = InventorySnapshot{Label: ConnectedLabel, Tickets: tickets, Received: true}
	s.mu.Unlock()
	s.changed()
}

// Failed resets the label and records the failure.
func (s *InventoryStore) Failed(err error) {
	s.mu.Lock()
	s.snapshot.Label = vo.NotStartedLabel
	s.mu.Unlock()
	s.failed("inventory", err)
	s.changed()
}
