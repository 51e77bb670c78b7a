package simulation

import (
	"fmt"

	vo "ticketdash/internal/domain/simulation/valueobjects"
)

// SystemStatus is the engine state as last reported by the backend.
type SystemStatus struct {
	State   vo.SystemState `json:"state"`
	Message string         `json:"message"`
}

// NotStartedStatus is the status shown before the first successful poll and after
// any failed one.
func NotStartedStatus() SystemStatus {
	return SystemStatus{State: vo.StateNotStarted, Message: vo.NotStartedLabel}
}

// NewSystemStatus classifies a backend status message.
func NewSystemStatus(message string) SystemStatus {
	return SystemStatus{State: vo.ParseSystemState(message), Message: message}
}

// Label prefers the backend's own wording over the state's default label.
func (s SystemStatus) Label() string {
	if s.Message != "" {
		return s.Message
	}
	return s.State.Label()
}

// TicketStatus is the inventory summary of the ticket pool.
type TicketStatus struct {
	CurrentSize       int `json:"currentSize"`
	TotalTicketsAdded int `json:"totalTicketsAdded"`
	// MaxCapacity of zero means the engine runs with its default capacity.
	MaxCapacity     int `json:"maxCapacity"`
	ActiveVendors   int `json:"activeVendors"`
	ActiveCustomers int `json:"activeCustomers"`
}

// DefaultCapacity reports whether the engine did not announce a concrete capacity.
func (t TicketStatus) DefaultCapacity() bool {
	return t.MaxCapacity == 0
}

// Validate checks that counts are non-negative and the pool does not exceed a
// concrete capacity.
func (t TicketStatus) Validate() error {
	counts := []struct {
		name  string
		value int
	}{
		{"currentSize", t.CurrentSize},
		{"totalTicketsAdded", t.TotalTicketsAdded},
		{"maxCapacity", t.MaxCapacity},
		{"activeVendors", t.ActiveVendors},
		{"activeCustomers", t.ActiveCustomers},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%s must not be negative, got %d", c.name, c.value)
		}
	}
	if t.MaxCapacity > 0 && t.CurrentSize > t.MaxCapacity {
		return fmt.Errorf("currentSize %d exceeds maxCapacity %d", t.CurrentSize, t.MaxCapacity)
	}
	return nil
}
