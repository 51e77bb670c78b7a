package ticketapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ticketdash/internal/domain/simulation"
	"ticketdash/internal/shared/errors"
)

// ParseMessage decodes a command or status envelope. A status other than
// "success" is a server error carrying the backend's message.
func ParseMessage(body []byte) (*MessageResponse, error) {
	var resp MessageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewParseError("malformed response envelope", err)
	}
	if err := checkStatus(resp.Status, resp.Message, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseSystemStatus decodes GET /status.
func ParseSystemStatus(body []byte) (simulation.SystemStatus, error) {
	resp, err := ParseMessage(body)
	if err != nil {
		return simulation.SystemStatus{}, err
	}
	if resp.Message == "" {
		return simulation.SystemStatus{}, errors.NewParseError("system status without message", nil)
	}
	return simulation.NewSystemStatus(resp.Message), nil
}

// ParseTicketStatus decodes GET /tickets and checks the inventory invariants.
func ParseTicketStatus(body []byte) (simulation.TicketStatus, error) {
	var payload ticketStatusPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return simulation.TicketStatus{}, errors.NewParseError("malformed ticket status", err)
	}
	if err := checkStatus(payload.Status, payload.Message, true); err != nil {
		return simulation.TicketStatus{}, err
	}
	wire := payload.TicketStatus
	if wire == nil {
		return simulation.TicketStatus{}, errors.NewParseError("ticket status missing ticketStatus", nil)
	}

	fields := []struct {
		name  string
		value *int
	}{
		{"currentSize", wire.CurrentSize},
		{"totalTicketsAdded", wire.TotalTicketsAdded},
		{"maxCapacity", wire.MaxCapacity},
		{"activeVendors", wire.ActiveVendors},
		{"activeCustomers", wire.ActiveCustomers},
	}
	for _, f := range fields {
		if f.value == nil {
			return simulation.TicketStatus{}, errors.NewParseError(fmt.Sprintf("ticket status missing %s", f.name), nil)
		}
	}

	status := simulation.TicketStatus{
		CurrentSize:       *wire.CurrentSize,
		TotalTicketsAdded: *wire.TotalTicketsAdded,
		MaxCapacity:       *wire.MaxCapacity,
		ActiveVendors:     *wire.ActiveVendors,
		ActiveCustomers:   *wire.ActiveCustomers,
	}
	if err := status.Validate(); err != nil {
		return simulation.TicketStatus{}, errors.NewParseError("invalid ticket status", err)
	}
	return status, nil
}

// ParseSales decodes GET /sales. The payload carries no status envelope, but one
// is honoured if present.
func ParseSales(body []byte) (float64, error) {
	var payload salesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, errors.NewParseError("malformed sales payload", err)
	}
	if err := checkStatus(payload.Status, payload.Message, false); err != nil {
		return 0, err
	}
	if payload.TicketSales == nil {
		return 0, errors.NewParseError("sales payload missing ticketSales", nil)
	}
	if *payload.TicketSales < 0 {
		return 0, errors.NewParseError(fmt.Sprintf("negative ticketSales %v", *payload.TicketSales), nil)
	}
	return *payload.TicketSales, nil
}

// ParseLogs decodes GET /logs, keeping server order.
func ParseLogs(body []byte) ([]simulation.LogEntry, error) {
	var payload logsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewParseError("malformed logs payload", err)
	}
	if err := checkStatus(payload.Status, payload.Message, true); err != nil {
		return nil, err
	}
	if payload.Logs == nil {
		return nil, errors.NewParseError("logs payload missing logs", nil)
	}
	return simulation.LogEntries(*payload.Logs), nil
}

func checkStatus(status, message string, required bool) error {
	if status == "" {
		if required {
			return errors.NewParseError("response without status", nil)
		}
		return nil
	}
	if status != StatusSuccess {
		return errors.NewServerError(http.StatusOK, message)
	}
	return nil
}
