package simulation

import "time"

// SalesSample is one observation of cumulative ticket sales.
type SalesSample struct {
	CapturedAt  time.Time `json:"capturedAt"`
	TicketSales float64   `json:"ticketSales"`
}

// LogEntry is one line of the backend's activity log.
type LogEntry struct {
	Line string `json:"line"`
}

// LogEntries wraps raw log lines, keeping server order.
func LogEntries(lines []string) []LogEntry {
	entries := make([]LogEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, LogEntry{Line: line})
	}
	return entries
}
