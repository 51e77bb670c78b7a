package panels

import (
	"errors"
	"sync"
	"time"

	"ticketdash/internal/domain/simulation"
	"ticketdash/internal/infrastructure/poller"
	"ticketdash/internal/infrastructure/ticketapi"
	apperrors "ticketdash/internal/shared/errors"
)

const (
	// DefaultLogsInterval is the /logs refresh period.
	DefaultLogsInterval = 10 * time.Second

	// Messages shown in place of the feed.

	LogsFetchFailedMessage = "Failed to fetch logs"
	LogsTransportMessage   = "Error fetching logs"
	NoLogsMessage          = "No logs available"
)

// LogsSnapshot is the log feed.
type LogsSnapshot struct {
	Entries []simulation.LogEntry `json:"entries"`
	Error   string                `json:"error,omitempty"`
}

// LogStore replaces its lines wholesale on every successful /logs poll and keeps
// them when a poll fails.
type LogStore struct {
	observer

	mu      sync.RWMutex
	entries []simulation.LogEntry
	errMsg  string
}

// NewLogStore returns an empty log feed.
func NewLogStore(opts Options) *LogStore {
	return &LogStore{observer: newObserver(PanelLogs, DefaultLogsInterval, opts)}
}

// Mount starts the /logs poller.
func (s *LogStore) Mount(fetcher poller.Fetcher) error {
	if s.mounted() {
		return errors.New("logs panel already mounted")
	}
	return s.track(poller.Start(fetcher, pollerConfig(&s.observer, "logs", ticketapi.EndpointLogs,
		ticketapi.ParseLogs, s.Apply, s.Failed)))
}

// Unmount cancels the poller.
func (s *LogStore) Unmount() {
	s.unmount()
}

// Snapshot returns a copy of the feed.
func (s *LogStore) Snapshot() LogsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return LogsSnapshot{
		Entries: append([]simulation.LogEntry(nil), s.entries...),
		Error:   s.errMsg,
	}
}

// Apply replaces the feed with a /logs result.
func (s *LogStore) Apply(entries []simulation.LogEntry) {
	s.mu.Lock()
	s.entries = append([]simulation.LogEntry(nil), entries...)
	s.errMsg = ""
	s.mu.Unlock()
	s.changed()
}

// Failed keeps the lines and shows an error above them.
func (s *LogStore) Failed(err error) {
	s.mu.Lock()
	s.errMsg = logsErrorMessage(err)
	s.mu.Unlock()
	s.failed("logs", err)
	s.changed()
}

// logsErrorMessage shows the backend's own reason when it gave one.
func logsErrorMessage(err error) string {
	appErr := apperrors.GetAppError(err)
	switch {
	case appErr == nil, appErr.Type == apperrors.ErrorTypeTransport:
		return LogsTransportMessage
	case appErr.Type == apperrors.ErrorTypeServer && appErr.Message != apperrors.DefaultServerMessage:
		return appErr.Message
	default:
		return LogsFetchFailedMessage
	}
}
