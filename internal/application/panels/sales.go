package panels

import (
	"errors"
	"sync"
	"time"

	"ticketdash/internal/domain/simulation"
	"ticketdash/internal/infrastructure/poller"
	"ticketdash/internal/infrastructure/ticketapi"
)

const (
	// DefaultSalesInterval is the /sales sampling period.
	DefaultSalesInterval = 5 * time.Second

	// SalesErrorMessage replaces the chart after a failed poll.
	SalesErrorMessage = "Failed to fetch sales data. Please check the backend service."
)

// SalesSnapshot is the sales time series.
type SalesSnapshot struct {
	Samples []simulation.SalesSample `json:"samples"`
	Error   string                   `json:"error,omitempty"`
}

// SalesStore appends one sample per successful /sales poll. A failure clears the
// series so the chart restarts from the next success. With Options.MaxSamples set
// only the newest samples are kept.
type SalesStore struct {
	observer

	mu      sync.RWMutex
	samples []simulation.SalesSample
	errMsg  string
	now     func() time.Time
}

// NewSalesStore returns a store with an empty series.
func NewSalesStore(opts Options) *SalesStore {
	return &SalesStore{
		observer: newObserver(PanelSales, DefaultSalesInterval, opts),
		now:      time.Now,
	}
}

// Mount starts the /sales poller.
func (s *SalesStore) Mount(fetcher poller.Fetcher) error {
	if s.mounted() {
		return errors.New("sales panel already mounted")
	}
	return s.track(poller.Start(fetcher, pollerConfig(&s.observer, "sales", ticketapi.EndpointSales,
		ticketapi.ParseSales, s.Apply, s.Failed)))
}

// Unmount cancels the poller.
func (s *SalesStore) Unmount() {
	s.unmount()
}

// Snapshot returns a copy of the series.
func (s *SalesStore) Snapshot() SalesSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SalesSnapshot{
		Samples: append([]simulation.SalesSample(nil), s.samples...),
		Error:   s.errMsg,
	}
}

// Apply appends a sample stamped with the local capture time.
func (s *SalesStore) Apply(ticketSales float64) {
	s.mu.Lock()
	sample := simulation.SalesSample{CapturedAt: s.now(), TicketSales: ticketSales}
	if limit := s.opts.MaxSamples; limit > 0 && len(s.samples) >= limit {
		n := copy(s.samples, s.samples[len(s.samples)-limit+1:])
		s.samples = append(s.samples[:n], sample)
	} else {
		s.samples = append(s.samples, sample)
	}
	s.errMsg = ""
	s.mu.Unlock()
	s.changed()
}

// Failed clears the series and records the failure.
func (s *SalesStore) Failed(err error) {
	s.mu.Lock()
	s.samples = nil
	s.errMsg = SalesErrorMessage
	s.mu.Unlock()
	s.failed("sales", err)
	s.changed()
}
