package control

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdash/internal/domain/simulation"
	"ticketdash/internal/infrastructure/ticketapi"
	"ticketdash/internal/shared/errors"
)

// mockAPI records executed commands and answers with executeFunc.
type mockAPI struct {
	mu          sync.Mutex
	commands    []ticketapi.Command
	executeFunc func(cmd ticketapi.Command) (*ticketapi.MessageResponse, error)
}

func (m *mockAPI) Execute(ctx context.Context, cmd ticketapi.Command) (*ticketapi.MessageResponse, error) {
	m.mu.Lock()
	m.commands = append(m.commands, cmd)
	m.mu.Unlock()
	if m.executeFunc != nil {
		return m.executeFunc(cmd)
	}
	return &ticketapi.MessageResponse{Status: ticketapi.StatusSuccess}, nil
}

func (m *mockAPI) calls() []ticketapi.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ticketapi.Command(nil), m.commands...)
}

func intPtr(v int) *int {
	return &v
}

func validVendor() simulation.Vendor {
	return simulation.Vendor{Name: "V1", EventName: "Show", TicketsPerRelease: 10, ReleaseInterval: 2, TotalTickets: 50, Price: 25}
}

func TestDispatcherValidationMakesNoCalls(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		run       func(d *Dispatcher) error
		wantField string
	}{
		{"vendor without name", func(d *Dispatcher) error {
			v := validVendor()
			v.Name = ""
			_, err := d.AddVendor(ctx, v)
			return err
		}, "name"},
		{"vendor with zero price", func(d *Dispatcher) error {
			v := validVendor()
			v.Price = 0
			_, err := d.AddVendor(ctx, v)
			return err
		}, "price"},
		{"customer with zero quantity", func(d *Dispatcher) error {
			_, err := d.AddCustomer(ctx, simulation.Customer{Name: "C1", RetrievalInterval: 3, Quantity: 0})
			return err
		}, "quantity"},
		{"remove without name", func(d *Dispatcher) error {
			_, err := d.RemoveCustomer(ctx, "  ")
			return err
		}, "name"},
		{"zero capacity", func(d *Dispatcher) error {
			_, err := d.Start(ctx, intPtr(0))
			return err
		}, "maxCapacity"},
		{"capacity over limit", func(d *Dispatcher) error {
			_, err := d.Start(ctx, intPtr(101))
			return err
		}, "maxCapacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{}
			err := tt.run(NewDispatcher(api))

			require.Error(t, err)
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
			assert.Equal(t, tt.wantField, appErr.Field)
			assert.Empty(t, api.calls())
		})
	}
}

func TestDispatcherCommands(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		run          func(d *Dispatcher) (*Result, error)
		wantMethod   string
		wantEndpoint string
		wantParams   url.Values
		wantMessage  string
	}{
		{
			name:         "start with capacity",
			run:          func(d *Dispatcher) (*Result, error) { return d.Start(ctx, intPtr(100)) },
			wantMethod:   http.MethodPost,
			wantEndpoint: ticketapi.EndpointStart,
			wantParams:   url.Values{"maxCapacity": {"100"}},
			wantMessage:  "System started successfully with max capacity.",
		},
		{
			name:         "start with default",
			run:          func(d *Dispatcher) (*Result, error) { return d.Start(ctx, nil) },
			wantMethod:   http.MethodPost,
			wantEndpoint: ticketapi.EndpointStart,
			wantParams:   url.Values{"maxCapacity": {"0"}},
			wantMessage:  "System started successfully with default capacity.",
		},
		{
			name:         "stop",
			run:          func(d *Dispatcher) (*Result, error) { return d.Stop(ctx) },
			wantMethod:   http.MethodPost,
			wantEndpoint: ticketapi.EndpointStop,
			wantMessage:  "System stopped successfully",
		},
		{
			name:         "add vendor",
			run:          func(d *Dispatcher) (*Result, error) { return d.AddVendor(ctx, validVendor()) },
			wantMethod:   http.MethodPost,
			wantEndpoint: ticketapi.EndpointVendorAdd,
			wantParams: url.Values{
				"name": {"V1"}, "eventName": {"Show"}, "ticketsPerRelease": {"10"},
				"releaseInterval": {"2"}, "totalTickets": {"50"}, "price": {"25"},
			},
			wantMessage: "Vendor added and processing tickets",
		},
		{
			name: "add customer sends quantity as totalTickets",
			run: func(d *Dispatcher) (*Result, error) {
				return d.AddCustomer(ctx, simulation.Customer{Name: "C1", RetrievalInterval: 3, Quantity: 4})
			},
			wantMethod:   http.MethodPost,
			wantEndpoint: ticketapi.EndpointCustomerAdd,
			wantParams:   url.Values{"name": {"C1"}, "retrievalInterval": {"3"}, "totalTickets": {"4"}},
			wantMessage:  "Customer added and retrieving tickets",
		},
		{
			name:         "remove vendor",
			run:          func(d *Dispatcher) (*Result, error) { return d.RemoveVendor(ctx, "V1") },
			wantMethod:   http.MethodDelete,
			wantEndpoint: ticketapi.EndpointVendorRemove,
			wantParams:   url.Values{"name": {"V1"}},
			wantMessage:  "Vendor removed",
		},
		{
			name:         "remove customer",
			run:          func(d *Dispatcher) (*Result, error) { return d.RemoveCustomer(ctx, "C1") },
			wantMethod:   http.MethodDelete,
			wantEndpoint: ticketapi.EndpointCustomerRemove,
			wantParams:   url.Values{"name": {"C1"}},
			wantMessage:  "Customer removed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{}
			res, err := tt.run(NewDispatcher(api))

			require.NoError(t, err)
			assert.Equal(t, tt.wantMessage, res.Message)
			calls := api.calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantMethod, calls[0].Method)
			assert.Equal(t, tt.wantEndpoint, calls[0].Endpoint)
			if tt.wantParams == nil {
				assert.Empty(t, calls[0].Params)
			} else {
				assert.Equal(t, tt.wantParams, calls[0].Params)
			}
		})
	}
}

func TestDispatcherPrefersServerMessage(t *testing.T) {
	api := &mockAPI{executeFunc: func(cmd ticketapi.Command) (*ticketapi.MessageResponse, error) {
		return &ticketapi.MessageResponse{Status: ticketapi.StatusSuccess, Message: "Customer C1 added and retrieving tickets"}, nil
	}}

	res, err := NewDispatcher(api).AddCustomer(context.Background(), simulation.Customer{Name: "C1", RetrievalInterval: 1, Quantity: 1})

	require.NoError(t, err)
	assert.Equal(t, "Customer C1 added and retrieving tickets", res.Message)
	assert.Equal(t, CommandAddCustomer, res.Command)
}

func TestDispatcherCapacityLimit(t *testing.T) {
	api := &mockAPI{}
	d := NewDispatcher(api, WithCapacityLimit(500))

	_, err := d.Start(context.Background(), intPtr(400))
	require.NoError(t, err)

	_, err = d.PrepareStart(simulation.CapacityForm("12.5"))
	require.Error(t, err)
	assert.Contains(t, errors.GetAppError(err).Message, "between 0 and 500")
}

func TestDispatcherAgainstBackend(t *testing.T) {
	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		base := server.URL
		server.Close()

		_, err := NewDispatcher(ticketapi.NewClient(base)).Start(context.Background(), intPtr(100))

		require.Error(t, err)
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeTransport, appErr.Type)
		assert.Equal(t, "Failed to start the system.", appErr.Message)
	})

	t.Run("server rejection keeps message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status":"error","message":"System is already running"}`))
		}))
		defer server.Close()

		_, err := NewDispatcher(ticketapi.NewClient(server.URL)).Start(context.Background(), intPtr(100))

		require.Error(t, err)
		assert.True(t, errors.IsServerError(err))
		assert.Equal(t, "System is already running", errors.GetAppError(err).Message)
	})

	t.Run("server rejection without message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"error"}`))
		}))
		defer server.Close()

		_, err := NewDispatcher(ticketapi.NewClient(server.URL)).Stop(context.Background())

		require.Error(t, err)
		assert.Equal(t, "Unknown error.", errors.GetAppError(err).Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`OK`))
		}))
		defer server.Close()

		_, err := NewDispatcher(ticketapi.NewClient(server.URL)).Stop(context.Background())

		assert.True(t, errors.IsParseError(err))
	})
}
