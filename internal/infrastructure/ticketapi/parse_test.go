package ticketapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdash/internal/domain/simulation"
	vo "ticketdash/internal/domain/simulation/valueobjects"
	"ticketdash/internal/shared/errors"
)

func TestParseSystemStatus(t *testing.T) {
	t.Run("running", func(t *testing.T) {
		status, err := ParseSystemStatus([]byte(`{"status":"success","message":"Running"}`))

		require.NoError(t, err)
		assert.Equal(t, vo.StateRunning, status.State)
		assert.Equal(t, "Running", status.Message)
	})

	t.Run("error envelope", func(t *testing.T) {
		_, err := ParseSystemStatus([]byte(`{"status":"error","message":"engine crashed"}`))

		require.Error(t, err)
		assert.True(t, errors.IsServerError(err))
		assert.Equal(t, "engine crashed", errors.GetAppError(err).Message)
	})

	t.Run("missing message", func(t *testing.T) {
		_, err := ParseSystemStatus([]byte(`{"status":"success"}`))
		assert.True(t, errors.IsParseError(err))
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseSystemStatus([]byte(`<html>`))
		assert.True(t, errors.IsParseError(err))
	})
}

func TestParseTicketStatus(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      simulation.TicketStatus
		wantParse bool
	}{
		{
			name: "complete",
			body: `{"status":"success","ticketStatus":{"currentSize":10,"totalTicketsAdded":40,"maxCapacity":100,"activeVendors":2,"activeCustomers":3}}`,
			want: simulation.TicketStatus{CurrentSize: 10, TotalTicketsAdded: 40, MaxCapacity: 100, ActiveVendors: 2, ActiveCustomers: 3},
		},
		{
			name: "default capacity",
			body: `{"status":"success","ticketStatus":{"currentSize":500,"totalTicketsAdded":500,"maxCapacity":0,"activeVendors":1,"activeCustomers":0}}`,
			want: simulation.TicketStatus{CurrentSize: 500, TotalTicketsAdded: 500, ActiveVendors: 1},
		},
		{
			name:      "missing field",
			body:      `{"status":"success","ticketStatus":{"currentSize":10,"maxCapacity":100,"activeVendors":2,"activeCustomers":3}}`,
			wantParse: true,
		},
		{
			name:      "over capacity",
			body:      `{"status":"success","ticketStatus":{"currentSize":101,"totalTicketsAdded":101,"maxCapacity":100,"activeVendors":0,"activeCustomers":0}}`,
			wantParse: true,
		},
		{
			name:      "missing object",
			body:      `{"status":"success"}`,
			wantParse: true,
		},
		{
			name:      "string count",
			body:      `{"status":"success","ticketStatus":{"currentSize":"ten"}}`,
			wantParse: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTicketStatus([]byte(tt.body))
			if tt.wantParse {
				assert.True(t, errors.IsParseError(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSales(t *testing.T) {
	sales, err := ParseSales([]byte(`{"ticketSales":1250.5}`))
	require.NoError(t, err)
	assert.Equal(t, 1250.5, sales)

	_, err = ParseSales([]byte(`{}`))
	assert.True(t, errors.IsParseError(err))

	_, err = ParseSales([]byte(`{"ticketSales":-1}`))
	assert.True(t, errors.IsParseError(err))

	_, err = ParseSales([]byte(`{"status":"error","message":"ledger offline"}`))
	assert.True(t, errors.IsServerError(err))
}

func TestParseLogs(t *testing.T) {
	entries, err := ParseLogs([]byte(`{"status":"success","logs":["b","a"]}`))
	require.NoError(t, err)
	assert.Equal(t, []simulation.LogEntry{{Line: "b"}, {Line: "a"}}, entries)

	entries, err = ParseLogs([]byte(`{"status":"success","logs":[]}`))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = ParseLogs([]byte(`{"status":"success"}`))
	assert.True(t, errors.IsParseError(err))

	_, err = ParseLogs([]byte(`{"status":"error","message":"log file locked"}`))
	require.Error(t, err)
	assert.Equal(t, "log file locked", errors.GetAppError(err).Message)
}

func TestParseMessage(t *testing.T) {
	resp, err := ParseMessage([]byte(`{"status":"success","message":"System stopped successfully"}`))
	require.NoError(t, err)
	assert.Equal(t, "System stopped successfully", resp.Message)

	_, err = ParseMessage([]byte(`{"message":"no status"}`))
	assert.True(t, errors.IsParseError(err))

	_, err = ParseMessage([]byte(`{"status":"error"}`))
	require.Error(t, err)
	assert.Equal(t, errors.DefaultServerMessage, errors.GetAppError(err).Message)
}
