package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdash/internal/application/panels"
	"ticketdash/internal/domain/simulation"
	"ticketdash/internal/interfaces/dashboard"
	"ticketdash/internal/interfaces/http/handlers/testutil"
)

type staticSource struct {
	snapshot dashboard.Snapshot
}

func (s staticSource) Snapshot() dashboard.Snapshot { return s.snapshot }

func TestGetDashboard(t *testing.T) {
	source := staticSource{snapshot: dashboard.Snapshot{
		Header: panels.HeaderSnapshot{Status: simulation.NewSystemStatus("Running"), ActiveVendors: 2},
		Logs:   panels.LogsSnapshot{Entries: []simulation.LogEntry{{Line: "hello"}}},
	}}
	h := NewDashboardHandler(source)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/dashboard", nil)
	h.GetDashboard(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var snap dashboard.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.True(t, snap.Header.Status.State.IsRunning())
	assert.Equal(t, 2, snap.Header.ActiveVendors)
	assert.Equal(t, "hello", snap.Logs.Entries[0].Line)
}
