package engine

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdash/internal/infrastructure/ticketapi"
	"ticketdash/internal/interfaces/cli/clitest"
)

func TestStartWithoutCapacityUsesDefault(t *testing.T) {
	backend := clitest.NewBackend(t)
	clitest.UseConfig(t, backend.Server.URL, "")

	out, err := clitest.Run(t, NewStartCommand())
	require.NoError(t, err)

	assert.Equal(t, "System started successfully with default capacity.\n", out)
	assert.Equal(t, []string{ticketapi.EndpointStart}, backend.Requests())
	assert.Equal(t, []string{"maxCapacity=0"}, backend.Queries())
}

func TestStartWithCapacity(t *testing.T) {
	backend := clitest.NewBackend(t)
	clitest.UseConfig(t, backend.Server.URL, "")

	out, err := clitest.Run(t, NewStartCommand(), "--capacity", "120")
	require.NoError(t, err)

	assert.Equal(t, "System started successfully with max capacity.\n", out)
	assert.Equal(t, []string{"maxCapacity=120"}, backend.Queries())
}

func TestStartRejectsInvalidCapacity(t *testing.T) {
	backend := clitest.NewBackend(t)
	clitest.UseConfig(t, backend.Server.URL, "")

	_, err := clitest.Run(t, NewStartCommand(), "--capacity=-5")
	require.Error(t, err)
	assert.Empty(t, backend.Requests(), "invalid input never reaches the service")
}

func TestStopReportsServiceMessage(t *testing.T) {
	backend := clitest.NewBackend(t)
	backend.Reply(ticketapi.EndpointStop, http.StatusOK, `{"status":"success","message":"Simulation halted"}`)
	clitest.UseConfig(t, backend.Server.URL, "")

	out, err := clitest.Run(t, NewStopCommand())
	require.NoError(t, err)
	assert.Equal(t, "Simulation halted\n", out)
}

func TestStopSurfacesServiceError(t *testing.T) {
	backend := clitest.NewBackend(t)
	backend.Reply(ticketapi.EndpointStop, http.StatusConflict, `{"status":"error","message":"System is not running"}`)
	clitest.UseConfig(t, backend.Server.URL, "")

	_, err := clitest.Run(t, NewStopCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "System is not running")
}
