package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdash/internal/interfaces/cli/clitest"
)

func TestPrintsEffectiveConfig(t *testing.T) {
	clitest.UseConfig(t, "http://example.test:8080/api/tickets", `
redis:
  password: hunter2
`)

	out, err := clitest.Run(t, NewCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "base_url: http://example.test:8080/api/tickets")
	assert.Contains(t, out, "output_path: discard")
	assert.NotContains(t, out, "hunter2")
}
