// Package clitest runs ticketdash commands against a fake ticket service.
package clitest

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"ticketdash/internal/interfaces/cli/app"
)

// Backend records the commands it receives and answers with canned envelopes.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []string
	queries  []string
	replies  map[string]reply
}

type reply struct {
	status int
	body   string
}

// NewBackend starts a fake ticket service that acknowledges every command.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{replies: make(map[string]reply)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// Reply overrides the answer for one endpoint.
func (b *Backend) Reply(endpoint string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[endpoint] = reply{status: status, body: body}
}

// Requests returns the paths received so far.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// Queries returns the raw query strings received so far.
func (b *Backend) Queries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.queries...)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.URL.Path)
	b.queries = append(b.queries, r.URL.RawQuery)
	rep, ok := b.replies[r.URL.Path]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_, _ = w.Write([]byte(`{"status":"success","message":""}`))
		return
	}
	w.WriteHeader(rep.status)
	_, _ = w.Write([]byte(rep.body))
}

// UseConfig points app.ConfigPath at a config for the backend with logs
// discarded. extra is appended verbatim to the YAML document.
func UseConfig(t *testing.T, baseURL, extra string) {
	t.Helper()
	body := fmt.Sprintf("backend:\n  base_url: %s\nlogger:\n  output_path: discard\ndiagnostics:\n  enabled: false\n%s", baseURL, extra)
	UseRawConfig(t, body)
}

// UseRawConfig points app.ConfigPath at a config file holding body.
func UseRawConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	original := app.ConfigPath
	app.ConfigPath = path
	t.Cleanup(func() { app.ConfigPath = original })
}

// Run executes cmd with args and returns what it printed.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	err := cmd.Execute()
	return out.String(), err
}
