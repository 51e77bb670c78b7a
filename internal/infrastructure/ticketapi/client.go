package ticketapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"ticketdash/internal/domain/simulation"
	"ticketdash/internal/shared/errors"
	"ticketdash/internal/shared/logger"
)

const defaultRequestIDHeader = "X-Request-ID"

// maxBodySize caps how much of a response is read.
const maxBodySize = 4 << 20

// Client talks to the ticket simulation backend.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	requestIDHeader string
	logger          logger.Interface
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout. Without it requests are bounded only by
// their context.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log logger.Interface) Option {
	return func(client *Client) {
		client.logger = log
	}
}

// WithRequestIDHeader changes the header carrying the per-request id.
func WithRequestIDHeader(name string) Option {
	return func(client *Client) {
		if name != "" {
			client.requestIDHeader = name
		}
	}
}

// NewClient creates a client for the backend rooted at baseURL
// (e.g. "http://localhost:8080/api/tickets").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{},
		requestIDHeader: defaultRequestIDHeader,
		logger:          logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches a read endpoint and returns the raw body of a 2xx answer.
func (c *Client) Get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, endpoint, nil)
}

// Execute sends a command and decodes its envelope.
func (c *Client) Execute(ctx context.Context, cmd Command) (*MessageResponse, error) {
	body, err := c.doRequest(ctx, cmd.Method, cmd.Endpoint, cmd.Params)
	if err != nil {
		return nil, err
	}
	return ParseMessage(body)
}

// GetSystemStatus retrieves the engine state.
func (c *Client) GetSystemStatus(ctx context.Context) (simulation.SystemStatus, error) {
	body, err := c.Get(ctx, EndpointStatus)
	if err != nil {
		return simulation.SystemStatus{}, err
	}
	return ParseSystemStatus(body)
}

// GetTicketStatus retrieves the inventory summary.
func (c *Client) GetTicketStatus(ctx context.Context) (simulation.TicketStatus, error) {
	body, err := c.Get(ctx, EndpointTickets)
	if err != nil {
		return simulation.TicketStatus{}, err
	}
	return ParseTicketStatus(body)
}

// GetSales retrieves cumulative ticket sales.
func (c *Client) GetSales(ctx context.Context) (float64, error) {
	body, err := c.Get(ctx, EndpointSales)
	if err != nil {
		return 0, err
	}
	return ParseSales(body)
}

// GetLogs retrieves the activity log.
func (c *Client) GetLogs(ctx context.Context) ([]simulation.LogEntry, error) {
	body, err := c.Get(ctx, EndpointLogs)
	if err != nil {
		return nil, err
	}
	return ParseLogs(body)
}

// doRequest performs an HTTP request and returns the body of a 2xx response.
// Failures are typed: no answer is a transport error, a non-2xx answer a server error.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values) ([]byte, error) {
	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, errors.NewTransportError("invalid request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(c.requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debugw("ticket service unreachable",
			"method", method,
			"endpoint", endpoint,
			"request_id", requestID,
			"error", err,
		)
		return nil, errors.NewTransportError("ticket service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.NewTransportError("failed to read response", err)
	}

	c.logger.Debugw("ticket service request",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewServerError(resp.StatusCode, messageFromBody(body))
	}
	return body, nil
}

// messageFromBody extracts the backend's message from an error body, if it has one.
func messageFromBody(body []byte) string {
	var envelope MessageResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return ""
}
