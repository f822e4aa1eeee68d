package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/YousefAboschwaly/ecommerce-V2/pkg/errors"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/httpclient"
)

// Doer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it; tests can substitute either.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Config holds commerce API client configuration.
type Config struct {
	// BaseURL is the root of the commerce API, e.g. "https://ecommerce.routemisr.com".
	BaseURL string

	// ServiceName labels errors and log lines originating from this upstream.
	ServiceName string
}

// Client is a typed client for the third-party commerce REST API. It is the
// only component that speaks the upstream wire format; everything above it
// works with domain types.
//
// Authentication is a bare session token sent in the "token" header. The
// token is passed per call rather than held on the client so that a single
// client instance serves all storefront sessions.
type Client struct {
	cfg    Config
	http   Doer
	logger *slog.Logger
}

// New creates a commerce API client on top of the given HTTP doer.
func New(cfg Config, doer Doer, logger *slog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "commerce-api"
	}
	return &Client{cfg: cfg, http: doer, logger: logger}
}

// NewDefault creates a commerce API client with a retrying HTTP client
// wrapped in a circuit breaker, the standard production setup.
func NewDefault(cfg Config, logger *slog.Logger) *Client {
	base := httpclient.New(httpclient.DefaultConfig())
	breaker := httpclient.NewCircuitBreakerClient(
		base,
		httpclient.DefaultCircuitBreakerConfig(cfg.ServiceName),
		logger,
	)
	return New(cfg, breaker, logger)
}

// do performs one upstream round trip: builds the request, attaches the
// token header, checks the HTTP status, and decodes the body into out.
// It does NOT check the envelope status; callers do that because the success
// marker differs between endpoints.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "commerce api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return apperrors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, c.cfg.ServiceName)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// envelopeError builds the error for a 2xx response whose envelope status
// was not "success".
func (c *Client) envelopeError(op, status string) error {
	return apperrors.Upstream(fmt.Sprintf("%s: %s returned status %q", c.cfg.ServiceName, op, status))
}
