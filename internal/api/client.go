package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vxhub/vxhub-cli/internal/debug"
	"github.com/vxhub/vxhub-cli/internal/providers"
	"github.com/vxhub/vxhub-cli/internal/session"
	"github.com/vxhub/vxhub-cli/internal/validation"
)

// ErrMissingBaseURL signals a build misconfiguration: without an API base URL
// the client cannot function at all, so this is fatal at startup rather than
// a per-request condition.
var ErrMissingBaseURL = errors.New("hub API base URL is not configured")

// Client is the VxHub API client. One method group per backend operation,
// reachable through the service accessors in services.go.
//
// All Client instances share one pooled HTTP client (see SharedHTTPClient)
// unless HTTP is replaced before the first request.
type Client struct {
	BaseURL      string
	Session      *session.State
	Providers    *providers.Registry
	HTTP         *http.Client
	RouterConfig RouterConfig

	// OnRegister is invoked after a successful device registration with the
	// decoded payload and the server's untyped remote-config bag.
	OnRegister func(*RegisterResponse, session.RemoteConfig)
}

// New creates a VxHub API client. An absent or invalid base URL is a fatal
// configuration error.
func New(baseURL string, sess *session.State) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if err := validation.ValidateHubURL(baseURL); err != nil {
		return nil, fmt.Errorf("invalid hub base URL: %w", err)
	}

	return &Client{
		BaseURL:      strings.TrimSuffix(baseURL, "/"),
		Session:      sess,
		Providers:    providers.Default(),
		HTTP:         SharedHTTPClient(),
		RouterConfig: DefaultRouterConfig(),
	}, nil
}

// buildRequest turns an endpoint description into a fully-formed request:
// absolute URL, verb, identity headers reflecting current session state,
// cache bypass, and encoded parameters. Any failure propagates synchronously;
// a partially-built request is never returned.
func (c *Client) buildRequest(ep Endpoint) (*builtRequest, error) {
	if _, ok := routes[ep.op]; !ok {
		return nil, fmt.Errorf("unknown operation %q", ep.op)
	}

	base := c.BaseURL
	if ep.External() {
		base = appStoreBaseURL
	}

	br := &builtRequest{
		method: ep.Method(),
		url:    base + "/" + ep.Path(),
		header: make(http.Header),
	}
	br.header.Set("Cache-Control", "no-store")

	if !ep.External() {
		br.header.Set("X-Hub-Id", c.Session.HubID())
		br.header.Set("X-Hub-Device-Id", c.Session.DeviceID())
		if vid := c.Session.VID(); vid != "" {
			br.header.Set("X-Hub-Vid", vid)
		}
	}
	for key, value := range ep.headers {
		br.header.Set(key, value)
	}

	if len(ep.body) == 0 && len(ep.query) == 0 {
		br.header.Set("Content-Type", "application/json")
		return br, nil
	}

	if err := encodeParameters(br, ep.body, ep.query, ep.Encoding()); err != nil {
		return nil, err
	}
	return br, nil
}

// httpRequest materializes an attempt with a fresh body reader.
func (br *builtRequest) httpRequest(ctx context.Context) (*http.Request, error) {
	var reader io.Reader
	if br.body != nil {
		reader = bytes.NewReader(br.body)
	}
	req, err := http.NewRequestWithContext(ctx, br.method, br.url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = br.header.Clone()
	return req, nil
}

// Do builds and executes the endpoint's request, retrying transport failures
// up to the configured budget with a fixed delay. Delivered HTTP responses,
// including 4xx/5xx, are returned as-is and never retried: server-rejected
// requests are not safe to blindly re-issue. On exhaustion the last transport
// error is returned wrapped in a ConnectivityError. Cancelling ctx also
// cancels any pending retry delay.
func (c *Client) Do(ctx context.Context, ep Endpoint) ([]byte, *http.Response, error) {
	br, err := c.buildRequest(ep)
	if err != nil {
		return nil, nil, err
	}
	c.logRequest(ctx, br)

	cfg := c.RouterConfig
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, cfg.RetryDelay); err != nil {
				return nil, nil, err
			}
		}

		req, err := br.httpRequest(ctx)
		if err != nil {
			return nil, nil, err
		}

		start := time.Now()
		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			if debug.IsEnabled(ctx) {
				slog.Debug("request failed", "method", br.method, "url", br.url, "attempt", attempt+1, "error", err)
			}
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			// A truncated body is a transport failure like a failed dial:
			// headers arrived but the connection died mid-response.
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			if debug.IsEnabled(ctx) {
				slog.Debug("response read failed", "method", br.method, "url", br.url, "attempt", attempt+1, "error", readErr)
			}
			continue
		}
		if debug.IsEnabled(ctx) {
			slog.Debug("request complete", "method", br.method, "url", br.url,
				"status", resp.StatusCode, "attempt", attempt+1, "duration", time.Since(start))
		}
		return data, resp, nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown transport failure")
	}
	return nil, nil, &ConnectivityError{Err: lastErr}
}

// logRequest logs the outgoing request before dispatch. Observable side
// effect, emitted once per top-level call regardless of retries.
func (c *Client) logRequest(ctx context.Context, br *builtRequest) {
	if !debug.IsEnabled(ctx) {
		return
	}
	parsed, err := url.Parse(br.url)
	if err != nil {
		return
	}
	slog.Debug("dispatching request",
		"method", br.method,
		"host", parsed.Host,
		"path", parsed.Path,
		"query", parsed.RawQuery,
		"headers", br.header,
		"body", string(br.body),
	)
}
