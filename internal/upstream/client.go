// Package upstream is the shared HTTP transport for the external
// retrieval and generation services.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
)

const maxResponseBytes = 8 << 20

// Options configure a Client. A zero RequestsPerSecond disables limiting.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

// Client posts JSON to one external service. Every failure is reported as
// an UpstreamUnavailableError carrying the service name.
type Client struct {
	service string
	hc      *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client for the named service.
func NewClient(service string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return &Client{service: service, hc: hc, limiter: limiter}
}

// PostJSON marshals body, posts it to url and returns the raw 2xx body.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", c.service, err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, internalErrors.NewUpstreamUnavailableError(c.service, 0, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, internalErrors.NewUpstreamUnavailableError(c.service, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		logger.Warn("upstream request failed", "service", c.service, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, internalErrors.NewUpstreamUnavailableError(c.service, 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, internalErrors.NewUpstreamUnavailableError(c.service, resp.StatusCode, err)
	}

	logger.Debug("upstream response", "service", c.service, "status", resp.StatusCode, "bytes", len(data), "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, internalErrors.NewUpstreamUnavailableError(c.service, resp.StatusCode, fmt.Errorf("%s", snippet(data)))
	}
	return data, nil
}

func snippet(data []byte) string {
	const maxSnippet = 300
	s := string(bytes.TrimSpace(data))
	if len(s) > maxSnippet {
		s = s[:maxSnippet] + "..."
	}
	if s == "" {
		s = "empty body"
	}
	return s
}
