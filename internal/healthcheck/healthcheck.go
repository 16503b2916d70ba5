package healthcheck

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultTimeout bounds a single upstream check.
const DefaultTimeout = 2 * time.Second

const upstreamHost = "localhost"

// Checker issues liveness checks against the upstream root path. It is safe
// for concurrent use and must be released with Close.
type Checker struct {
	target    *url.URL
	timeout   time.Duration
	transport *http.Transport
	client    *http.Client
}

// New creates a Checker for http://localhost:<port>/ with the given bound.
// A non-positive timeout falls back to DefaultTimeout.
func New(port int, timeout time.Duration) (*Checker, error) {
	if err := validation.Validate(port, validation.Required, validation.Min(1), validation.Max(65535)); err != nil {
		return nil, fmt.Errorf("upstream port %d: %w", port, err)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy: nil,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	return &Checker{
		target: &url.URL{
			Scheme: "http",
			Host:   net.JoinHostPort(upstreamHost, strconv.Itoa(port)),
			Path:   "/",
		},
		timeout:   timeout,
		transport: transport,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}, nil
}

// URL returns the upstream root URL being checked.
func (c *Checker) URL() *url.URL {
	return c.target
}

// Timeout returns the bound applied to every check.
func (c *Checker) Timeout() time.Duration {
	return c.timeout
}

// Check sends HEAD / to the upstream and classifies the outcome. It never
// takes longer than the configured timeout and never returns an error to the
// caller; failures are folded into Unreachable.
func (c *Checker) Check(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.target.String(), nil)
	if err != nil {
		return Result{Status: Unreachable, Err: fmt.Errorf("build upstream request: %w", err)}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return Result{Status: Unreachable, Err: err}
	}
	defer res.Body.Close()

	// Drain so the connection goes back to the pool.
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode == http.StatusOK {
		return Result{Status: Reachable, StatusCode: res.StatusCode}
	}

	return Result{Status: Degraded, StatusCode: res.StatusCode}
}

// Close releases pooled upstream connections.
func (c *Checker) Close() {
	c.transport.CloseIdleConnections()
}
