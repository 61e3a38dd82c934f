// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the channel reader and
// the search transports.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/talent-radar/pkg/types"
)

// DefaultTimeout applies when an HTTPConfig leaves Timeout unset.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent applies when an HTTPConfig leaves UserAgent unset.
const DefaultUserAgent = "talent-radar/0.1"

// MaxBodyBytes caps how much of a response body Get reads. Declared as a var
// so tests can lower it.
var MaxBodyBytes int64 = 4 << 20

// StatusError reports a response outside the 2xx range. It wraps
// types.ErrBackendFailure.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned HTTP %d", e.URL, e.Code)
}

func (e *StatusError) Unwrap() error { return types.ErrBackendFailure }

// NewClient returns a client with the configured timeout.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// UserAgent returns the configured agent or DefaultUserAgent.
func UserAgent(cfg types.HTTPConfig) string {
	if cfg.UserAgent == "" {
		return DefaultUserAgent
	}
	return cfg.UserAgent
}

// Get fetches rawURL and returns the body. A nil client uses
// http.DefaultClient. Non-2xx responses return a *StatusError; there are no
// retries.
func Get(ctx context.Context, client *http.Client, rawURL string, header http.Header) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodyBytes))
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return body, nil
}
