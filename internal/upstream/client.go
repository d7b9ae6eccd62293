// Package upstream talks to the prime status feed and the drop-search
// service. Every call walks an ordered candidate list so a broken
// endpoint never blocks a working fallback.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/meur/reliquary/internal/models"
)

const (
	statusFallbackPath = "/api/prime/status"
	searchFallbackPath = "/api/drop/search"
	defaultTimeout     = 10 * time.Second
)

// Client is the HTTP client for both upstream services.
type Client struct {
	httpClient *http.Client
	statusURL  string
	searchURL  string
	publicHost string
	baseURL    string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout sets the per-candidate request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client for the configured endpoints. statusURL and
// searchURL may be absolute or relative; relative values resolve against
// baseURL. publicHost drives the static-host proxy heuristic.
func NewClient(statusURL, searchURL, publicHost, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		statusURL:  statusURL,
		searchURL:  searchURL,
		publicHost: publicHost,
		baseURL:    baseURL,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchStatus retrieves the raw status feed, trying each candidate in
// order. Exhausting every candidate yields an unavailable error carrying
// the last observed failure; a partial or empty result is never returned
// silently.
func (c *Client) FetchStatus(ctx context.Context) ([]models.RawStatusRecord, error) {
	candidates := Candidates(c.statusURL, statusFallbackPath, c.publicHost, c.baseURL)
	if len(candidates) == 0 {
		return nil, errNoCandidates("status feed")
	}
	var lastErr error
	for _, u := range candidates {
		body, err := c.attempt(ctx, http.MethodGet, u, nil)
		if err != nil {
			lastErr = err
			log.Debug().Err(err).Str("url", u).Msg("Status candidate failed")
			continue
		}
		var records []models.RawStatusRecord
		if err := json.Unmarshal(body, &records); err != nil {
			lastErr = fmt.Errorf("decode status feed from %s: %w", u, err)
			continue
		}
		return records, nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg("prime status feed unavailable").
		WithCause(lastErr)
}

// SearchDrops posts the de-duplicated external id batch and returns the
// response verbatim.
func (c *Client) SearchDrops(ctx context.Context, externalIDs []int64) (models.DropSearchResult, error) {
	payload, err := json.Marshal(models.DropSearchRequest{Data: externalIDs})
	if err != nil {
		return nil, fmt.Errorf("encode drop search request: %w", err)
	}

	candidates := Candidates(c.searchURL, searchFallbackPath, c.publicHost, c.baseURL)
	if len(candidates) == 0 {
		return nil, errNoCandidates("drop search")
	}
	var lastErr error
	for _, u := range candidates {
		body, err := c.attempt(ctx, http.MethodPost, u, payload)
		if err != nil {
			lastErr = err
			log.Debug().Err(err).Str("url", u).Msg("Drop search candidate failed")
			continue
		}
		if !json.Valid(body) {
			lastErr = fmt.Errorf("invalid drop search response from %s", u)
			continue
		}
		return models.DropSearchResult(body), nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg("drop search request failed").
		WithCause(lastErr)
}

// errNoCandidates reports a configuration with nothing to try: a
// relative endpoint was configured with no API base URL to resolve it
// against (only a browser can resolve one against its own origin).
func errNoCandidates(what string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(fmt.Sprintf("no %s endpoints resolved: relative endpoint configured without an api base url", what))
}

// attempt issues one request under the per-candidate timeout. Any
// non-2xx status or transport error is returned for the caller to
// classify as "try next candidate".
func (c *Client) attempt(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("status=%d url=%s", resp.StatusCode, url)
	}
	return data, nil
}
