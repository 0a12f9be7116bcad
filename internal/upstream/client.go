// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/eventsieve/internal/config"
	"github.com/tomtom215/eventsieve/internal/models"
)

// maxErrorBodySize limits the amount of response body kept for error reporting.
const maxErrorBodySize = 64 * 1024

// maxResponseSize bounds a successful response body.
const maxResponseSize = 16 << 20

// readBodyForError reads at most maxErrorBodySize bytes of r for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// StatusError is a non-200 response from the provider.
type StatusError struct {
	Operation  string
	StatusCode int
	RetryAfter time.Duration // zero when the header was absent or unparseable
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Client performs single GraphQL round trips. It has no retry or breaker
// logic of its own; Fetcher layers those on top.
type Client struct {
	cfg        *config.UpstreamConfig
	loc        *time.Location
	httpClient *http.Client
}

// NewClient creates a client for the configured endpoints.
func NewClient(cfg *config.UpstreamConfig) *Client {
	return &Client{
		cfg: cfg,
		loc: cfg.Location(),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// FetchPage runs q once and decodes the page.
func (c *Client) FetchPage(ctx context.Context, q models.Query) (models.Page, error) {
	endpoint, body := buildRequest(c.cfg, c.loc, q)

	data, err := c.execute(ctx, endpoint, body)
	if err != nil {
		return models.Page{}, err
	}

	if q.Operation == models.OperationRecommended {
		var rd recommendedData
		if err := json.Unmarshal(data, &rd); err != nil {
			return models.Page{}, fmt.Errorf("decode %s data: %w", body.OperationName, err)
		}
		return rd.page(), nil
	}

	var kd keywordSearchData
	if err := json.Unmarshal(data, &kd); err != nil {
		return models.Page{}, fmt.Errorf("decode %s data: %w", body.OperationName, err)
	}
	return kd.page(), nil
}

// execute posts body to endpoint and returns the data member of the response.
func (c *Client) execute(ctx context.Context, endpoint string, body graphQLRequest) (json.RawMessage, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.Cookie != "" {
		req.Header.Set("Cookie", c.cfg.Cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", body.OperationName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Operation:  body.OperationName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Body:       strings.TrimSpace(string(readBodyForError(resp.Body))),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", body.OperationName, err)
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(raw, &gqlResp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", body.OperationName, err)
	}

	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, &GraphQLError{Operation: body.OperationName, Messages: msgs}
	}

	if len(gqlResp.Data) == 0 || bytes.Equal(gqlResp.Data, []byte("null")) {
		return nil, fmt.Errorf("%s response has no data", body.OperationName)
	}
	return gqlResp.Data, nil
}

// parseRetryAfter understands the delay-seconds form of Retry-After.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
