// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

// Package client calls the EventSieve HTTP API and unwraps its response
// envelope.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/eventsieve/internal/models"
)

const (
	// ServerURLEnv overrides the default server address.
	ServerURLEnv = "EVENTSIEVE_SERVER_URL"

	// TimeoutEnv overrides the default request timeout, e.g. "90s".
	TimeoutEnv = "EVENTSIEVE_CLIENT_TIMEOUT"

	// DefaultServerURL is used when neither an explicit URL nor the
	// environment names one.
	DefaultServerURL = "http://localhost:8080"

	defaultTimeout = time.Minute
	maxErrorBody   = 4096
)

// Client talks to one EventSieve server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. An empty baseURL falls back to
// EVENTSIEVE_SERVER_URL and then to DefaultServerURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv(ServerURLEnv)
	}
	if baseURL == "" {
		baseURL = DefaultServerURL
	}

	timeout := defaultTimeout
	if t := os.Getenv(TimeoutEnv); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			timeout = d
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server address requests go to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-success envelope returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

// searchBody omits zero page fields so the server applies its defaults.
type searchBody struct {
	Query     string   `json:"query"`
	Page      int      `json:"page,omitempty"`
	PerPage   int      `json:"per_page,omitempty"`
	After     string   `json:"after,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Exclude   []string `json:"exclude,omitempty"`
}

// Search runs a keyword search.
func (c *Client) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	body, err := json.Marshal(searchBody(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/meetup/search", nil, body)
}

// TechEvents fetches a page of the merged tech-events feed. Zero values
// use the server defaults.
func (c *Client) TechEvents(ctx context.Context, page, perPage int) (*models.SearchResponse, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	return c.do(ctx, http.MethodGet, "/tech-events", q, nil)
}

// Today fetches the rest of today's events, continuing from after when set.
func (c *Client) Today(ctx context.Context, after string) (*models.SearchResponse, error) {
	q := url.Values{}
	if after != "" {
		q.Set("after", after)
	}
	return c.do(ctx, http.MethodGet, "/today", q, nil)
}

// Recommended fetches recommended events between two dates.
func (c *Client) Recommended(ctx context.Context, startDate, endDate string) (*models.SearchResponse, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	return c.do(ctx, http.MethodGet, "/recommended", q, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*models.SearchResponse, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.RequestID = env.Error.RequestID
		}
		return nil, apiErr
	}

	var out models.SearchResponse
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal data: %w", err)
	}
	return &out, nil
}
