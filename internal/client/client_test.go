// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/eventsieve/internal/models"
)

const okBody = `{"success":true,"data":{"pageInfo":{"hasNextPage":true,"endCursor":"abc"},"nodes":[{"id":"1","title":"Go Night","dateTime":"2026-03-15T18:00-04:00","rsvpState":"OPEN","isSaved":false}]},"meta":{"timestamp":"2026-03-01T00:00:00Z"}}`

func TestNew_ServerURL(t *testing.T) {
	t.Setenv(ServerURLEnv, "")
	if got := New("").BaseURL(); got != DefaultServerURL {
		t.Errorf("default = %q", got)
	}

	t.Setenv(ServerURLEnv, "http://events.internal:9000/")
	if got := New("").BaseURL(); got != "http://events.internal:9000" {
		t.Errorf("env = %q", got)
	}
	if got := New("http://explicit:1").BaseURL(); got != "http://explicit:1" {
		t.Errorf("explicit = %q", got)
	}
}

func TestNew_Timeout(t *testing.T) {
	t.Setenv(TimeoutEnv, "90s")
	if got := New("").httpClient.Timeout.Seconds(); got != 90 {
		t.Errorf("timeout = %vs", got)
	}
	t.Setenv(TimeoutEnv, "soon")
	if got := New("").httpClient.Timeout; got != defaultTimeout {
		t.Errorf("invalid env timeout = %v", got)
	}
}

func TestSearch_PostsBody(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/meetup/search" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("body: %v", err)
		}
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Search(context.Background(), models.SearchRequest{Query: "golang", PerPage: 5, Exclude: []string{"crypto"}})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotBody["query"] != "golang" || gotBody["per_page"] != float64(5) {
		t.Errorf("body = %v", gotBody)
	}
	if _, ok := gotBody["page"]; ok {
		t.Error("zero page was sent; the server would reject it")
	}
	if len(resp.Nodes) != 1 || resp.Nodes[0].Title != "Go Night" {
		t.Errorf("nodes = %+v", resp.Nodes)
	}
	if !resp.PageInfo.HasNextPage || resp.PageInfo.EndCursor == nil || *resp.PageInfo.EndCursor != "abc" {
		t.Errorf("pageInfo = %+v", resp.PageInfo)
	}
}

func TestGetEndpoints_QueryParams(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RequestURI())
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	if _, err := c.TechEvents(ctx, 2, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := c.TechEvents(ctx, 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Today(ctx, "cur"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Recommended(ctx, "2026-03-01", "2026-03-07"); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"/tech-events?page=2&per_page=3",
		"/tech-events",
		"/today?after=cur",
		"/recommended?end_date=2026-03-07&start_date=2026-03-01",
	}
	if len(got) != len(want) {
		t.Fatalf("requests = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "error envelope",
			status:   http.StatusBadRequest,
			body:     `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"page must be at least 1","request_id":"r1"}}`,
			wantCode: "VALIDATION_ERROR",
			wantMsg:  "page must be at least 1",
		},
		{
			name:    "non-json body",
			status:  http.StatusBadGateway,
			body:    "bad gateway\n",
			wantMsg: "bad gateway",
		},
		{
			name:    "error status without error object",
			status:  http.StatusServiceUnavailable,
			body:    `{"success":false}`,
			wantMsg: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL).TechEvents(context.Background(), 1, 3)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Code != tt.wantCode || apiErr.Message != tt.wantMsg {
				t.Errorf("APIError = %+v", apiErr)
			}
		})
	}
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(url).Today(context.Background(), ""); err == nil {
		t.Fatal("expected an error for a closed server")
	}
}
