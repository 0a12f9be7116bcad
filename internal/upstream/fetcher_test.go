// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/eventsieve/internal/config"
	"github.com/tomtom215/eventsieve/internal/metrics"
	"github.com/tomtom215/eventsieve/internal/models"
)

const keywordPage = `{
  "data": {
    "results": {
      "pageInfo": {"hasNextPage": true, "endCursor": "cursor-2"},
      "count": 2,
      "edges": [
        {"node": {"id": "n1", "result": {
          "id": "101", "title": "Go Meetup", "dateTime": "2026-03-15T18:00:00-04:00",
          "rsvpState": "JOIN_OPEN", "isAttending": false, "isSaved": true, "going": 42,
          "eventUrl": "https://example.com/e/101",
          "venue": {"id": "v1", "name": "Hall", "city": "Toronto", "lat": 43.6, "lng": -79.4},
          "group": {"name": "Gophers"}
        }}},
        {"node": {"id": "102", "result": {
          "title": "Closed Event", "dateTime": "2026-03-16T18:00:00-04:00",
          "rsvpState": "CLOSED", "going": null
        }}}
      ]
    }
  }
}`

const recommendedPage = `{
  "data": {
    "result": {
      "pageInfo": {"hasNextPage": false, "endCursor": null},
      "totalCount": 1,
      "edges": [
        {"node": {
          "id": "201", "title": "Rust Night", "dateTime": "2026-03-17T19:00:00-04:00",
          "rsvpState": "JOIN_APPROVAL", "going": {"totalCount": 7},
          "feeSettings": {"currency": "CAD"}
        }}
      ]
    }
  }
}`

func testConfig(url string) *config.UpstreamConfig {
	return &config.UpstreamConfig{
		URL:            url + "/gql",
		RecommendedURL: url + "/gql2",
		Timeout:        5 * time.Second,
		Operation:      "eventKeywordSearch",
		Lat:            43.74,
		Lon:            -79.36,
		City:           "Toronto",
		State:          "ON",
		Country:        "ca",
		Timezone:       "US/Eastern",
		EventType:      "PHYSICAL",
		PageSize:       20,
		UserAgent:      "eventsieve-test",
		Retry:          config.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
		Breaker: config.BreakerConfig{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      time.Minute,
			MinRequests:  100,
			FailureRatio: 1,
		},
	}
}

// decodeBody reads the request body into a generic map.
func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestFetch_KeywordSearch(t *testing.T) {
	var body map[string]any
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/gql" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		headers = r.Header.Clone()
		body = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, keywordPage)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL))
	start := time.Date(2026, 3, 15, 4, 0, 0, 0, time.UTC)
	page, err := f.Fetch(context.Background(), models.Query{
		Operation: models.OperationKeywordSearch,
		Text:      "golang",
		StartDate: start,
		Cursor:    "cursor-1",
		PageSize:  10,
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if body["operationName"] != "eventKeywordSearch" {
		t.Errorf("operationName = %v", body["operationName"])
	}
	if q, _ := body["query"].(string); !strings.HasPrefix(q, "query eventKeywordSearch") {
		t.Errorf("query text missing")
	}
	vars, _ := body["variables"].(map[string]any)
	if vars["query"] != "golang" || vars["after"] != "cursor-1" || vars["first"] != float64(10) {
		t.Errorf("variables = %v", vars)
	}
	if got := vars["startDateRange"]; got != "2026-03-15T00:00:00-04:00[US/Eastern]" {
		t.Errorf("startDateRange = %v", got)
	}
	if _, ok := vars["endDateRange"]; ok {
		t.Error("endDateRange sent for an open-ended query")
	}
	if headers.Get("User-Agent") != "eventsieve-test" {
		t.Errorf("User-Agent = %q", headers.Get("User-Agent"))
	}

	if len(page.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(page.Records))
	}
	first := page.Records[0]
	if first.ID != "101" || first.RsvpState != models.RsvpOpen || first.Going != 42 || !first.IsSaved {
		t.Errorf("first record = %+v", first)
	}
	if first.IsAttending == nil || *first.IsAttending {
		t.Errorf("IsAttending = %v, want false", first.IsAttending)
	}
	if first.Venue == nil || first.Venue.City != "Toronto" || first.GroupName != "Gophers" {
		t.Errorf("venue/group = %+v / %q", first.Venue, first.GroupName)
	}
	second := page.Records[1]
	if second.ID != "102" || second.RsvpState != models.RsvpClosed || second.IsAttending != nil {
		t.Errorf("second record = %+v", second)
	}
	if !page.HasMore || page.NextCursor != "cursor-2" {
		t.Errorf("page info = %v %q", page.HasMore, page.NextCursor)
	}
}

func TestFetch_Recommended(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gql2" {
			t.Errorf("path = %s, want /gql2", r.URL.Path)
		}
		body = decodeBody(t, r)
		_, _ = io.WriteString(w, recommendedPage)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL))
	loc, _ := time.LoadLocation("US/Eastern")
	page, err := f.Fetch(context.Background(), models.Query{
		Operation: models.OperationRecommended,
		StartDate: time.Date(2026, 3, 15, 0, 0, 0, 0, loc),
		EndDate:   time.Date(2026, 3, 16, 0, 0, 0, 0, loc),
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if _, ok := body["query"]; ok {
		t.Error("persisted query must not send query text")
	}
	ext, _ := body["extensions"].(map[string]any)
	pq, _ := ext["persistedQuery"].(map[string]any)
	if pq["sha256Hash"] != recommendedQueryHash || pq["version"] != float64(1) {
		t.Errorf("persistedQuery = %v", pq)
	}
	vars, _ := body["variables"].(map[string]any)
	if vars["indexAlias"] != recommendedIndexAlias || vars["first"] != float64(20) {
		t.Errorf("variables = %v", vars)
	}
	if vars["endDateRange"] != "2026-03-16T00:00:00-04:00[US/Eastern]" {
		t.Errorf("endDateRange = %v", vars["endDateRange"])
	}

	if len(page.Records) != 1 {
		t.Fatalf("records = %d", len(page.Records))
	}
	ev := page.Records[0]
	if ev.RsvpState != models.RsvpNeedsApproval || ev.Going != 7 || ev.Currency != "CAD" {
		t.Errorf("record = %+v", ev)
	}
	if page.HasMore || page.NextCursor != "" {
		t.Errorf("page info = %v %q", page.HasMore, page.NextCursor)
	}
}

func TestFetch_GraphQLErrorIsFinal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"data": null, "errors": [{"message": "bad cursor"}, {"message": "try again"}]}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Retry.MaxAttempts = 3
	_, err := NewFetcher(cfg).Fetch(context.Background(), models.Query{Operation: models.OperationKeywordSearch, Text: "go"})

	var gqlErr *GraphQLError
	if !errors.As(err, &gqlErr) {
		t.Fatalf("error = %v, want GraphQLError", err)
	}
	if len(gqlErr.Messages) != 2 || !strings.Contains(err.Error(), "bad cursor") {
		t.Errorf("error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetch_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, keywordPage)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Retry.MaxAttempts = 3
	op := string(models.OperationKeywordSearch)
	before := testutil.ToFloat64(metrics.UpstreamRetries.WithLabelValues(op, reasonServerError))

	page, err := NewFetcher(cfg).Fetch(context.Background(), models.Query{Operation: models.OperationKeywordSearch, Text: "go"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(page.Records) != 2 {
		t.Errorf("records = %d", len(page.Records))
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if d := testutil.ToFloat64(metrics.UpstreamRetries.WithLabelValues(op, reasonServerError)) - before; d != 2 {
		t.Errorf("retry metric delta = %v, want 2", d)
	}
}

func TestFetch_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Retry.MaxAttempts = 2
	_, err := NewFetcher(cfg).Fetch(context.Background(), models.Query{Operation: models.OperationKeywordSearch, Text: "go"})

	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("error = %v, want 429 StatusError", err)
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestFetch_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewFetcher(testConfig(srv.URL)).Fetch(context.Background(), models.Query{Operation: models.OperationKeywordSearch})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetch_ClientErrorIsFinal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Retry.MaxAttempts = 3
	_, err := NewFetcher(cfg).Fetch(context.Background(), models.Query{Operation: models.OperationKeywordSearch})

	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest || se.Body != "bad request" {
		t.Fatalf("error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetch_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>not json</html>`)
	}))
	defer srv.Close()

	_, err := NewFetcher(testConfig(srv.URL)).Fetch(context.Background(), models.Query{Operation: models.OperationKeywordSearch})
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("error = %v", err)
	}
}

func TestFetch_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Breaker.MinRequests = 2
	cfg.Breaker.FailureRatio = 0.5
	f := NewFetcher(cfg)
	q := models.Query{Operation: models.OperationKeywordSearch}

	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), q); err == nil || errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("call %d: error = %v", i, err)
		}
	}
	if f.BreakerState() != "open" {
		t.Fatalf("BreakerState = %q, want open", f.BreakerState())
	}

	_, err := f.Fetch(context.Background(), q)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("error = %v, want ErrCircuitOpen", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (open breaker must not reach the server)", calls.Load())
	}
}

func TestFetch_CallerErrorsLeaveBreakerClosed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"graphql errors", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"errors": [{"message": "invalid cursor"}]}`)
		}},
		{"bad request", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad request", http.StatusBadRequest)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			cfg := testConfig(srv.URL)
			cfg.Breaker.MinRequests = 2
			cfg.Breaker.FailureRatio = 0.5
			f := NewFetcher(cfg)
			q := models.Query{Operation: models.OperationKeywordSearch, Cursor: "bogus"}

			for i := 0; i < 10; i++ {
				if _, err := f.Fetch(context.Background(), q); err == nil || errors.Is(err, ErrCircuitOpen) {
					t.Fatalf("call %d: error = %v", i, err)
				}
			}
			if f.BreakerState() != "closed" {
				t.Errorf("BreakerState = %q, want closed", f.BreakerState())
			}
		})
	}
}

func TestFetch_CanceledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Retry = config.RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewFetcher(cfg).Fetch(ctx, models.Query{Operation: models.OperationKeywordSearch})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("backoff ignored cancellation")
	}
}

func TestFetch_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, recommendedPage)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.RequestsPerSecond = 20
	cfg.Burst = 1
	f := NewFetcher(cfg)
	q := models.Query{Operation: models.OperationRecommended}

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), q); err != nil {
			t.Fatal(err)
		}
	}
	// Burst 1 at 20/s: the second and third calls wait ~50ms each.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("elapsed = %v, limiter did not pace requests", elapsed)
	}
}
