// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/eventsieve/internal/config"
	"github.com/tomtom215/eventsieve/internal/models"
)

func TestFlexCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`{"going": 12}`, 12},
		{`{"going": null}`, 0},
		{`{}`, 0},
		{`{"going": {"totalCount": 5}}`, 5},
		{`{"going": {"count": 3}}`, 3},
		{`{"going": {}}`, 0},
	}
	for _, tt := range tests {
		var v struct {
			Going flexCount `json:"going"`
		}
		if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.in, err)
			continue
		}
		if int(v.Going) != tt.want {
			t.Errorf("Unmarshal(%s) = %d, want %d", tt.in, v.Going, tt.want)
		}
	}

	var bad struct {
		Going flexCount `json:"going"`
	}
	if err := json.Unmarshal([]byte(`{"going": "many"}`), &bad); err == nil {
		t.Error("expected error for string count")
	}
}

func TestNormalizeRsvp(t *testing.T) {
	tests := map[string]models.RsvpState{
		"JOIN_OPEN":     models.RsvpOpen,
		"join_open":     models.RsvpOpen,
		"CLOSED":        models.RsvpClosed,
		"JOIN_APPROVAL": models.RsvpNeedsApproval,
		"NOT_OPEN_YET":  models.RsvpNotYetOpen,
		"WAITLIST":      models.RsvpState("WAITLIST"),
	}
	for in, want := range tests {
		if got := normalizeRsvp(in); got != want {
			t.Errorf("normalizeRsvp(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPageInfo_MissingCursorEndsTraversal(t *testing.T) {
	page := wirePageInfo{HasNextPage: true}.toPage(nil)
	if page.HasMore {
		t.Error("HasMore without a cursor must be false")
	}
	empty := ""
	if page := (wirePageInfo{HasNextPage: true, EndCursor: &empty}).toPage(nil); page.HasMore {
		t.Error("HasMore with an empty cursor must be false")
	}
}

func TestFormatZoned(t *testing.T) {
	loc, err := time.LoadLocation("US/Eastern")
	if err != nil {
		t.Fatal(err)
	}
	summer := time.Date(2026, 7, 1, 16, 0, 0, 0, time.UTC)
	if got := formatZoned(summer, loc); got != "2026-07-01T12:00:00-04:00[US/Eastern]" {
		t.Errorf("formatZoned(summer) = %q", got)
	}
	winter := time.Date(2026, 1, 10, 17, 0, 0, 0, time.UTC)
	if got := formatZoned(winter, loc); got != "2026-01-10T12:00:00-05:00[US/Eastern]" {
		t.Errorf("formatZoned(winter) = %q", got)
	}
}

func TestVariables_KeywordDefaults(t *testing.T) {
	cfg := testConfig("http://example.invalid")
	vars := variables(cfg, time.UTC, models.Query{Operation: models.OperationKeywordSearch, Text: "go"})

	if vars["first"] != 20 {
		t.Errorf("first = %v, want config page size", vars["first"])
	}
	if _, ok := vars["after"]; ok {
		t.Error("after set for the first page")
	}
	if vars["eventType"] != "PHYSICAL" || vars["city"] != "Toronto" {
		t.Errorf("origin variables = %v", vars)
	}
	if src, _ := vars["source"].([]string); len(src) != 1 || src[0] != "EVENTS" {
		t.Errorf("source = %v", vars["source"])
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		reason    string
		transient bool
	}{
		{"nil", nil, "", false},
		{"canceled", context.Canceled, "", false},
		{"deadline", fmt.Errorf("wrap: %w", context.DeadlineExceeded), "", false},
		{"429", &StatusError{StatusCode: http.StatusTooManyRequests}, reasonRateLimited, true},
		{"502", &StatusError{StatusCode: http.StatusBadGateway}, reasonServerError, true},
		{"404", &StatusError{StatusCode: http.StatusNotFound}, "", false},
		{"network", fmt.Errorf("post: %w", timeoutErr{}), reasonNetwork, true},
		{"graphql", &GraphQLError{Messages: []string{"x"}}, "", false},
		{"other", errors.New("decode failed"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, transient := classify(tt.err)
			if reason != tt.reason || transient != tt.transient {
				t.Errorf("classify = %q, %v; want %q, %v", reason, transient, tt.reason, tt.transient)
			}
		})
	}
}

func TestCallerFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, true},
		{"deadline", fmt.Errorf("wrap: %w", context.DeadlineExceeded), true},
		{"graphql", fmt.Errorf("page: %w", &GraphQLError{Messages: []string{"invalid cursor"}}), true},
		{"404", &StatusError{StatusCode: http.StatusNotFound}, true},
		{"429", &StatusError{StatusCode: http.StatusTooManyRequests}, false},
		{"503", &StatusError{StatusCode: http.StatusServiceUnavailable}, false},
		{"network", timeoutErr{}, false},
		{"decode", errors.New("decode failed"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := callerFault(tt.err); got != tt.want {
				t.Errorf("callerFault(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	cfg := config.RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	tests := []struct {
		n    int
		err  error
		want time.Duration
	}{
		{0, nil, 100 * time.Millisecond},
		{1, nil, 200 * time.Millisecond},
		{3, nil, 800 * time.Millisecond},
		{10, nil, time.Second},
		{0, &StatusError{StatusCode: 429, RetryAfter: 500 * time.Millisecond}, 500 * time.Millisecond},
		{0, &StatusError{StatusCode: 429, RetryAfter: time.Minute}, time.Second},
		{2, &StatusError{StatusCode: 429, RetryAfter: 10 * time.Millisecond}, 400 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := backoff(cfg, tt.n, tt.err); got != tt.want {
			t.Errorf("backoff(%d, %v) = %v, want %v", tt.n, tt.err, got, tt.want)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := map[string]time.Duration{
		"":        0,
		"3":       3 * time.Second,
		" 10 ":    10 * time.Second,
		"-1":      0,
		"Wed, 21": 0,
	}
	for in, want := range tests {
		if got := parseRetryAfter(in); got != want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", in, got, want)
		}
	}
}
