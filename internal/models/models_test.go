// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package models

import (
	"testing"
	"time"
)

func TestEventStartAt(t *testing.T) {
	tests := []struct {
		in     string
		ok     bool
		hour   int
		offset int
	}{
		{"2023-03-17T18:30-04:00", true, 18, -4 * 3600},
		{"2023-03-17T18:30:00-04:00", true, 18, -4 * 3600},
		{"2023-03-17T22:30:00Z", true, 22, 0},
		{"", false, 0, 0},
		{"next tuesday", false, 0, 0},
	}

	for _, tt := range tests {
		got, ok := Event{StartTime: tt.in}.StartAt()
		if ok != tt.ok {
			t.Errorf("StartAt(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if _, off := got.Zone(); got.Hour() != tt.hour || off != tt.offset {
			t.Errorf("StartAt(%q) = %v", tt.in, got)
		}
	}

	if _, ok := (Event{EndTime: "2023-03-17T20:00-04:00"}).EndAt(); !ok {
		t.Error("EndAt did not parse a minute-precision timestamp")
	}
}

func TestParseEventDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	day, err := ParseEventDate("2026-03-01", loc)
	if err != nil {
		t.Fatalf("ParseEventDate(day) error = %v", err)
	}
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, loc); !day.Equal(want) {
		t.Errorf("day = %v, want %v", day, want)
	}

	ts, err := ParseEventDate("2026-03-01T12:00:00Z", loc)
	if err != nil || ts.Hour() != 12 {
		t.Errorf("timestamp = %v, err = %v", ts, err)
	}

	if _, err := ParseEventDate("03/01/2026", loc); err == nil {
		t.Error("expected an error for a US-style date")
	}
	if _, err := ParseEventDate("2026-03-01", nil); err != nil {
		t.Errorf("nil location: %v", err)
	}
}

func TestAccumulatedResultSatisfies(t *testing.T) {
	var nilResult *AccumulatedResult
	if nilResult.Satisfies(1) {
		t.Error("nil result satisfies a request")
	}

	partial := &AccumulatedResult{Records: make([]Event, 5), HasMore: true}
	if !partial.Satisfies(5) || partial.Satisfies(6) {
		t.Error("partial result: wrong sufficiency at the boundary")
	}

	exhausted := &AccumulatedResult{Records: make([]Event, 2), HasMore: false}
	if !exhausted.Satisfies(100) {
		t.Error("exhausted traversal must satisfy any request")
	}
}

func TestRsvpStateValid(t *testing.T) {
	for _, s := range []RsvpState{RsvpOpen, RsvpClosed, RsvpNeedsApproval, RsvpNotYetOpen} {
		if !s.Valid() {
			t.Errorf("%s not valid", s)
		}
	}
	if RsvpState("WAITLIST").Valid() {
		t.Error("unknown state reported valid")
	}
}
