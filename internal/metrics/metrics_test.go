// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/tech-events", "200"))

	RecordAPIRequest("GET", "/tech-events", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/tech-events", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("api_active_requests = %v, want %v", got, start)
	}
}

func TestRecordUpstreamFetch(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
	}{
		{"success", nil, "success"},
		{"failure", errors.New("connection reset"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := UpstreamPagesFetched.WithLabelValues("eventKeywordSearch", tt.status)
			before := testutil.ToFloat64(c)

			RecordUpstreamFetch("eventKeywordSearch", 100*time.Millisecond, tt.err)

			if delta := testutil.ToFloat64(c) - before; delta != 1 {
				t.Errorf("pages fetched{status=%s} delta = %v, want 1", tt.status, delta)
			}
		})
	}
}

func TestRecordFiltered(t *testing.T) {
	c := RecordsFiltered.WithLabelValues("closed")
	before := testutil.ToFloat64(c)

	RecordFiltered("closed", 3)
	RecordFiltered("closed", 0)
	RecordFiltered("closed", -2)

	if delta := testutil.ToFloat64(c) - before; delta != 3 {
		t.Errorf("records_filtered{closed} delta = %v, want 3", delta)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("memory"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("memory"))

	RecordCacheLookup("memory", true)
	RecordCacheLookup("memory", false)
	RecordCacheLookup("memory", false)

	if d := testutil.ToFloat64(CacheHits.WithLabelValues("memory")) - hits; d != 1 {
		t.Errorf("cache hits delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(CacheMisses.WithLabelValues("memory")) - misses; d != 2 {
		t.Errorf("cache misses delta = %v, want 2", d)
	}
}

func TestRecordAccumulation(t *testing.T) {
	outcomes := AccumulationOutcomes.WithLabelValues("failed")
	before := testutil.ToFloat64(outcomes)

	RecordAccumulation("eventKeywordSearch", "failed", 0)

	if d := testutil.ToFloat64(outcomes) - before; d != 1 {
		t.Errorf("outcomes{failed} delta = %v, want 1", d)
	}
}

func TestRecordWarmerRun(t *testing.T) {
	ok := testutil.ToFloat64(WarmerRuns.WithLabelValues("success"))
	bad := testutil.ToFloat64(WarmerRuns.WithLabelValues("error"))

	RecordWarmerRun(nil)
	RecordWarmerRun(errors.New("upstream down"))

	if d := testutil.ToFloat64(WarmerRuns.WithLabelValues("success")) - ok; d != 1 {
		t.Errorf("warmer success delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(WarmerRuns.WithLabelValues("error")) - bad; d != 1 {
		t.Errorf("warmer error delta = %v, want 1", d)
	}
}
