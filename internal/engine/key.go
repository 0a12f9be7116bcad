// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package engine

import (
	"math/bits"
	"strings"

	"github.com/tomtom215/eventsieve/internal/cache"
)

// keyParams is the normalized request fingerprint hashed into a cache key.
// Field order is fixed so equal requests always encode identically.
type keyParams struct {
	Operation string   `json:"op"`
	Query     string   `json:"q"`
	Exclude   []string `json:"x,omitempty"`
	StartDate string   `json:"s,omitempty"`
	EndDate   string   `json:"e,omitempty"`
	After     string   `json:"a,omitempty"`
	Bucket    int      `json:"b,omitempty"`
}

func (p keyParams) key() string {
	return cache.GenerateKey(p.Operation, p)
}

// normalizeQuery lowercases text and collapses runs of whitespace.
func normalizeQuery(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// pageSizeBucket rounds perPage up to the next power of two so nearby page
// sizes share cache entries.
func pageSizeBucket(perPage int) int {
	if perPage <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(perPage-1))
}
