// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package models

import "time"

// RsvpState is the normalized RSVP availability of an event.
type RsvpState string

const (
	RsvpOpen          RsvpState = "OPEN"
	RsvpClosed        RsvpState = "CLOSED"
	RsvpNeedsApproval RsvpState = "NEEDS_APPROVAL"
	RsvpNotYetOpen    RsvpState = "NOT_YET_OPEN"
)

// Valid reports whether s is one of the known RSVP states.
func (s RsvpState) Valid() bool {
	switch s {
	case RsvpOpen, RsvpClosed, RsvpNeedsApproval, RsvpNotYetOpen:
		return true
	}
	return false
}

// Venue is the physical location of an event. Passthrough payload.
type Venue struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name,omitempty"`
	Address string  `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

// Event is a single upstream record. Identity is ID; events are never
// mutated after the fetcher returns them.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	StartTime   string    `json:"dateTime"`
	EndTime     string    `json:"endTime,omitempty"`
	RsvpState   RsvpState `json:"rsvpState"`
	IsAttending *bool     `json:"isAttending,omitempty"` // nil when upstream did not say
	IsSaved     bool      `json:"isSaved"`

	Description string `json:"description,omitempty"`
	EventURL    string `json:"eventUrl,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	EventType   string `json:"eventType,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Going       int    `json:"going,omitempty"`
	GroupName   string `json:"groupName,omitempty"`
	Venue       *Venue `json:"venue,omitempty"`
}

// Attending reports whether the caller is known to be attending.
func (e Event) Attending() bool {
	return e.IsAttending != nil && *e.IsAttending
}

// eventTimeLayouts are the timestamp shapes the provider emits. Minute
// precision without seconds is the common one.
var eventTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04Z07:00"}

func parseEventTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartAt parses StartTime. The second return is false when the
// timestamp is missing or malformed.
func (e Event) StartAt() (time.Time, bool) {
	return parseEventTime(e.StartTime)
}

// EndAt parses EndTime like StartAt.
func (e Event) EndAt() (time.Time, bool) {
	return parseEventTime(e.EndTime)
}
