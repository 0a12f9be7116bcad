// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package upstream

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/eventsieve/internal/models"
)

// graphQLRequest is the POST body for both operations. Query is empty for
// persisted queries, which are identified by Extensions instead.
type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Query         string         `json:"query,omitempty"`
	Extensions    *extensions    `json:"extensions,omitempty"`
}

type extensions struct {
	PersistedQuery persistedQuery `json:"persistedQuery"`
}

type persistedQuery struct {
	Version    int    `json:"version"`
	SHA256Hash string `json:"sha256Hash"`
}

// graphQLResponse is the envelope returned by the provider.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// GraphQLError is returned when the provider answers 200 with an errors array.
type GraphQLError struct {
	Operation string
	Messages  []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("%s: graphql error: %s", e.Operation, strings.Join(e.Messages, "; "))
}

type wirePageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

// keywordSearchData is data for eventKeywordSearch. Each edge wraps the event
// in node.result.
type keywordSearchData struct {
	Results struct {
		PageInfo wirePageInfo `json:"pageInfo"`
		Count    int          `json:"count"`
		Edges    []struct {
			Node struct {
				ID     string    `json:"id"`
				Result wireEvent `json:"result"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"results"`
}

// recommendedData is data for recommendedEventsWithSeries. Edges carry the
// event directly in node.
type recommendedData struct {
	Result struct {
		PageInfo   wirePageInfo `json:"pageInfo"`
		TotalCount int          `json:"totalCount"`
		Edges      []struct {
			Node wireEvent `json:"node"`
		} `json:"edges"`
	} `json:"result"`
}

type wireEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	DateTime    string     `json:"dateTime"`
	EndTime     string     `json:"endTime"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Timezone    string     `json:"timezone"`
	EventType   string     `json:"eventType"`
	Currency    string     `json:"currency"`
	EventURL    string     `json:"eventUrl"`
	Going       flexCount  `json:"going"`
	IsAttending *bool      `json:"isAttending"`
	IsSaved     bool       `json:"isSaved"`
	RsvpState   string     `json:"rsvpState"`
	Venue       *wireVenue `json:"venue"`
	Group       *struct {
		Name string `json:"name"`
	} `json:"group"`
	FeeSettings *struct {
		Currency string `json:"currency"`
	} `json:"feeSettings"`
	Rsvps *struct {
		TotalCount int `json:"totalCount"`
	} `json:"rsvps"`
}

type wireVenue struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// flexCount decodes "going", which is a bare integer on the keyword search
// schema and an object with totalCount on the recommendations schema.
type flexCount int

func (c *flexCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			TotalCount *int `json:"totalCount"`
			Count      *int `json:"count"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		switch {
		case obj.TotalCount != nil:
			*c = flexCount(*obj.TotalCount)
		case obj.Count != nil:
			*c = flexCount(*obj.Count)
		default:
			*c = 0
		}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("going: %w", err)
	}
	*c = flexCount(n)
	return nil
}

// rsvpStates maps provider RSVP states to the normalized set. Unknown states
// pass through unchanged.
var rsvpStates = map[string]models.RsvpState{
	"JOIN_OPEN":     models.RsvpOpen,
	"OPEN":          models.RsvpOpen,
	"CLOSED":        models.RsvpClosed,
	"JOIN_APPROVAL": models.RsvpNeedsApproval,
	"NOT_OPEN_YET":  models.RsvpNotYetOpen,
}

func normalizeRsvp(state string) models.RsvpState {
	if s, ok := rsvpStates[strings.ToUpper(state)]; ok {
		return s
	}
	return models.RsvpState(state)
}

func (w *wireEvent) toEvent() models.Event {
	e := models.Event{
		ID:          w.ID,
		Title:       w.Title,
		StartTime:   w.DateTime,
		EndTime:     w.EndTime,
		RsvpState:   normalizeRsvp(w.RsvpState),
		IsAttending: w.IsAttending,
		IsSaved:     w.IsSaved,
		Description: w.Description,
		EventURL:    w.EventURL,
		Duration:    w.Duration,
		Timezone:    w.Timezone,
		EventType:   w.EventType,
		Currency:    w.Currency,
		Going:       int(w.Going),
	}
	if e.Going == 0 && w.Rsvps != nil {
		e.Going = w.Rsvps.TotalCount
	}
	if e.Currency == "" && w.FeeSettings != nil {
		e.Currency = w.FeeSettings.Currency
	}
	if w.Group != nil {
		e.GroupName = w.Group.Name
	}
	if w.Venue != nil {
		v := models.Venue(*w.Venue)
		e.Venue = &v
	}
	return e
}

func (p wirePageInfo) toPage(records []models.Event) models.Page {
	page := models.Page{Records: records, HasMore: p.HasNextPage}
	if p.EndCursor != nil {
		page.NextCursor = *p.EndCursor
	}
	// A provider that claims more pages without a cursor cannot be advanced.
	if page.NextCursor == "" {
		page.HasMore = false
	}
	return page
}

func (d *keywordSearchData) page() models.Page {
	records := make([]models.Event, 0, len(d.Results.Edges))
	for i := range d.Results.Edges {
		ev := d.Results.Edges[i].Node.Result
		if ev.ID == "" {
			ev.ID = d.Results.Edges[i].Node.ID
		}
		if ev.ID == "" {
			continue
		}
		records = append(records, ev.toEvent())
	}
	return d.Results.PageInfo.toPage(records)
}

func (d *recommendedData) page() models.Page {
	records := make([]models.Event, 0, len(d.Result.Edges))
	for i := range d.Result.Edges {
		if d.Result.Edges[i].Node.ID == "" {
			continue
		}
		records = append(records, d.Result.Edges[i].Node.toEvent())
	}
	return d.Result.PageInfo.toPage(records)
}
