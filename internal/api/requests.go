// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/eventsieve/internal/models"
)

// maxBodyBytes bounds a POST search body.
const maxBodyBytes = 64 << 10

// paramError is a malformed parameter, reported as 400 BAD_REQUEST before
// the request reaches the engine.
type paramError struct {
	field   string
	message string
}

func (e *paramError) Error() string { return e.message }

// searchBody is the POST form of a search. Page fields are pointers so an
// explicit zero is rejected instead of replaced by the default.
type searchBody struct {
	Query     string   `json:"query"`
	Page      *int     `json:"page"`
	PerPage   *int     `json:"per_page"`
	After     string   `json:"after"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Exclude   []string `json:"exclude"`
}

// pageDefaults carries the configured page size bounds.
type pageDefaults struct {
	perPage int
	max     int
}

// decodeSearchBody reads a JSON search request.
func decodeSearchBody(r *http.Request, defaults pageDefaults) (models.SearchRequest, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return models.SearchRequest{}, &paramError{field: "body", message: "failed to read request body"}
	}
	if len(raw) > maxBodyBytes {
		return models.SearchRequest{}, &paramError{field: "body", message: fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.SearchRequest{}, &paramError{field: "body", message: "request body is required"}
	}

	var body searchBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return models.SearchRequest{}, &paramError{field: "body", message: "request body must be a JSON search object"}
	}

	req := models.SearchRequest{
		Query:     body.Query,
		Page:      1,
		PerPage:   defaults.perPage,
		After:     body.After,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		Exclude:   body.Exclude,
	}
	if body.Page != nil {
		req.Page = *body.Page
	}
	if body.PerPage != nil {
		req.PerPage = *body.PerPage
	}
	return req, checkPerPage(req.PerPage, defaults)
}

// searchFromQuery reads a search request from URL parameters. Exclude terms
// may be repeated or comma-separated.
func searchFromQuery(r *http.Request, defaults pageDefaults) (models.SearchRequest, error) {
	q := r.URL.Query()

	page, perPage, err := pageParams(r, defaults)
	if err != nil {
		return models.SearchRequest{}, err
	}

	var exclude []string
	for _, v := range q["exclude"] {
		exclude = append(exclude, parseCommaSeparated(v)...)
	}

	return models.SearchRequest{
		Query:     q.Get("query"),
		Page:      page,
		PerPage:   perPage,
		After:     q.Get("after"),
		StartDate: firstParam(r, "start_date", "startDate"),
		EndDate:   firstParam(r, "end_date", "endDate"),
		Exclude:   exclude,
	}, nil
}

// pageParams reads page and per_page (perPage is accepted too).
func pageParams(r *http.Request, defaults pageDefaults) (page, perPage int, err error) {
	if page, err = intParam(firstParam(r, "page"), "page", 1); err != nil {
		return 0, 0, err
	}
	if perPage, err = intParam(firstParam(r, "per_page", "perPage"), "per_page", defaults.perPage); err != nil {
		return 0, 0, err
	}
	return page, perPage, checkPerPage(perPage, defaults)
}

// checkPerPage enforces the configured ceiling. The lower bound belongs to
// the engine.
func checkPerPage(perPage int, defaults pageDefaults) error {
	if defaults.max > 0 && perPage > defaults.max {
		return &paramError{field: "per_page", message: fmt.Sprintf("page size cannot exceed %d", defaults.max)}
	}
	return nil
}

// intParam parses an optional integer parameter. Unlike a lenient parse, a
// non-numeric value is an error rather than the default.
func intParam(value, name string, defaultValue int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &paramError{field: name, message: fmt.Sprintf("%s must be an integer", name)}
	}
	return n, nil
}

// firstParam returns the first non-empty query parameter among names.
func firstParam(r *http.Request, names ...string) string {
	q := r.URL.Query()
	for _, name := range names {
		if v := q.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// parseCommaSeparated splits a comma list, trimming and dropping empties.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
