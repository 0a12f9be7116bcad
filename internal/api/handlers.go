// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/eventsieve/internal/cache"
	"github.com/tomtom215/eventsieve/internal/config"
	"github.com/tomtom215/eventsieve/internal/logging"
	"github.com/tomtom215/eventsieve/internal/middleware"
	"github.com/tomtom215/eventsieve/internal/models"
	"github.com/tomtom215/eventsieve/internal/validation"
)

// Searcher runs the search operations. *engine.Service implements it.
type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
	TechEvents(ctx context.Context, page, perPage int) (*models.SearchResponse, error)
	Recommended(ctx context.Context, startDate, endDate string) (*models.SearchResponse, error)
	Today(ctx context.Context, after string) (*models.SearchResponse, error)
}

// BreakerReporter exposes the upstream circuit state ("closed",
// "half-open" or "open"). *upstream.Fetcher implements it.
type BreakerReporter interface {
	BreakerState() string
}

// WarmerReporter exposes the last scheduled warm run.
type WarmerReporter interface {
	LastRun() (time.Time, error)
}

// HandlerDeps are the collaborators of Handler. Only Searcher is required.
type HandlerDeps struct {
	Searcher Searcher
	Breaker  BreakerReporter
	Cache    cache.Store
	Warmer   WarmerReporter
	Latency  *middleware.LatencyTracker
	Version  string
}

// Handler contains the HTTP handlers.
//
// Handler methods are split across files:
//   - handlers.go: search endpoints
//   - handlers_health.go: liveness and readiness
type Handler struct {
	deps      HandlerDeps
	config    *config.Config
	paging    pageDefaults
	startTime time.Time
}

// NewHandler creates the API handler.
//
// Example:
//
//	handler := api.NewHandler(cfg, api.HandlerDeps{Searcher: svc, Breaker: fetcher, Cache: store})
//	router := api.NewRouter(cfg, handler)
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(cfg *config.Config, deps HandlerDeps) *Handler {
	return &Handler{
		deps:   deps,
		config: cfg,
		paging: pageDefaults{
			perPage: cfg.API.DefaultPageSize,
			max:     cfg.API.MaxPageSize,
		},
		startTime: time.Now(),
	}
}

// Search handles POST /meetup/search (JSON body) and GET /meetup/search
// (query parameters).
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var (
		req models.SearchRequest
		err error
	)
	if r.Method == http.MethodPost {
		req, err = decodeSearchBody(r, h.paging)
	} else {
		req, err = searchFromQuery(r, h.paging)
	}
	if err != nil {
		h.badParam(rw, err)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("query", req.Query).
		Int("page", req.Page).
		Int("per_page", req.PerPage).
		Bool("has_cursor", req.After != "").
		Msg("Search request")

	resp, err := h.deps.Searcher.Search(r.Context(), req)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	writeSearch(rw, resp, req.Page, req.PerPage)
}

// TechEvents handles GET /tech-events?page&per_page.
func (h *Handler) TechEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, perPage, err := pageParams(r, h.paging)
	if err != nil {
		h.badParam(rw, err)
		return
	}

	resp, err := h.deps.Searcher.TechEvents(r.Context(), page, perPage)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	writeSearch(rw, resp, page, perPage)
}

// Recommended handles GET /recommended?startDate&endDate.
func (h *Handler) Recommended(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	resp, err := h.deps.Searcher.Recommended(r.Context(),
		firstParam(r, "startDate", "start_date"),
		firstParam(r, "endDate", "end_date"),
	)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	writeSearch(rw, resp, 0, 0)
}

// Today handles GET /today?after.
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	resp, err := h.deps.Searcher.Today(r.Context(), r.URL.Query().Get("after"))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	writeSearch(rw, resp, 0, 0)
}

func (h *Handler) badParam(rw *ResponseWriter, err error) {
	var pe *paramError
	if errors.As(err, &pe) {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeBadRequest, pe.message, map[string]string{"field": pe.field})
		return
	}
	rw.BadRequest(err.Error())
}

// writeSearch wraps a search payload in the envelope and mirrors its page
// info into meta.pagination.
func writeSearch(rw *ResponseWriter, resp *models.SearchResponse, page, perPage int) {
	pagination := &PaginationMeta{
		Count:   len(resp.Nodes),
		Page:    page,
		PerPage: perPage,
		HasMore: resp.PageInfo.HasNextPage,
	}
	if resp.PageInfo.EndCursor != nil {
		pagination.NextCursor = *resp.PageInfo.EndCursor
	}
	if resp.Nodes == nil {
		resp.Nodes = []models.Event{}
	}
	rw.SuccessWithPagination(resp, pagination)
}
