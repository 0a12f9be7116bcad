// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/eventsieve/internal/cache"
	"github.com/tomtom215/eventsieve/internal/logging"
	"github.com/tomtom215/eventsieve/internal/metrics"
	"github.com/tomtom215/eventsieve/internal/models"
)

const tracerName = "github.com/tomtom215/eventsieve/internal/engine"

// Config tunes the engine.
type Config struct {
	// MaxUpstreamPages bounds one accumulation run.
	MaxUpstreamPages int

	// CacheTTL is the lifetime of stored accumulations.
	CacheTTL time.Duration

	// ExcludeTerms apply to every request in addition to per-request terms.
	ExcludeTerms []string

	// TechQueries are merged by TechEvents, in this order.
	TechQueries []string

	// FanOutLimit bounds concurrent TechEvents accumulations.
	FanOutLimit int

	// TodayMinimum is the number of records Today accumulates per call.
	TodayMinimum int

	// MaxPage is the highest page number accepted.
	MaxPage int

	// Location interprets calendar-day parameters and the end of "today".
	Location *time.Location
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxUpstreamPages: 50,
		CacheTTL:         20 * time.Minute,
		TechQueries:      []string{"tech events", "programming", "coding"},
		FanOutLimit:      3,
		TodayMinimum:     100,
		MaxPage:          1000,
		Location:         time.Local,
	}
}

// Service runs the search operations on top of a Fetcher and an optional
// result store. It is safe for concurrent use.
type Service struct {
	fetcher Fetcher
	store   cache.Store
	cfg     Config
	base    *Filter
	now     func() time.Time
	tracer  trace.Tracer
}

// NewService creates a Service. store may be nil to disable caching. Zero
// fields in cfg take their DefaultConfig values.
func NewService(fetcher Fetcher, store cache.Store, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.MaxUpstreamPages <= 0 {
		cfg.MaxUpstreamPages = def.MaxUpstreamPages
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if len(cfg.TechQueries) == 0 {
		cfg.TechQueries = def.TechQueries
	}
	if cfg.FanOutLimit <= 0 {
		cfg.FanOutLimit = def.FanOutLimit
	}
	if cfg.TodayMinimum <= 0 {
		cfg.TodayMinimum = def.TodayMinimum
	}
	if cfg.MaxPage <= 0 {
		cfg.MaxPage = def.MaxPage
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}

	return &Service{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		base:    NewFilter(cfg.ExcludeTerms),
		now:     time.Now,
		tracer:  otel.Tracer(tracerName),
	}
}

// Search runs a keyword search and returns the requested page. Pages are
// cut from the filtered list in upstream discovery order.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	if err := s.checkPage(req.Page, req.PerPage); err != nil {
		return nil, err
	}

	text := normalizeQuery(req.Query)
	if text == "" {
		return nil, invalidf("query", "query is required")
	}

	start, end, err := s.parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	filter := s.filterFor(req.Exclude)
	q := models.Query{
		Operation: models.OperationKeywordSearch,
		Text:      text,
		StartDate: start,
		EndDate:   end,
		Cursor:    req.After,
	}
	params := keyParams{
		Operation: "search",
		Query:     text,
		Exclude:   filter.Terms(),
		StartDate: strings.TrimSpace(req.StartDate),
		EndDate:   strings.TrimSpace(req.EndDate),
		After:     req.After,
		Bucket:    pageSizeBucket(req.PerPage),
	}

	res, err := s.resolve(ctx, params, q, filter, req.Page*req.PerPage)
	if err != nil {
		return nil, err
	}

	items, more, err := Slice(res.Records, req.Page, req.PerPage)
	if err != nil {
		return nil, err
	}
	return newResponse(items, more || res.HasMore, res.LastCursor), nil
}

// TechEvents runs every configured tech query concurrently, merges the
// results in query order, removes duplicates, sorts with CompareEvents and
// returns the requested page. Any failing query fails the request.
func (s *Service) TechEvents(ctx context.Context, page, perPage int) (*models.SearchResponse, error) {
	if err := s.checkPage(page, perPage); err != nil {
		return nil, err
	}

	minimum := page * perPage
	results := make([]*models.AccumulatedResult, len(s.cfg.TechQueries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FanOutLimit)
	for i, raw := range s.cfg.TechQueries {
		text := normalizeQuery(raw)
		g.Go(func() error {
			q := models.Query{
				Operation: models.OperationKeywordSearch,
				Text:      text,
				StartDate: s.now(),
			}
			params := keyParams{
				Operation: "search",
				Query:     text,
				Exclude:   s.base.Terms(),
				Bucket:    pageSizeBucket(perPage),
			}
			res, err := s.resolve(gctx, params, q, s.base, minimum)
			if err != nil {
				return fmt.Errorf("tech query %q: %w", text, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []models.Event
	upstreamMore := false
	for _, res := range results {
		merged = append(merged, res.Records...)
		upstreamMore = upstreamMore || res.HasMore
	}
	merged = sortEvents(Dedup(merged), CompareEvents)

	items, more, err := Slice(merged, page, perPage)
	if err != nil {
		return nil, err
	}
	// A merged feed has no single upstream cursor to resume from.
	return newResponse(items, more || upstreamMore, ""), nil
}

// Recommended returns the upstream recommendations between startDate and
// endDate, accumulated until upstream is exhausted or the page cap is
// reached, in chronological order.
func (s *Service) Recommended(ctx context.Context, startDate, endDate string) (*models.SearchResponse, error) {
	start, end, err := s.parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	q := models.Query{
		Operation: models.OperationRecommended,
		StartDate: start,
		EndDate:   end,
	}
	params := keyParams{
		Operation: "recommended",
		Exclude:   s.base.Terms(),
		StartDate: strings.TrimSpace(startDate),
		EndDate:   strings.TrimSpace(endDate),
	}

	res, err := s.resolve(ctx, params, q, s.base, math.MaxInt)
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, ErrNoResults
	}
	return newResponse(sortEvents(res.Records, CompareChronological), res.HasMore, res.LastCursor), nil
}

// Today returns events from now until the end of the current day, starting
// at the optional after cursor. The returned end cursor continues the
// listing.
func (s *Service) Today(ctx context.Context, after string) (*models.SearchResponse, error) {
	now := s.now().In(s.cfg.Location)

	q := models.Query{
		Operation: models.OperationKeywordSearch,
		StartDate: now,
		EndDate:   endOfDay(now, s.cfg.Location),
		Cursor:    after,
	}
	params := keyParams{
		Operation: "today",
		Exclude:   s.base.Terms(),
		StartDate: now.Format(models.EventDateLayout),
		After:     after,
	}

	res, err := s.resolve(ctx, params, q, s.base, s.cfg.TodayMinimum)
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, ErrNoResults
	}
	return newResponse(sortEvents(res.Records, CompareChronological), res.HasMore, res.LastCursor), nil
}

// resolve serves an accumulation from the store when a usable entry exists
// and otherwise runs the loop and stores the result.
func (s *Service) resolve(ctx context.Context, params keyParams, q models.Query, filter *Filter, minimum int) (*models.AccumulatedResult, error) {
	key := params.key()

	if res, ok := s.lookup(ctx, key, minimum); ok {
		return res, nil
	}

	res, err := s.accumulate(ctx, q, filter, minimum)
	if err != nil {
		return nil, err
	}

	s.save(ctx, key, res)
	return res, nil
}

// lookup returns a cached accumulation that can serve minimum records. An
// entry that stopped at the page cap is as complete as a refetch would be.
func (s *Service) lookup(ctx context.Context, key string, minimum int) (*models.AccumulatedResult, bool) {
	if s.store == nil {
		return nil, false
	}

	res, ok, err := s.store.Get(ctx, key)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("backend", s.store.Name()).Msg("Result cache unavailable, fetching directly")
		metrics.RecordCacheError(s.store.Name(), "get")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if !res.Satisfies(minimum) && res.Pages < s.cfg.MaxUpstreamPages {
		logging.Ctx(ctx).Debug().
			Str("key", key).
			Int("cached", len(res.Records)).
			Int("needed", minimum).
			Msg("Cached accumulation too short, refetching")
		return nil, false
	}
	return res, true
}

func (s *Service) save(ctx context.Context, key string, res *models.AccumulatedResult) {
	if s.store == nil || ctx.Err() != nil {
		return
	}
	if err := s.store.Set(ctx, key, res, s.cfg.CacheTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("backend", s.store.Name()).Msg("Failed to store accumulation")
		metrics.RecordCacheError(s.store.Name(), "set")
	}
}

func (s *Service) checkPage(page, perPage int) error {
	if page < 1 {
		return invalidf("page", "page number cannot be less than 1")
	}
	if page > s.cfg.MaxPage {
		return invalidf("page", "page number cannot exceed %d", s.cfg.MaxPage)
	}
	if perPage < 1 {
		return invalidf("per_page", "page size cannot be less than 1")
	}
	if perPage > math.MaxInt/page {
		return invalidf("per_page", "page size too large for page %d", page)
	}
	return nil
}

// parseRange parses optional start and end dates. A missing start means
// now; a missing end leaves the range open. A calendar-day end date covers
// that whole day in the configured location.
func (s *Service) parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start := s.now()
	if v := strings.TrimSpace(startDate); v != "" {
		t, err := models.ParseEventDate(v, s.cfg.Location)
		if err != nil {
			return time.Time{}, time.Time{}, invalidf("start_date", "start date must be YYYY-MM-DD or RFC 3339")
		}
		start = t
	}

	var end time.Time
	if v := strings.TrimSpace(endDate); v != "" {
		t, err := models.ParseEventDate(v, s.cfg.Location)
		if err != nil {
			return time.Time{}, time.Time{}, invalidf("end_date", "end date must be YYYY-MM-DD or RFC 3339")
		}
		if len(v) == len(models.EventDateLayout) {
			t = endOfDay(t, s.cfg.Location)
		}
		if t.Before(start) {
			return time.Time{}, time.Time{}, invalidf("end_date", "end date cannot be before start date")
		}
		end = t
	}
	return start, end, nil
}

// endOfDay returns 23:59:59 on t's calendar day in loc.
func endOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, 0, loc)
}

func (s *Service) filterFor(extra []string) *Filter {
	if len(extra) == 0 {
		return s.base
	}
	return NewFilter(s.cfg.ExcludeTerms, extra)
}

func newResponse(items []models.Event, hasNext bool, cursor string) *models.SearchResponse {
	resp := &models.SearchResponse{
		PageInfo: models.PageInfo{HasNextPage: hasNext},
		Nodes:    items,
	}
	if cursor != "" {
		resp.PageInfo.EndCursor = &cursor
	}
	return resp
}
