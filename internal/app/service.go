// Package service provides the dashboard service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	eventqueue "github.com/okian/robopath/internal/adapters/mq/queue"
	workerpool "github.com/okian/robopath/internal/adapters/mq/worker"
	repository "github.com/okian/robopath/internal/adapters/repository"
	"github.com/okian/robopath/internal/domain/analysis"
	"github.com/okian/robopath/internal/domain/dedupe"
	"github.com/okian/robopath/internal/domain/events"
	"github.com/okian/robopath/internal/domain/field"
	"github.com/okian/robopath/internal/domain/model"
	"github.com/okian/robopath/internal/domain/types"
	"github.com/okian/robopath/pkg/logger"
	"github.com/okian/robopath/pkg/metrics"
)

// Default service configuration.
const (
	defaultWorkerCount = 2
	defaultQueueSize   = 256
	defaultDedupeSize  = 4096
	defaultCacheTTL    = time.Minute
	defaultHeatmapCols = 24
	defaultHeatmapRows = 12
)

// Query selects an event list and how to view it. A nil Match selects nothing.
type Query struct {
	Team   int
	Match  *int
	Stage  model.Stage
	Types  events.TypeSet
	Search string
	Sort   events.SortField
	Desc   bool
}

func (q Query) key() model.EventListKey {
	stage := q.Stage
	if stage == "" {
		stage = model.StageAuto
	}
	return model.EventListKey{Team: q.Team, Match: *q.Match, Stage: stage}
}

func (q Query) view() events.ViewOptions {
	return events.ViewOptions{Types: q.Types, Query: q.Search, Sort: q.Sort, Desc: q.Desc}
}

// FieldView is everything needed to draw the field diagram in SVG space.
type FieldView struct {
	Transform field.Transform
	Overlay   field.Overlay
	Heatmap   *field.Heatmap
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	cache    *eventCache
	deduper  dedupe.Deduper
	queue    eventqueue.Queue
	pool     *workerpool.Pool
	analyzer *analysis.Analyzer

	workerCount int
	queueSize   int
	dedupeSize  int
	cacheTTL    time.Duration
	defaultTeam int
	fieldWidth  int
	fieldHeight int
	heatmapCols int
	heatmapRows int
	now         func() time.Time

	started bool
	stopCh  chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the match table store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount sets the number of prefetch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending prefetch jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many in-flight prefetch keys are tracked.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithCacheTTL sets how long decoded event lists are kept. Zero or less disables caching
// and prefetching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

// WithDefaultTeam preselects a team on the dashboard. Zero picks the first team.
func WithDefaultTeam(team int) Option {
	return func(s *Service) {
		s.defaultTeam = team
	}
}

// WithFieldSize sets the field diagram size in pixels.
func WithFieldSize(width, height int) Option {
	return func(s *Service) {
		if width > 0 && height > 0 {
			s.fieldWidth = width
			s.fieldHeight = height
		}
	}
}

// WithHeatmapGrid sets the heatmap resolution.
func WithHeatmapGrid(cols, rows int) Option {
	return func(s *Service) {
		if cols > 0 && rows > 0 {
			s.heatmapCols = cols
			s.heatmapRows = rows
		}
	}
}

// WithClock replaces the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		cacheTTL:    defaultCacheTTL,
		fieldWidth:  field.BaseWidth,
		fieldHeight: field.BaseHeight,
		heatmapCols: defaultHeatmapCols,
		heatmapRows: defaultHeatmapRows,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.cache = newEventCache(s.cacheTTL, s.now)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.analyzer = analysis.New(analysis.WithFieldSize(s.fieldWidth, s.fieldHeight))
	return s
}

// Start launches the prefetch workers and the cache sweeper.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}

	s.logger.Info(ctx, "starting dashboard service...")

	s.stopCh = make(chan struct{})
	if s.cache.enabled() {
		s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
		s.pool = workerpool.NewPool(s.workerCount, s.queue, workerpool.HandlerFunc(s.Prefetch))
		s.pool.Start(ctx)
		go s.sweepLoop(ctx, s.stopCh)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int64("cacheTTLms", s.cacheTTL.Milliseconds()),
	)
	return nil
}

// Stop shuts down the workers and the sweeper and closes the store, even when the
// service was never started. A later Start runs fresh workers and a fresh sweeper.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	if s.started {
		s.logger.Info(ctx, "stopping dashboard service...")
		close(s.stopCh)
		if s.pool != nil {
			if err := s.pool.Shutdown(ctx); err != nil {
				s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
			}
			s.pool, s.queue = nil, nil
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "closing store", logger.Error(err))
		}
	}

	if s.started {
		s.started = false
		s.logger.Info(ctx, "dashboard service stopped")
	}
}

func (s *Service) sweepLoop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(s.cacheTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.cache.sweep()
		}
	}
}

// Teams returns the team dropdown options.
func (s *Service) Teams(ctx context.Context) ([]types.Option, error) {
	teams, err := s.store.Teams(ctx)
	if err != nil {
		s.logger.Error(ctx, "listing teams", logger.Error(err))
		return nil, err
	}
	return types.OptionsFromInts(teams), nil
}

// DefaultTeam picks the configured team when present in opts, else the first option.
func (s *Service) DefaultTeam(opts []types.Option) *int {
	if len(opts) == 0 {
		return nil
	}
	for _, o := range opts {
		if s.defaultTeam != 0 && o.Value == s.defaultTeam {
			v := o.Value
			return &v
		}
	}
	v := opts[0].Value
	return &v
}

// Matches returns the match dropdown for a team and schedules prefetching of its event lists.
func (s *Service) Matches(ctx context.Context, team int) (types.MatchChoice, error) {
	matches, err := s.store.Matches(ctx, team)
	if err != nil {
		s.logger.Error(ctx, "listing matches", logger.Int("team", team), logger.Error(err))
		return types.MatchChoice{}, err
	}
	s.schedulePrefetch(ctx, team, matches)
	return types.NewMatchChoice(types.OptionsFromInts(matches)), nil
}

func (s *Service) schedulePrefetch(ctx context.Context, team int, matches []int) {
	s.mu.RLock()
	q := s.queue
	started := s.started
	s.mu.RUnlock()
	if !started || q == nil {
		return
	}

	for _, m := range matches {
		for _, stage := range model.Stages() {
			k := model.EventListKey{Team: team, Match: m, Stage: stage}
			if s.cache.contains(k) {
				continue
			}
			id := k.String()
			if s.deduper.SeenAndRecord(ctx, id) {
				metrics.RecordPrefetchDuplicate()
				continue
			}
			if !q.Enqueue(ctx, k) {
				s.deduper.Unrecord(ctx, id)
				s.logger.Debug(ctx, "prefetch queue full", logger.String("key", id))
				return
			}
		}
	}
}

// Prefetch loads one event list into the cache. It is the worker handler.
func (s *Service) Prefetch(ctx context.Context, k model.EventListKey) error {
	defer s.deduper.Unrecord(ctx, k.String())
	if s.cache.contains(k) {
		return nil
	}
	_, err := s.load(ctx, k)
	return err
}

// load returns the decoded event list, using the cache when possible. A missing row,
// a NULL column and malformed JSON all yield an empty list.
func (s *Service) load(ctx context.Context, k model.EventListKey) ([]model.MatchEvent, error) {
	if evs, ok := s.cache.get(k); ok {
		return evs, nil
	}

	raw, err := s.store.EventList(ctx, k.Team, k.Match, k.Stage)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Debug(ctx, "no match row", logger.String("key", k.String()))
		raw = nil
	case err != nil:
		return nil, err
	}

	evs, err := events.Decode(raw)
	if err != nil {
		metrics.RecordDecodeFailure()
		s.logger.Warn(ctx, "malformed event list", logger.String("key", k.String()), logger.Error(err))
		evs = []model.MatchEvent{}
	}
	metrics.RecordEventsDecoded(len(evs))

	s.cache.put(k, evs)
	return evs, nil
}

// selection loads a list once and returns its filtered and searched events in temporal
// order alongside the sorted view of the same events.
func (s *Service) selection(ctx context.Context, q Query) (path, viewed []model.MatchEvent, err error) {
	if q.Match == nil {
		return []model.MatchEvent{}, []model.MatchEvent{}, nil
	}
	k := q.key()
	evs, err := s.load(ctx, k)
	if err != nil {
		s.logger.Error(ctx, "loading events", logger.String("key", k.String()), logger.Error(err))
		return nil, nil, err
	}
	path = events.Select(evs, q.view())
	viewed = events.Sort(path, q.Sort, q.Desc)
	metrics.RecordEventsServed(string(k.Stage), len(viewed))
	return path, viewed, nil
}

// Events returns the viewed events for a query: filtered, searched and sorted.
func (s *Service) Events(ctx context.Context, q Query) ([]model.MatchEvent, error) {
	_, viewed, err := s.selection(ctx, q)
	return viewed, err
}

func (s *Service) fieldView(viewed []model.MatchEvent, withHeatmap bool) FieldView {
	tr := field.NewTransform(s.fieldWidth, s.fieldHeight)
	fv := FieldView{Transform: tr, Overlay: tr.BuildOverlay(viewed)}
	if withHeatmap {
		h := field.BuildHeatmap(viewed, s.heatmapCols, s.heatmapRows)
		fv.Heatmap = &h
	}
	return fv
}

// Field returns the overlay for the viewed events and, when asked, their heatmap.
// Arrows follow the table order.
func (s *Service) Field(ctx context.Context, q Query, withHeatmap bool) (FieldView, error) {
	_, viewed, err := s.selection(ctx, q)
	if err != nil {
		return FieldView{}, err
	}
	return s.fieldView(viewed, withHeatmap), nil
}

// Summary aggregates the selected events in temporal order, whatever the table sort.
func (s *Service) Summary(ctx context.Context, q Query) (analysis.Summary, error) {
	path, _, err := s.selection(ctx, q)
	if err != nil {
		return analysis.Summary{}, err
	}
	return s.analyzer.Summarize(path), nil
}

// Timeline returns cumulative path length over match time for the selected events.
func (s *Service) Timeline(ctx context.Context, q Query) (times, distances []float64, err error) {
	path, _, err := s.selection(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	times, distances = s.analyzer.Cumulative(path)
	return times, distances, nil
}

// Snapshot is one dashboard render: table rows, field diagram and statistics.
type Snapshot struct {
	Events  []model.MatchEvent
	Field   FieldView
	Summary analysis.Summary
}

// Snapshot builds everything the dashboard page shows from a single load of the list.
func (s *Service) Snapshot(ctx context.Context, q Query, withHeatmap bool) (Snapshot, error) {
	path, viewed, err := s.selection(ctx, q)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Events:  viewed,
		Field:   s.fieldView(viewed, withHeatmap),
		Summary: s.analyzer.Summarize(path),
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"cacheTTLms":  s.cacheTTL.Milliseconds(),
		"cacheSize":   s.cache.len(),
		"inFlight":    s.deduper.Size(),
	}
	if s.started && s.queue != nil {
		stats["queueLength"] = s.queue.Len(context.Background())
	}
	return stats
}
