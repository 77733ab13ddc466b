// Package service provides the core business service that implements the
// dependencies required by the HTTP API: game submission, scoring, and
// spoiler-free rankings.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/spoilerfree/gei/internal/adapters/mq/queue"
	workerpool "github.com/spoilerfree/gei/internal/adapters/mq/worker"
	"github.com/spoilerfree/gei/internal/adapters/repository"
	"github.com/spoilerfree/gei/internal/domain/dedupe"
	"github.com/spoilerfree/gei/internal/domain/gei"
	"github.com/spoilerfree/gei/internal/domain/ingest"
	"github.com/spoilerfree/gei/internal/domain/model"
	"github.com/spoilerfree/gei/internal/domain/types"
	"github.com/spoilerfree/gei/pkg/logger"
	"github.com/spoilerfree/gei/pkg/metrics"
)

// Service wires the engine, queue, workers, ranking store, and caches.
type Service struct {
	mu sync.RWMutex

	// Core components
	rankings *repository.RankStore
	series   *repository.SeriesCache
	deduper  dedupe.Deduper
	queue    jobqueue.Queue
	engine   *gei.Engine
	pool     *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	minSamples  int
	seriesTTL   time.Duration
	baseWeights map[string]float64

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the score-job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the duplicate-submission cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount configures the ranking store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithMinSamples sets the engine's fallback-routing threshold.
func WithMinSamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minSamples = n
		}
	}
}

// WithSeriesTTL sets the probability-series cache lifetime.
func WithSeriesTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.seriesTTL = ttl
		}
	}
}

// WithBaseWeights overrides the engine's component weight vector.
func WithBaseWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.baseWeights = weights
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

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 0, // pool picks a CPU-based default
		queueSize:   10_000,
		dedupeSize:  50_000,
		shardCount:  8,
		minSamples:  gei.MinSamples,
		seriesTTL:   30 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.rankings = repository.NewRankStore(repository.WithShardCount(s.shardCount))
	s.series = repository.NewSeriesCache(
		repository.WithTTLPolicy(func(string) time.Duration { return s.seriesTTL }),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.engine = gei.New(
		gei.WithMinSamples(s.minSamples),
		gei.WithBaseWeights(s.baseWeights),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.engine, s.rankings)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "excitement ranking service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("minSamples", s.minSamples),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping excitement ranking service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "excitement ranking service stopped")
}

// Submit adapts a raw game payload, deduplicates it, and enqueues a score
// job. A game that arrives without samples reuses the cached series from a
// previous submission when one exists. The second return value is false
// when the queue rejects the job under backpressure.
func (s *Service) Submit(ctx context.Context, game map[string]any, rawSamples []map[string]any) (types.Receipt, bool) {
	facts := ingest.Facts(game)
	if facts.GameID == "" {
		facts.GameID = uuid.New().String()
	}

	samples := ingest.Samples(rawSamples)
	if len(samples) == 0 {
		if cached, ok := s.series.Get(ctx, facts.GameID); ok {
			samples = cached
		}
	} else {
		s.series.Put(ctx, facts.GameID, samples)
	}

	if s.deduper.SeenAndRecord(ctx, facts.GameID) {
		metrics.RecordDuplicateGame()
		s.logger.Debug(ctx, "duplicate game submission",
			logger.String("gameID", facts.GameID),
		)
		return types.Receipt{GameID: facts.GameID, Duplicate: true}, true
	}

	job := model.ScoreJob{
		JobID:   uuid.New().String(),
		Facts:   facts,
		Samples: samples,
	}
	if !s.queue.Enqueue(ctx, job) {
		// Roll back the seen mark so the caller can retry.
		s.deduper.Unrecord(ctx, facts.GameID)
		return types.Receipt{}, false
	}

	s.logger.Debug(ctx, "enqueued score job",
		logger.String("jobID", job.JobID),
		logger.String("gameID", facts.GameID),
		logger.Int("samples", len(samples)),
	)
	return types.Receipt{JobID: job.JobID, GameID: facts.GameID}, true
}

// TopN returns the n most exciting games in ranking order.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.rankings.TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = types.Entry{
			Rank:       e.Rank,
			GameID:     e.GameID,
			Matchup:    e.Matchup,
			Score:      e.Score,
			Confidence: e.Confidence,
			Narrative:  e.Narrative,
		}
	}
	return out, nil
}

// Result returns the full score result for a game.
func (s *Service) Result(ctx context.Context, gameID string) (model.ScoreResult, error) {
	return s.rankings.Get(ctx, gameID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if s.started {
		ctx := context.Background()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["rankedGames"] = s.rankings.Count(ctx)
		stats["dedupeSize"] = s.deduper.Size()
		stats["cachedSeries"] = s.series.Len()
	}
	return stats
}
