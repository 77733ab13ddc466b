// Package worker runs the pool of goroutines that score queued games and
// publish the results.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/spoilerfree/gei/internal/domain/model"
	"github.com/spoilerfree/gei/pkg/logger"
	"github.com/spoilerfree/gei/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Job is what workers read off the queue.
type Job = model.ScoreJob

// Scorer computes a score result for one game. Implementations must be
// safe for concurrent use; distinct games share no state.
type Scorer interface {
	Score(ctx context.Context, facts model.GameFacts, samples []model.ProbabilitySample) (model.ScoreResult, error)
}

// Publisher receives finished score results.
type Publisher interface {
	Upsert(ctx context.Context, result model.ScoreResult, matchup string) (bool, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes score jobs until stopped.
type Worker struct {
	queue     Queue
	scorer    Scorer
	publisher Publisher
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, scorer Scorer, publisher Publisher, opts ...Option) *Worker {
	w := &Worker{
		queue:     queue,
		scorer:    scorer,
		publisher: publisher,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.Get().Named(w.name)
	return w
}

// Run starts the worker loop. It returns when ctx is cancelled, Shutdown
// is called, or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker and waits for the loop to exit.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process scores one game and publishes the result.
func (w *Worker) process(ctx context.Context, job Job) error {
	start := time.Now()
	result, err := w.scorer.Score(ctx, job.Facts, job.Samples)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordScoringError()
		return fmt.Errorf("failed to score game %s: %w", job.Facts.GameID, err)
	}

	if result.Fallback {
		metrics.RecordFallbackScore()
	}
	metrics.RecordGameScored()

	if _, err := w.publisher.Upsert(ctx, result, job.Facts.Matchup()); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("publishing score for game %s: %w", job.Facts.GameID, err)
	}

	w.logger.Debug(ctx, "scored game",
		logger.String("gameID", job.Facts.GameID),
		logger.Float64("score", result.Score),
		logger.Float64("confidence", result.Confidence),
	)
	return nil
}

// Pool manages a set of workers draining one queue.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates and wires workerCount workers. A non-positive count
// defaults to a multiple of the CPU count.
func NewPool(workerCount int, queue Queue, scorer Scorer, publisher Publisher) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(queue, scorer, publisher, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits briefly for each to drain.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		select {
		case <-w.shutdown:
		default:
			close(w.shutdown)
		}
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}
