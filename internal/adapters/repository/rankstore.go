package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/spoilerfree/gei/internal/domain/model"
	"github.com/spoilerfree/gei/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Ordering: score DESC, then gameID ASC (deterministic). Writes touch one
// shard; TopN gathers across shards and sorts, which is cheap at the scale
// of a season's worth of games.

const defaultShardCount = 8

type record struct {
	result  model.ScoreResult
	matchup string
}

type shard struct {
	mu      sync.RWMutex
	records map[string]record
}

// RankStore implements Store with per-shard locking.
type RankStore struct {
	shardCount int
	shards     []*shard
}

// NewRankStore creates a ranking store with configuration options.
func NewRankStore(opts ...Option) *RankStore {
	s := &RankStore{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]record)}
	}
	metrics.UpdateStoreShardCount(s.shardCount)
	return s
}

func (s *RankStore) shardFor(gameID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(gameID))
	return s.shards[int(h.Sum32())%s.shardCount]
}

// Upsert records the result for a game, replacing any previous one.
func (s *RankStore) Upsert(ctx context.Context, result model.ScoreResult, matchup string) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if result.GameID == "" {
		return false, ErrNotFound
	}

	sh := s.shardFor(result.GameID)
	sh.mu.Lock()
	_, existed := sh.records[result.GameID]
	sh.records[result.GameID] = record{result: result, matchup: matchup}
	sh.mu.Unlock()

	metrics.UpdateRankedGames(s.Count(ctx))
	return !existed, nil
}

// Get returns the stored result for a game.
func (s *RankStore) Get(_ context.Context, gameID string) (model.ScoreResult, error) {
	sh := s.shardFor(gameID)
	sh.mu.RLock()
	rec, ok := sh.records[gameID]
	sh.mu.RUnlock()
	if !ok {
		return model.ScoreResult{}, ErrNotFound
	}
	return rec.result, nil
}

// TopN returns the n most exciting games.
func (s *RankStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	var all []Entry
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id, rec := range sh.records {
			all = append(all, Entry{
				GameID:     id,
				Matchup:    rec.matchup,
				Score:      rec.result.Score,
				Confidence: rec.result.Confidence,
				Narrative:  rec.result.Narrative,
			})
		}
		sh.mu.RUnlock()
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].GameID < all[j].GameID
	})

	if n > len(all) {
		n = len(all)
	}
	top := all[:n]
	for i := range top {
		top[i].Rank = i + 1
	}
	return top, nil
}

// Count returns the number of games tracked across all shards.
func (s *RankStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.records)
		sh.mu.RUnlock()
	}
	return total
}
