// Package repository defines the excitement ranking store and the series
// cache abstraction.
package repository

import (
	"context"

	"github.com/spoilerfree/gei/internal/domain/model"
)

// Entry represents one ranking row. It exposes only spoiler-free fields.
type Entry struct {
	Rank       int
	GameID     string
	Matchup    string
	Score      float64
	Confidence float64
	Narrative  string
}

// Store provides read/write access to ranked score results.
type Store interface {
	// Upsert records the score result for a game, replacing any previous
	// result for the same game id. Returns true when the game was new.
	Upsert(ctx context.Context, result model.ScoreResult, matchup string) (bool, error)

	// Get returns the full score result for a game.
	// Returns ErrNotFound for an unknown game id.
	Get(ctx context.Context, gameID string) (model.ScoreResult, error)

	// TopN returns the n most exciting games, score descending with a
	// deterministic game-id tiebreak.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of games tracked.
	Count(ctx context.Context) int
}
