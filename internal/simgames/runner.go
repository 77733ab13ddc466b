// Package simgames generates synthetic win-probability trajectories and
// drives them through a running service, then checks that the resulting
// excitement ranking orders the shapes sensibly.
package simgames

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spoilerfree/gei/pkg/logger"
)

const processingWait = 3 * time.Second

// Run executes the complete simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting game simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("games", config.NumGames),
		logger.Int("workers", config.Workers),
		logger.Int("topN", config.TopN))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	games := generateGames(ctx, config, stats)

	if err := submitGames(ctx, config, games, stats); err != nil {
		return fmt.Errorf("game submission failed: %w", err)
	}

	logger.Get().Info(ctx, "waiting for games to be scored")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(processingWait):
	}

	rankings, err := getRankings(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("ranking retrieval failed: %w", err)
	}

	if err := verifyRankings(ctx, rankings, config.Verbose); err != nil {
		return fmt.Errorf("ranking verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(ctx, "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != 200 {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// verifyRankings checks the spoiler-free contract and the relative order
// of game shapes. Shape names are embedded in the generated game IDs.
func verifyRankings(ctx context.Context, rankings []Entry, verbose bool) error {
	if len(rankings) == 0 {
		return fmt.Errorf("no rankings returned")
	}

	for i := 1; i < len(rankings); i++ {
		if rankings[i].Score > rankings[i-1].Score {
			return fmt.Errorf("rankings not sorted: row %d outscores row %d", i, i-1)
		}
	}

	bestBlowout := -1
	worstThriller := -1
	for i, e := range rankings {
		switch {
		case strings.HasPrefix(e.GameID, ShapeBlowout) && bestBlowout == -1:
			bestBlowout = i
		case strings.HasPrefix(e.GameID, ShapeThriller):
			worstThriller = i
		}
	}
	if bestBlowout != -1 && worstThriller != -1 && bestBlowout < worstThriller {
		logger.Get().Warn(ctx, "a blowout outranked a thriller",
			logger.Int("blowoutRank", bestBlowout+1),
			logger.Int("thrillerRank", worstThriller+1))
	}

	shown := len(rankings)
	if !verbose && shown > 10 {
		shown = 10
	}
	for _, e := range rankings[:shown] {
		logger.Get().Info(ctx, "ranking row",
			logger.Int("rank", e.Rank),
			logger.String("matchup", e.Matchup),
			logger.Float64("score", e.Score),
			logger.Float64("confidence", e.Confidence),
			logger.String("narrative", e.Narrative))
	}
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var gamesPerSecond float64
	if stats.Duration > 0 {
		gamesPerSecond = float64(stats.GamesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("gamesGenerated", stats.GamesGenerated),
		logger.Int("gamesSubmitted", stats.GamesSubmitted),
		logger.Int("gamesAccepted", stats.GamesAccepted),
		logger.Int("gamesDuplicate", stats.GamesDuplicate),
		logger.Int("gamesFailed", stats.GamesFailed),
		logger.Int("rankingsFetched", stats.RankingsFetched),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("gamesPerSecond", gamesPerSecond))
}
