package simgames

import "time"

// Config holds configuration for the game simulation run.
type Config struct {
	BaseURL  string        // Base URL of the service
	NumGames int           // Number of games to generate
	TopN     int           // Number of ranking rows to fetch
	Workers  int           // Number of concurrent submitters
	Timeout  time.Duration // HTTP request timeout
	Seed     int64         // Seed for the shape generator
	Verbose  bool          // Enable verbose logging
}

// Game is one generated submission payload.
type Game struct {
	Shape   string           `json:"shape"`
	Game    map[string]any   `json:"game"`
	Samples []map[string]any `json:"samples"`
}

// Entry mirrors a ranking row returned by GET /rankings.
type Entry struct {
	Rank       int     `json:"rank"`
	GameID     string  `json:"game_id"`
	Matchup    string  `json:"matchup"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Narrative  string  `json:"narrative"`
}

// AckResponse mirrors the response from game submission.
type AckResponse struct {
	Status  string `json:"status"`
	Receipt struct {
		JobID     string `json:"job_id"`
		GameID    string `json:"game_id"`
		Duplicate bool   `json:"duplicate"`
	} `json:"receipt"`
}

// Stats holds simulation statistics.
type Stats struct {
	GamesGenerated  int
	GamesSubmitted  int
	GamesAccepted   int
	GamesDuplicate  int
	GamesFailed     int
	RankingsFetched int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
