// Package types contains common types used across the application
package types

// Entry represents one row of the excitement ranking. It deliberately
// carries no final score and no winner so the listing stays spoiler-free.
type Entry struct {
	Rank       int     `json:"rank"`
	GameID     string  `json:"game_id"`
	Matchup    string  `json:"matchup"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Narrative  string  `json:"narrative"`
}

// Receipt acknowledges a game submission.
type Receipt struct {
	JobID     string `json:"job_id,omitempty"`
	GameID    string `json:"game_id"`
	Duplicate bool   `json:"duplicate"`
}
