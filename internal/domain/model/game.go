// Package model contains domain models passed between layers.
package model

// ProbabilitySample is one observation of the home team's win chance at a
// point in the game. Samples produced by the preprocessor are immutable:
// Probability is in percent on [0.1, 99.9] and TimeRemaining is always set.
type ProbabilitySample struct {
	Probability   float64 // home-team win chance in percent
	Period        int     // 1-based period/quarter/half
	TimeRemaining float64 // seconds left in the game; negative means unknown
	Index         int     // position in the series, 0-based
	HomeScore     int     // embedded scoreboard snapshot, when present
	AwayScore     int
	HasScore      bool
}

// QualityMetrics carries optional quality-of-play numbers from upstream.
// Nil pointers mean the provider did not report the metric.
type QualityMetrics struct {
	Turnovers      *float64
	Efficiency     *float64
	ExplosivePlays *float64
}

// GameFacts is the static record for one finished game. Created once at
// ingestion and never mutated by the engine.
type GameFacts struct {
	GameID          string
	Sport           string
	HomeTeam        string
	AwayTeam        string
	HomeScore       int
	AwayScore       int
	Overtime        bool
	Labels          []string
	SeasonType      int     // 0 when the provider did not send one
	EventImportance float64 // explicit importance, 0 when unset
	Quality         *QualityMetrics
	PreGameSpread   float64
	Expectation     string // qualitative pre-game expectation text
	NeutralSite     bool
}

// Margin returns the absolute final margin.
func (f GameFacts) Margin() int {
	m := f.HomeScore - f.AwayScore
	if m < 0 {
		m = -m
	}
	return m
}

// TotalPoints returns the combined final score.
func (f GameFacts) TotalPoints() int {
	return f.HomeScore + f.AwayScore
}

// Matchup returns a spoiler-free label for the game.
func (f GameFacts) Matchup() string {
	if f.HomeTeam == "" || f.AwayTeam == "" {
		return f.GameID
	}
	return f.AwayTeam + " at " + f.HomeTeam
}

// GameContext is the derived, read-only view over GameFacts used by the
// score combiner and the fallback model.
type GameContext struct {
	Sport           string
	IsPlayoff       bool
	IsChampionship  bool
	IsBowl          bool
	IsRivalry       bool
	IsElimination   bool
	ImportanceScore float64
	Quality         *QualityMetrics
	PreGameSpread   float64
	Expectation     string
}

// FeatureSet bundles the extractor outputs for one score computation.
// Every field is clamped by its extractor; see the gei package for ranges.
type FeatureSet struct {
	Uncertainty       float64 // time-weighted balance, [0, 50]
	Persistence       float64 // contested fraction of the game, [0, 1]
	Peaks             float64 // mean weighted peak height, [0, 200]
	Comeback          float64 // comeback-dynamics factor, [0, 120]
	Tension           float64 // situational tension, [0, 50]
	LeadChanges       float64 // larger of scoreboard and probability counters, [0, 30]
	Noise             float64 // mean sample-to-sample change, [0, 50]
	DramaticFinish    float64 // max late swing, [0, 100]
	NarrativeFlow     float64 // four-phase flow score, [0, 10]
	SampleCount       int     // cleaned-series length; 0 when features were built directly
	LeadChangeSources map[string]float64
}

// ScoreResult is the only externally visible artifact of a score
// computation. Narrative and key factors never reveal score or winner.
type ScoreResult struct {
	GameID     string             `json:"game_id"`
	Score      float64            `json:"score"`      // [0.5, 9.8] ([0.5, 10.0] on the fallback path)
	Confidence float64            `json:"confidence"` // [0, 1]
	Breakdown  map[string]float64 `json:"breakdown"`  // rounded to 1 decimal place
	Narrative  string             `json:"narrative"`
	KeyFactors []string           `json:"key_factors"`
	Fallback   bool               `json:"fallback"`
}

// ScoreJob is the unit of work flowing through the queue: one game to score.
type ScoreJob struct {
	JobID   string
	Facts   GameFacts
	Samples []ProbabilitySample
}
