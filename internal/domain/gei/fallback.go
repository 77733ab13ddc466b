package gei

import (
	"math"

	"github.com/spoilerfree/gei/internal/domain/model"
)

// Fallback scoring constants. With no usable probability series the model
// leans entirely on final margin, overtime, and context flags.
const (
	fallbackMaxScore = 10.0

	fallbackHighTotal     = 50
	fallbackHighTotalBump = 1.0
	fallbackOvertimeBump  = 1.5
	fallbackStakesBump    = 0.5

	fallbackMinConfidence = 0.4
	fallbackMaxConfidence = 0.85
)

// FallbackScore derives a score without a probability series. It reuses
// the combiner's stakes, quality, and expectation multipliers so the two
// paths agree on context. Deterministic: same facts, same result.
func FallbackScore(facts model.GameFacts, gc model.GameContext) model.ScoreResult {
	var base float64
	switch margin := facts.Margin(); {
	case margin <= 3:
		base = 8.0
	case margin <= 7:
		base = 6.5
	case margin <= 14:
		base = 4.5
	default:
		base = 2.0
	}

	if facts.TotalPoints() > fallbackHighTotal {
		base += fallbackHighTotalBump
	}
	if facts.Overtime {
		base += fallbackOvertimeBump
	}
	if gc.IsPlayoff || gc.IsChampionship {
		base += fallbackStakesBump
	}

	stakes := StakesMultiplier(gc)
	quality := QualityMultiplier(gc.Quality)
	expectation := ExpectationMultiplier(gc.Expectation)

	score := clamp(base*stakes*quality*expectation, MinScore, fallbackMaxScore)

	return model.ScoreResult{
		GameID:     facts.GameID,
		Score:      score,
		Confidence: fallbackConfidence(stakes, quality),
		Breakdown: map[string]float64{
			"margin":      round1(float64(facts.Margin())),
			"base":        round1(base),
			"stakes":      round1(stakes),
			"quality":     round1(quality),
			"expectation": round1(expectation),
		},
		Narrative:  fallbackNarrative(facts, gc),
		KeyFactors: fallbackKeyFactors(facts, gc),
		Fallback:   true,
	}
}

// fallbackConfidence scales with how much context the multipliers carried:
// a neutral game sits low, a stakes-heavy one earns a bit more trust.
func fallbackConfidence(stakes, quality float64) float64 {
	informed := math.Abs(stakes-1) + math.Abs(quality-1)
	return clamp(0.55+informed*0.6, fallbackMinConfidence, fallbackMaxConfidence)
}

func fallbackNarrative(facts model.GameFacts, gc model.GameContext) string {
	phrases := make([]string, 0, maxNarrativePhrases)
	switch margin := facts.Margin(); {
	case margin <= 3:
		phrases = append(phrases, "Decided by a single possession")
	case margin <= 7:
		phrases = append(phrases, "Stayed within reach late")
	}
	if facts.TotalPoints() > fallbackHighTotal {
		phrases = append(phrases, "High-scoring affair")
	}
	phrases = append(phrases, contextPhrases(gc)...)
	return joinPhrases(phrases)
}

func fallbackKeyFactors(facts model.GameFacts, gc model.GameContext) []string {
	candidates := []factorCandidate{
		{"Final margin", 1 - math.Min(1, float64(facts.Margin())/28)},
		{"Game stakes", math.Min(1, (StakesMultiplier(gc)-minStakesMultiplier)/(maxStakesMultiplier-minStakesMultiplier))},
		{"Scoring pace", math.Min(1, float64(facts.TotalPoints())/80)},
	}
	return rankFactors(candidates)
}
