package gei

import (
	"math"
	"regexp"

	"github.com/spoilerfree/gei/internal/domain/model"
)

// Score bounds and compression.
const (
	MinScore = 0.5
	MaxScore = 9.8

	compressBase  = 1.0
	compressScale = 0.85
)

// Sub-score transforms. Each raw feature maps onto [0, 10] before
// weighting: a sigmoid for the open-ended features, a clamped linear for
// the persistence fraction, and identity/linear for the two features that
// are already bounded small.
const (
	subScoreScale = 10.0

	midUncertainty = 17.0
	midPeaks       = 70.0
	midComeback    = 35.0
	midTension     = 12.0

	persistenceLinearScale = 12.5  // 80% contested saturates the sub-score
	dramaticLinearScale    = 0.1   // swing of 100 points saturates
)

// Contextual multiplier bounds.
const (
	minStakesMultiplier  = 0.85
	maxStakesMultiplier  = 1.6
	minQualityMultiplier = 0.7
	maxQualityMultiplier = 1.3

	overtimeContextBoost = 1.1

	noisePenaltyOnset = 8.0
	noisePenaltyFloor = 30.0
	noisePenaltyMax   = 0.25

	// Density reference: series of this length or longer are full density.
	// Below it, per-step jitter reads larger and streaks read shorter, so
	// the noise penalty and the product get density adjustments. A sample
	// count of zero means the series length is unknown; both adjustments
	// stay neutral.
	denseSeriesLen   = 60.0
	sparseBoostLimit = 0.3
)

// Confidence model: start at 0.8, +0.04 per informative extractor, cap 1.0.
const (
	baseConfidence    = 0.8
	confidencePerGate = 0.04
)

var (
	upsetRe = regexp.MustCompile(`(?i)upset|shock|stun|surprise`)
	chalkRe = regexp.MustCompile(`(?i)dominant|chalk|expected|blowout`)
)

// sigmoidTransform compresses an open-ended feature onto [0, scale] with a
// soft knee at the midpoint.
func sigmoidTransform(value, midpoint float64) float64 {
	return subScoreScale / (1 + math.Exp(-(value-midpoint)/(midpoint*0.3)))
}

// Combine forms the weighted sum of the transformed sub-scores, applies the
// contextual multipliers, compresses into [0.5, 9.8], and derives the
// confidence from feature agreement.
func Combine(fs model.FeatureSet, gc model.GameContext, facts model.GameFacts, weights map[string]float64) model.ScoreResult {
	sub := map[string]float64{
		ComponentUncertainty:    sigmoidTransform(fs.Uncertainty, midUncertainty),
		ComponentPersistence:    math.Min(subScoreScale, fs.Persistence*persistenceLinearScale),
		ComponentPeaks:          sigmoidTransform(fs.Peaks, midPeaks),
		ComponentComeback:       sigmoidTransform(fs.Comeback, midComeback),
		ComponentTension:        sigmoidTransform(fs.Tension, midTension),
		ComponentNarrative:      fs.NarrativeFlow,
		ComponentDramaticFinish: math.Min(subScoreScale, fs.DramaticFinish*dramaticLinearScale),
	}

	var weighted float64
	for name, w := range weights {
		weighted += w * sub[name]
	}

	contextFactor := scoringContextFactor(facts) * competitiveBalanceFactor(facts.Margin())
	stakes := StakesMultiplier(gc)
	quality := QualityMultiplier(gc.Quality)
	expectation := ExpectationMultiplier(gc.Expectation)
	noise := noisePenalty(fs.Noise, fs.SampleCount)

	product := weighted * contextFactor * stakes * quality * expectation * noise * sparseSeriesFactor(fs.SampleCount)
	score := clamp(compressBase+product*compressScale, MinScore, MaxScore)

	breakdown := map[string]float64{
		ComponentUncertainty:    round1(sub[ComponentUncertainty]),
		ComponentPersistence:    round1(sub[ComponentPersistence]),
		ComponentPeaks:          round1(sub[ComponentPeaks]),
		ComponentComeback:       round1(sub[ComponentComeback]),
		ComponentTension:        round1(sub[ComponentTension]),
		ComponentNarrative:      round1(sub[ComponentNarrative]),
		ComponentDramaticFinish: round1(sub[ComponentDramaticFinish]),
		"context":               round1(contextFactor),
		"stakes":                round1(stakes),
		"quality":               round1(quality),
		"expectation":           round1(expectation),
		"noise":                 round1(noise),
		"leadChanges":           round1(fs.LeadChanges),
	}

	narrative, keyFactors := BuildNarrative(fs, gc)

	return model.ScoreResult{
		GameID:     facts.GameID,
		Score:      score,
		Confidence: confidence(fs),
		Breakdown:  breakdown,
		Narrative:  narrative,
		KeyFactors: keyFactors,
	}
}

// confidence counts how many extractors produced a clearly informative
// signal. Seven independent gates, each worth 0.04 on top of 0.8.
func confidence(fs model.FeatureSet) float64 {
	gates := 0
	if fs.Uncertainty >= 20 {
		gates++
	}
	if fs.Persistence >= 0.25 {
		gates++
	}
	if fs.Peaks >= 40 {
		gates++
	}
	if fs.Comeback > 25 {
		gates++
	}
	if fs.Tension > 15 {
		gates++
	}
	if fs.DramaticFinish >= 20 {
		gates++
	}
	if fs.LeadChanges >= 3 {
		gates++
	}
	return math.Min(1, baseConfidence+confidencePerGate*float64(gates))
}

// scoringContextFactor rewards games with points on the board and gives
// overtime its bump on the primary path.
func scoringContextFactor(facts model.GameFacts) float64 {
	f := 1.0
	switch total := facts.TotalPoints(); {
	case total >= 60:
		f = 1.1
	case total >= 45:
		f = 1.05
	case total < 25:
		f = 0.85
	}
	if facts.Overtime {
		f *= overtimeContextBoost
	}
	return f
}

// competitiveBalanceFactor maps the final margin onto a multiplier band.
// Beyond 14 the factor never recovers, whatever the margin.
func competitiveBalanceFactor(margin int) float64 {
	switch {
	case margin <= 3:
		return 1.3
	case margin <= 7:
		return 1.15
	case margin <= 14:
		return 1.0
	default:
		return 0.8
	}
}

// StakesMultiplier converts context flags into a bounded multiplier.
// Shared by the primary combiner and the fallback model.
func StakesMultiplier(gc model.GameContext) float64 {
	m := 1.0
	if gc.IsChampionship {
		m += 0.25
	}
	if gc.IsPlayoff {
		m += 0.15
	}
	if gc.IsBowl {
		m += 0.10
	}
	if gc.IsRivalry {
		m += 0.10
	}
	if gc.IsElimination {
		m += 0.15
	}
	m += 0.03 * gc.ImportanceScore
	return clamp(m, minStakesMultiplier, maxStakesMultiplier)
}

// QualityMultiplier builds a bounded multiplier from whatever quality
// metrics the provider sent. Missing metrics contribute nothing.
func QualityMultiplier(q *model.QualityMetrics) float64 {
	if q == nil {
		return 1.0
	}
	m := 1.0
	if q.Turnovers != nil {
		switch {
		case *q.Turnovers >= 5:
			m -= 0.15 // sloppy game
		case *q.Turnovers <= 1:
			m += 0.05
		}
	}
	if q.Efficiency != nil {
		m += clamp((*q.Efficiency-0.45)*0.5, -0.15, 0.15)
	}
	if q.ExplosivePlays != nil {
		m += math.Min(0.1, *q.ExplosivePlays*0.015)
	}
	return clamp(m, minQualityMultiplier, maxQualityMultiplier)
}

// ExpectationMultiplier reads qualitative pre-game expectation text.
func ExpectationMultiplier(text string) float64 {
	switch {
	case text == "":
		return 1.0
	case upsetRe.MatchString(text):
		return 1.15
	case chalkRe.MatchString(text):
		return 0.92
	default:
		return 1.0
	}
}

// noisePenalty discounts the score as sample-to-sample noise rises past the
// onset, bottoming out at 0.75 once noise reaches the floor level. The raw
// noise is scaled down by sampling density first: on a sparse series each
// step spans more game time, so the same per-step change is signal, not
// jitter.
func noisePenalty(noise float64, sampleCount int) float64 {
	if sampleCount > 0 {
		noise *= math.Min(1, float64(sampleCount)/denseSeriesLen)
	}
	if noise <= noisePenaltyOnset {
		return 1.0
	}
	span := (noise - noisePenaltyOnset) / (noisePenaltyFloor - noisePenaltyOnset)
	return 1.0 - noisePenaltyMax*math.Min(1, span)
}

// sparseSeriesFactor lifts the product for series shorter than the density
// reference, linearly up to +30% as the count approaches zero. Extractors
// that integrate over samples systematically under-read short series; this
// keeps a 23-sample thriller in the same band as its 100-sample twin.
func sparseSeriesFactor(sampleCount int) float64 {
	if sampleCount <= 0 || float64(sampleCount) >= denseSeriesLen {
		return 1.0
	}
	return 1.0 + sparseBoostLimit*(denseSeriesLen-float64(sampleCount))/denseSeriesLen
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
