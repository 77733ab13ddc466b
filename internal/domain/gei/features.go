package gei

import (
	"math"

	"github.com/spoilerfree/gei/internal/domain/model"
)

// Feature clamp ranges. No extractor may return a value outside its range;
// the weighted sum in the combiner relies on that.
const (
	maxUncertainty    = 50.0
	maxPeaks          = 200.0
	maxComeback       = 120.0
	maxTension        = 50.0
	maxNoise          = 50.0
	maxDramaticFinish = 100.0
	maxLeadChanges    = 30.0
)

// Extractor thresholds. The persistence streak floor and the comeback lag
// scale with series length so that a sparsely sampled game is measured over
// the same game-time horizons as a densely sampled one.
const (
	persistenceStreakDiv   = 8 // streak floor is n/8, clamped below
	persistenceStreakMin   = 2
	persistenceStreakMax   = 5
	persistenceMinBalance  = 30.0
	peakMinBalance         = 25.0
	peakNeighborSpan       = 2
	comebackLag            = 10 // full lag once the series reaches comebackDenseLen
	comebackDenseLen       = 50
	comebackLagDiv         = 5
	comebackLagMin         = 3
	comebackMinSwing       = 25.0
	comebackLateCutoff     = 0.75
	dramaticWindowFraction = 10 // final tenth of the series
)

// balance measures how close to even a single sample is: 50 at a dead-even
// game, 0 at a certainty.
func balance(p float64) float64 {
	return math.Max(0, 50-math.Abs(p-50))
}

// progress maps a sample index to [0, 1] game progress.
func progress(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// ExtractFeatures runs every extractor over the cleaned series. Extractors
// are independent pure functions; order does not matter.
func ExtractFeatures(samples []model.ProbabilitySample, facts model.GameFacts) model.FeatureSet {
	leadChanges, sources := LeadChanges(samples)
	return model.FeatureSet{
		Uncertainty:       TimeWeightedUncertainty(samples),
		Persistence:       UncertaintyPersistence(samples),
		Peaks:             PeakUncertainty(samples),
		Comeback:          ComebackFactor(samples, facts),
		Tension:           SituationalTension(samples),
		LeadChanges:       leadChanges,
		Noise:             SampleNoise(samples),
		DramaticFinish:    DramaticFinish(samples),
		NarrativeFlow:     NarrativeFlow(samples, facts),
		SampleCount:       len(samples),
		LeadChangeSources: sources,
	}
}

// TimeWeightedUncertainty averages per-sample balance with an exponential
// late-game weight, so sustained uncertainty near the end counts far more
// than an even first quarter. Range [0, 50].
func TimeWeightedUncertainty(samples []model.ProbabilitySample) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	var weighted, weights float64
	for i, s := range samples {
		w := math.Exp(2 * progress(i, n))
		weighted += balance(s.Probability) * w
		weights += w
	}
	return clamp(weighted/weights, 0, maxUncertainty)
}

// UncertaintyPersistence measures the fraction of the game spent genuinely
// contested: samples inside streaks of consecutive balance >= 30 count
// toward the fraction once the streak reaches the floor. The floor is n/8
// samples, clamped to [2, 5], so a 23-sample series needs 2 in a row where
// a 100-sample series needs 5. Range [0, 1].
func UncertaintyPersistence(samples []model.ProbabilitySample) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	minStreak := n / persistenceStreakDiv
	if minStreak < persistenceStreakMin {
		minStreak = persistenceStreakMin
	}
	if minStreak > persistenceStreakMax {
		minStreak = persistenceStreakMax
	}
	var contested, streak int
	flush := func() {
		if streak >= minStreak {
			contested += streak
		}
		streak = 0
	}
	for _, s := range samples {
		if balance(s.Probability) >= persistenceMinBalance {
			streak++
		} else {
			flush()
		}
	}
	flush()
	return clamp(float64(contested)/float64(n), 0, 1)
}

// PeakUncertainty finds local maxima of balance (each point against two
// neighbors on each side, balance > 25 required) and returns the mean peak
// height weighted by an exponential late-game factor. Range [0, 200].
func PeakUncertainty(samples []model.ProbabilitySample) float64 {
	n := len(samples)
	if n < 2*peakNeighborSpan+1 {
		return 0
	}
	var sum float64
	var count int
	for i := peakNeighborSpan; i < n-peakNeighborSpan; i++ {
		b := balance(samples[i].Probability)
		if b <= peakMinBalance {
			continue
		}
		isPeak := true
		for d := 1; d <= peakNeighborSpan; d++ {
			if b < balance(samples[i-d].Probability) || b < balance(samples[i+d].Probability) {
				isPeak = false
				break
			}
		}
		if !isPeak {
			continue
		}
		sum += b * math.Exp(1.5*progress(i, n))
		count++
	}
	if count == 0 {
		return 0
	}
	return clamp(sum/float64(count), 0, maxPeaks)
}

// ComebackFactor scores probability swings measured over a lagged window:
// ten samples on a series of 50 or more, n/5 samples (floor 3) below that.
// Swings beyond 25 points count as comeback events; the maximum swing, the
// event count, and the largest swing after 75% game progress combine into
// one factor, boosted when the final margin stayed close. Range [0, 120].
func ComebackFactor(samples []model.ProbabilitySample, facts model.GameFacts) float64 {
	n := len(samples)
	lag := comebackLag
	if n < comebackDenseLen {
		lag = n / comebackLagDiv
		if lag < comebackLagMin {
			lag = comebackLagMin
		}
	}
	if n <= lag {
		return 0
	}
	var maxSwing, lateMax float64
	var count int
	for i := lag; i < n; i++ {
		swing := math.Abs(samples[i].Probability - samples[i-lag].Probability)
		if swing <= comebackMinSwing {
			continue
		}
		count++
		if swing > maxSwing {
			maxSwing = swing
		}
		if progress(i, n) > comebackLateCutoff && swing > lateMax {
			lateMax = swing
		}
	}

	combined := 0.4*maxSwing + 5*float64(count) + 0.6*lateMax

	margin := facts.Margin()
	switch {
	case margin <= 3:
		combined *= 1.5
	case margin <= 7:
		combined *= 1.2
	}
	return clamp(combined, 0, maxComeback)
}

// SituationalTension accumulates balance under tiered progress- and
// magnitude-dependent weights, favoring close late-game stretches.
// Range [0, 50].
func SituationalTension(samples []model.ProbabilitySample) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	var sum float64
	for i, s := range samples {
		b := balance(s.Probability)
		prog := progress(i, n)
		switch {
		case prog > 0.9 && b > 30:
			sum += b * 2.0
		case prog > 0.75 && b > 25:
			sum += b * 1.3
		case b > 20:
			sum += b * 0.8
		}
	}
	return clamp(sum/float64(n), 0, maxTension)
}

// LeadChanges counts lead changes two ways: by walking embedded scoreboard
// snapshots when present, and by counting probability crossings of 50. The
// scoreboard is ground truth when available, but the probability counter is
// always computed, so the larger of the two is reported. Range [0, 30].
func LeadChanges(samples []model.ProbabilitySample) (float64, map[string]float64) {
	var scoreboard, crossings int

	lastLeader := 0
	for _, s := range samples {
		if !s.HasScore {
			continue
		}
		leader := sign(s.HomeScore - s.AwayScore)
		if leader != 0 && lastLeader != 0 && leader != lastLeader {
			scoreboard++
		}
		if leader != 0 {
			lastLeader = leader
		}
	}

	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1].Probability, samples[i].Probability
		if (prev < 50 && cur > 50) || (prev > 50 && cur < 50) {
			crossings++
		}
	}

	count := scoreboard
	if crossings > count {
		count = crossings
	}
	sources := map[string]float64{
		"scoreboard":  float64(scoreboard),
		"probability": float64(crossings),
	}
	return clamp(float64(count), 0, maxLeadChanges), sources
}

// SampleNoise is the mean absolute probability change between consecutive
// samples. The combiner only ever uses it to discount, never to inflate.
// Range [0, 50].
func SampleNoise(samples []model.ProbabilitySample) float64 {
	n := len(samples)
	if n < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < n; i++ {
		sum += math.Abs(samples[i].Probability - samples[i-1].Probability)
	}
	return clamp(sum/float64(n-1), 0, maxNoise)
}

// DramaticFinish is the largest single-step probability swing inside the
// final tenth of the series. Range [0, 100].
func DramaticFinish(samples []model.ProbabilitySample) float64 {
	n := len(samples)
	if n < 2 {
		return 0
	}
	window := n / dramaticWindowFraction
	if window < 2 {
		window = 2
	}
	start := n - window
	if start < 1 {
		start = 1
	}
	var maxSwing float64
	for i := start; i < n; i++ {
		swing := math.Abs(samples[i].Probability - samples[i-1].Probability)
		if swing > maxSwing {
			maxSwing = swing
		}
	}
	return clamp(maxSwing, 0, maxDramaticFinish)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
