package gei

import (
	"math"

	"github.com/spoilerfree/gei/internal/domain/model"
)

// Preprocessing constants.
const (
	// MinSamples is the smallest cleaned series the extractors accept;
	// anything shorter is routed to the fallback model by the engine.
	MinSamples = 10

	minProbability = 0.1
	maxProbability = 99.9

	// defaultGameSeconds backs the linear clock fill when a sample has no
	// time-remaining estimate.
	defaultGameSeconds = 3600.0

	// Bounded local smoothing: deviations from the window mean strictly
	// inside (smoothBandLow, smoothBandHigh) are treated as jitter and
	// blended toward the mean. Smaller deviations are legitimate movement;
	// larger ones are real swings. Both are left untouched.
	smoothRadius     = 3
	smoothBandLow    = 15.0
	smoothBandHigh   = 30.0
	smoothSelfWeight = 0.7
)

// Preprocess returns a cleaned copy of the raw series: probabilities on a
// consistent [0.1, 99.9] percent scale, time remaining always filled, and
// medium single-sample jitter smoothed away. The input is not modified.
func Preprocess(raw []model.ProbabilitySample) []model.ProbabilitySample {
	n := len(raw)
	cleaned := make([]model.ProbabilitySample, n)

	for i, s := range raw {
		p := s.Probability
		if math.IsNaN(p) || math.IsInf(p, 0) {
			p = 50 // malformed probabilities default to a coin flip
		}
		if p <= 1 {
			p *= 100 // fraction scale
		}
		p = clamp(p, minProbability, maxProbability)

		remaining := s.TimeRemaining
		if remaining < 0 || math.IsNaN(remaining) {
			remaining = defaultGameSeconds * (1 - float64(i)/float64(n))
		}

		period := s.Period
		if period < 1 {
			period = 1
		}

		cleaned[i] = model.ProbabilitySample{
			Probability:   p,
			Period:        period,
			TimeRemaining: remaining,
			Index:         i,
			HomeScore:     s.HomeScore,
			AwayScore:     s.AwayScore,
			HasScore:      s.HasScore,
		}
	}

	smooth(cleaned)
	return cleaned
}

// smooth applies the bounded local filter in place. Window means are taken
// over the pre-smoothing values so the result does not depend on scan order.
func smooth(samples []model.ProbabilitySample) {
	n := len(samples)
	if n <= 2*smoothRadius {
		return
	}

	original := make([]float64, n)
	for i, s := range samples {
		original[i] = s.Probability
	}

	for i := smoothRadius; i < n-smoothRadius; i++ {
		var sum float64
		for j := i - smoothRadius; j <= i+smoothRadius; j++ {
			sum += original[j]
		}
		mean := sum / float64(2*smoothRadius+1)

		dev := math.Abs(original[i] - mean)
		if dev > smoothBandLow && dev < smoothBandHigh {
			samples[i].Probability = smoothSelfWeight*original[i] + (1-smoothSelfWeight)*mean
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
