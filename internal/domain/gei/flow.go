package gei

import (
	"math"

	"github.com/spoilerfree/gei/internal/domain/model"
)

// Narrative-flow phase weights. Climax dominates: a great game is one whose
// last quarter could have gone either way.
const (
	flowOpeningWeight     = 0.15
	flowDevelopmentWeight = 0.25
	flowClimaxWeight      = 0.45
	flowResolutionWeight  = 0.15

	openingMaxSamples     = 20
	developmentStartFrac  = 0.3
	developmentEndFrac    = 0.7
	developmentMoveSize   = 8.0
	climaxWindowFraction  = 4 // final quarter of the series
	resolutionTailSamples = 5
)

// NarrativeFlow scores the shape of the game as a story in four phases:
// opening tone, mid-game development, climax intensity, and resolution.
// Each phase lands on [0, 10] and the weighted blend stays there.
func NarrativeFlow(samples []model.ProbabilitySample, facts model.GameFacts) float64 {
	if len(samples) == 0 {
		return 0
	}
	flow := flowOpeningWeight*openingTone(samples) +
		flowDevelopmentWeight*development(samples) +
		flowClimaxWeight*climaxIntensity(samples) +
		flowResolutionWeight*resolution(samples, facts)
	return clamp(flow, 0, 10)
}

// openingTone reads the first samples: a low opening balance means an early
// favorite and a weak start to the story.
func openingTone(samples []model.ProbabilitySample) float64 {
	k := len(samples)
	if k > openingMaxSamples {
		k = openingMaxSamples
	}
	var sum float64
	for _, s := range samples[:k] {
		sum += balance(s.Probability)
	}
	avg := sum / float64(k)
	return clamp(avg/5, 0, 10)
}

// development counts meaningful movement events through the middle of the
// game (30%-70% progress).
func development(samples []model.ProbabilitySample) float64 {
	n := len(samples)
	start := int(float64(n) * developmentStartFrac)
	end := int(float64(n) * developmentEndFrac)
	if start < 1 {
		start = 1
	}
	var moves int
	for i := start; i < end && i < n; i++ {
		if math.Abs(samples[i].Probability-samples[i-1].Probability) > developmentMoveSize {
			moves++
		}
	}
	return clamp(1.5*float64(moves), 0, 10)
}

// climaxIntensity blends peak balance, average balance, and volatility over
// the final quarter of the series.
func climaxIntensity(samples []model.ProbabilitySample) float64 {
	n := len(samples)
	window := n / climaxWindowFraction
	if window < 1 {
		window = 1
	}
	tail := samples[n-window:]

	var maxB, sumB, vol float64
	for i, s := range tail {
		b := balance(s.Probability)
		sumB += b
		if b > maxB {
			maxB = b
		}
		if i > 0 {
			vol += math.Abs(s.Probability - tail[i-1].Probability)
		}
	}
	avgB := sumB / float64(len(tail))
	meanVol := 0.0
	if len(tail) > 1 {
		meanVol = vol / float64(len(tail)-1)
	}

	score := 0.4*(maxB/5) + 0.35*(avgB/5) + 0.25*math.Min(10, meanVol*0.8)
	return clamp(score, 0, 10)
}

// resolution scores the final five samples from final balance, margin, and
// overtime. Overtime is as good as an ending gets.
func resolution(samples []model.ProbabilitySample, facts model.GameFacts) float64 {
	n := len(samples)
	k := resolutionTailSamples
	if k > n {
		k = n
	}
	var sum float64
	for _, s := range samples[n-k:] {
		sum += balance(s.Probability)
	}
	finalBalance := sum / float64(k)

	var score float64
	switch margin := facts.Margin(); {
	case facts.Overtime:
		score = 9.5
	case margin <= 3:
		score = 8.5
	case margin <= 7:
		score = 7.0
	case margin <= 14:
		score = 4.5
	default:
		score = 2.0
	}
	score += math.Min(0.5, finalBalance/100)
	return clamp(score, 0, 10)
}
