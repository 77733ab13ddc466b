package gei

import (
	"context"
	"fmt"

	"github.com/spoilerfree/gei/internal/domain/model"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithBaseWeights overrides the default component weight vector. Unknown
// component names are dropped; an empty map is ignored.
func WithBaseWeights(weights map[string]float64) Option {
	return func(e *Engine) {
		if len(weights) == 0 {
			return
		}
		base := BaseWeights()
		merged := make(map[string]float64, len(base))
		for name, def := range base {
			if w, ok := weights[name]; ok && w >= 0 {
				merged[name] = w
			} else {
				merged[name] = def
			}
		}
		e.baseWeights = merged
	}
}

// WithMinSamples sets the minimum cleaned-series length below which the
// fallback model is used.
func WithMinSamples(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minSamples = n
		}
	}
}

// Engine is the deterministic scoring pipeline. It holds configuration
// only; scoring carries no cross-game state, so one Engine may be shared
// by any number of concurrent workers.
type Engine struct {
	baseWeights map[string]float64
	minSamples  int
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		baseWeights: BaseWeights(),
		minSamples:  MinSamples,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score runs the full pipeline for one game and always returns a
// well-formed result for syntactically valid input: short or missing
// series route to the fallback model, and an unexpected computation
// failure anywhere in the extractors degrades to the fallback rather than
// propagating.
func (e *Engine) Score(ctx context.Context, facts model.GameFacts, raw []model.ProbabilitySample) (result model.ScoreResult, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.ScoreResult{}, fmt.Errorf("context cancelled: %w", ctxErr)
	}

	gc := BuildContext(facts)

	defer func() {
		if r := recover(); r != nil {
			result = FallbackScore(facts, gc)
			err = nil
		}
	}()

	cleaned := Preprocess(raw)
	if len(cleaned) < e.minSamples {
		return FallbackScore(facts, gc), nil
	}

	features := ExtractFeatures(cleaned, facts)
	weights := AdaptWeights(e.baseWeights, features)
	return Combine(features, gc, facts, weights), nil
}
