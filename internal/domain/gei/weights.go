package gei

import "github.com/spoilerfree/gei/internal/domain/model"

// Component names shared by the weight vector, the combiner, and the
// breakdown map.
const (
	ComponentUncertainty    = "uncertainty"
	ComponentPersistence    = "persistence"
	ComponentPeaks          = "peaks"
	ComponentComeback       = "comeback"
	ComponentTension        = "tension"
	ComponentNarrative      = "narrative"
	ComponentDramaticFinish = "dramaticFinish"
)

// BaseWeights returns the default weight vector over the seven scored
// components. The weights sum to 1.0.
func BaseWeights() map[string]float64 {
	return map[string]float64{
		ComponentUncertainty:    0.20,
		ComponentPersistence:    0.15,
		ComponentPeaks:          0.15,
		ComponentComeback:       0.15,
		ComponentTension:        0.15,
		ComponentNarrative:      0.10,
		ComponentDramaticFinish: 0.10,
	}
}

// Re-weighting thresholds. Each nudge is gated on one extractor's output.
const (
	manyLeadChanges = 6
	strongComeback  = 40.0
	highTension     = 24.0
	noisySeries     = 18.0
)

// AdaptWeights perturbs the base vector according to the shape of the
// extracted features. Nudges are additive and deliberately unclamped; the
// base magnitudes keep the result sane. The input map is not modified.
func AdaptWeights(base map[string]float64, fs model.FeatureSet) map[string]float64 {
	w := make(map[string]float64, len(base))
	for k, v := range base {
		w[k] = v
	}

	// A see-saw game tells its story through lead changes, not the finish.
	if fs.LeadChanges >= manyLeadChanges {
		w[ComponentDramaticFinish] -= 0.04
		w[ComponentPersistence] += 0.02
		w[ComponentPeaks] += 0.02
	}

	// Big swings make the comeback signal the headline.
	if fs.Comeback > strongComeback {
		w[ComponentUncertainty] -= 0.03
		w[ComponentPersistence] -= 0.02
		w[ComponentComeback] += 0.05
	}

	if fs.Tension > highTension {
		w[ComponentPeaks] -= 0.02
		w[ComponentNarrative] -= 0.02
		w[ComponentTension] += 0.04
	}

	// A noisy series makes pointwise features less trustworthy than the
	// overall arc.
	if fs.Noise > noisySeries {
		w[ComponentPeaks] -= 0.02
		w[ComponentComeback] -= 0.02
		w[ComponentNarrative] += 0.04
	}

	return w
}
