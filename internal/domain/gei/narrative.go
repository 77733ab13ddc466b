package gei

import (
	"math"
	"sort"
	"strings"

	"github.com/spoilerfree/gei/internal/domain/model"
)

// maxNarrativePhrases caps the narrative at three comma-joined phrases.
const maxNarrativePhrases = 3

// Narrative thresholds. Each phrase fires on one feature crossing its
// threshold; none of them mention scores, winners, or final outcomes.
const (
	narrativeLeadChanges = 3
	narrativeUncertainty = 28.0
	narrativeComeback    = 35.0
	narrativeFinishSwing = 25.0
	narrativePersistence = 0.5
	narrativeTension     = 20.0
)

// quietNarrative is used when no feature cleared its threshold.
const quietNarrative = "Limited suspense"

// BuildNarrative turns the feature set into a short spoiler-free
// description and a ranked list of the three most salient factors. Phrase
// selection and factor ranking are independent of each other.
func BuildNarrative(fs model.FeatureSet, gc model.GameContext) (string, []string) {
	phrases := make([]string, 0, maxNarrativePhrases)
	if fs.LeadChanges >= narrativeLeadChanges {
		phrases = append(phrases, "Multiple lead changes")
	}
	if fs.Uncertainty >= narrativeUncertainty {
		phrases = append(phrases, "Late drama")
	}
	if fs.Comeback > narrativeComeback {
		phrases = append(phrases, "Comeback drama")
	}
	if fs.DramaticFinish >= narrativeFinishSwing {
		phrases = append(phrases, "Frantic final stretch")
	}
	if fs.Persistence >= narrativePersistence {
		phrases = append(phrases, "Contested from start to finish")
	}
	if fs.Tension > narrativeTension {
		phrases = append(phrases, "High-pressure possessions")
	}
	phrases = append(phrases, contextPhrases(gc)...)

	return joinPhrases(phrases), keyFactors(fs)
}

// contextPhrases contributes at most one stakes phrase, most specific
// first.
func contextPhrases(gc model.GameContext) []string {
	switch {
	case gc.IsChampionship:
		return []string{"Championship stakes"}
	case gc.IsPlayoff:
		return []string{"Playoff intensity"}
	case gc.IsBowl:
		return []string{"Bowl-game atmosphere"}
	case gc.IsRivalry:
		return []string{"Rivalry matchup"}
	default:
		return nil
	}
}

func joinPhrases(phrases []string) string {
	if len(phrases) == 0 {
		return quietNarrative
	}
	if len(phrases) > maxNarrativePhrases {
		phrases = phrases[:maxNarrativePhrases]
	}
	return strings.Join(phrases, ", ")
}

// factorCandidate pairs a display name with a normalized magnitude used
// only for ranking.
type factorCandidate struct {
	name      string
	magnitude float64
}

// keyFactors ranks the fixed candidate list by normalized magnitude and
// returns the top three names.
func keyFactors(fs model.FeatureSet) []string {
	candidates := []factorCandidate{
		{"Lead changes", math.Min(1, fs.LeadChanges/8)},
		{"Sustained suspense", fs.Persistence},
		{"Late-game uncertainty", fs.Uncertainty / maxUncertainty},
		{"Comeback swings", fs.Comeback / maxComeback},
		{"Situational tension", fs.Tension / 40},
		{"Dramatic finish", fs.DramaticFinish / maxDramaticFinish},
		{"Story arc", fs.NarrativeFlow / 10},
	}
	return rankFactors(candidates)
}

// rankFactors sorts by magnitude descending with a name tiebreak so the
// output is deterministic, then keeps the top three.
func rankFactors(candidates []factorCandidate) []string {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].magnitude != candidates[j].magnitude {
			return candidates[i].magnitude > candidates[j].magnitude
		}
		return candidates[i].name < candidates[j].name
	})
	n := maxNarrativePhrases
	if len(candidates) < n {
		n = len(candidates)
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = candidates[i].name
	}
	return names
}
