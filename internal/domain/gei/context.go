// Package gei implements the Game Excitement Index engine: a deterministic
// pipeline that turns a series of win-probability samples plus static game
// facts into a bounded excitement score with a spoiler-free narrative.
//
// Every function in this package is a pure computation over its inputs with
// no I/O and no shared state, so distinct games can be scored concurrently
// without coordination.
package gei

import (
	"regexp"

	"github.com/spoilerfree/gei/internal/domain/model"
)

// playoffSeasonType is the numeric season type at or above which a game is
// considered postseason regardless of labels.
const playoffSeasonType = 3

// Label classifiers. Independent on purpose: a label like "championship"
// sets both the playoff and championship flags.
var (
	playoffRe      = regexp.MustCompile(`(?i)playoff|postseason|championship|bowl`)
	championshipRe = regexp.MustCompile(`(?i)championship|title|final`)
	bowlRe         = regexp.MustCompile(`(?i)bowl`)
	rivalryRe      = regexp.MustCompile(`(?i)rivalry|classic|cup`)
	eliminationRe  = regexp.MustCompile(`(?i)elimination|winner-takes-all`)
)

// Importance step function used when no explicit importance is provided.
const (
	championshipImportance = 5
	playoffImportance      = 3
	rivalryImportance      = 2
)

// BuildContext derives the static stakes view over the game facts. It has
// no failure mode: missing fields simply leave flags false and passthrough
// fields zero.
func BuildContext(facts model.GameFacts) model.GameContext {
	gc := model.GameContext{
		Sport:         facts.Sport,
		Quality:       facts.Quality,
		PreGameSpread: facts.PreGameSpread,
		Expectation:   facts.Expectation,
	}

	gc.IsPlayoff = facts.SeasonType >= playoffSeasonType || matchAny(playoffRe, facts.Labels)
	gc.IsChampionship = matchAny(championshipRe, facts.Labels)
	gc.IsBowl = matchAny(bowlRe, facts.Labels)
	gc.IsRivalry = matchAny(rivalryRe, facts.Labels)
	gc.IsElimination = matchAny(eliminationRe, facts.Labels)

	switch {
	case facts.EventImportance > 0:
		gc.ImportanceScore = facts.EventImportance
	case gc.IsChampionship:
		gc.ImportanceScore = championshipImportance
	case gc.IsPlayoff:
		gc.ImportanceScore = playoffImportance
	case gc.IsRivalry:
		gc.ImportanceScore = rivalryImportance
	}

	return gc
}

func matchAny(re *regexp.Regexp, labels []string) bool {
	for _, l := range labels {
		if re.MatchString(l) {
			return true
		}
	}
	return false
}
