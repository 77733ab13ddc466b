// Package ingest resolves loosely-shaped upstream payloads into the strict
// domain types. Providers disagree on field names and scales, so the "best
// available field" decision is made exactly once here; nothing downstream
// ever re-sniffs a map.
package ingest

import (
	"strconv"
	"strings"

	"github.com/spoilerfree/gei/internal/domain/model"
)

// Alternate field names seen across upstream providers, in priority order.
var (
	probabilityKeys = []string{"probability", "win_probability", "winProbability", "home_win_pct", "homeWinPct", "p"}
	clockKeys       = []string{"time_remaining", "timeRemaining", "seconds_remaining", "secondsRemaining", "clock"}
	periodKeys      = []string{"period", "quarter", "half"}
	homeScoreKeys   = []string{"home_score", "homeScore"}
	awayScoreKeys   = []string{"away_score", "awayScore", "visitor_score", "visitorScore"}
)

// unknownClock marks a sample with no usable time-remaining estimate; the
// preprocessor fills it from game progress.
const unknownClock = -1

// Samples adapts a raw probability series. Samples with no recognizable
// probability field default to 50 rather than being dropped, keeping the
// series length meaningful for the fallback routing decision.
func Samples(raw []map[string]any) []model.ProbabilitySample {
	out := make([]model.ProbabilitySample, len(raw))
	for i, m := range raw {
		s := model.ProbabilitySample{
			Probability:   50,
			TimeRemaining: unknownClock,
			Index:         i,
		}
		if p, ok := firstFloat(m, probabilityKeys); ok {
			s.Probability = p
		}
		if clock, ok := firstFloat(m, clockKeys); ok && clock >= 0 {
			s.TimeRemaining = clock
		}
		if period, ok := firstFloat(m, periodKeys); ok && period >= 1 {
			s.Period = int(period)
		}
		home, hasHome := firstFloat(m, homeScoreKeys)
		away, hasAway := firstFloat(m, awayScoreKeys)
		if hasHome && hasAway {
			s.HomeScore = int(home)
			s.AwayScore = int(away)
			s.HasScore = true
		}
		out[i] = s
	}
	return out
}

// Facts adapts a raw game record. Every field is optional; malformed
// numerics default to zero values rather than failing the game.
func Facts(raw map[string]any) model.GameFacts {
	f := model.GameFacts{
		GameID:   firstString(raw, "game_id", "gameId", "id", "match_id"),
		Sport:    firstString(raw, "sport", "league"),
		HomeTeam: firstString(raw, "home_team", "homeTeam", "home"),
		AwayTeam: firstString(raw, "away_team", "awayTeam", "away", "visitor_team"),
	}
	if v, ok := firstFloat(raw, homeScoreKeys); ok {
		f.HomeScore = int(v)
	}
	if v, ok := firstFloat(raw, awayScoreKeys); ok {
		f.AwayScore = int(v)
	}
	f.Overtime = firstBool(raw, "overtime", "ot", "went_to_overtime")
	f.NeutralSite = firstBool(raw, "neutral_site", "neutralSite")
	f.Labels = stringList(raw, "labels", "notes", "tags")
	if v, ok := firstFloat(raw, []string{"season_type", "seasonType"}); ok {
		f.SeasonType = int(v)
	}
	if v, ok := firstFloat(raw, []string{"event_importance", "eventImportance", "importance"}); ok {
		f.EventImportance = v
	}
	if v, ok := firstFloat(raw, []string{"pre_game_spread", "preGameSpread", "spread"}); ok {
		f.PreGameSpread = v
	}
	f.Expectation = firstString(raw, "expectation", "expectation_text", "narrative_expectation")
	f.Quality = quality(raw)
	return f
}

func quality(raw map[string]any) *model.QualityMetrics {
	qm, ok := raw["quality_metrics"].(map[string]any)
	if !ok {
		if qm, ok = raw["qualityMetrics"].(map[string]any); !ok {
			return nil
		}
	}
	q := &model.QualityMetrics{}
	populated := false
	if v, found := firstFloat(qm, []string{"turnovers", "total_turnovers"}); found {
		q.Turnovers = &v
		populated = true
	}
	if v, found := firstFloat(qm, []string{"efficiency", "offensive_efficiency"}); found {
		q.Efficiency = &v
		populated = true
	}
	if v, found := firstFloat(qm, []string{"explosive_plays", "explosivePlays", "big_plays"}); found {
		q.ExplosivePlays = &v
		populated = true
	}
	if !populated {
		return nil
	}
	return q
}

// firstFloat returns the first key that resolves to a number. Strings that
// parse as numbers count; anything else is skipped.
func firstFloat(m map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if f, ok := asFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstBool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		switch t := m[k].(type) {
		case bool:
			return t
		case string:
			if b, err := strconv.ParseBool(t); err == nil {
				return b
			}
		}
	}
	return false
}

// stringList accepts either an array of strings or a single string value.
func stringList(m map[string]any, keys ...string) []string {
	for _, k := range keys {
		switch t := m[k].(type) {
		case []any:
			out := make([]string, 0, len(t))
			for _, item := range t {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case []string:
			if len(t) > 0 {
				return t
			}
		case string:
			if strings.TrimSpace(t) != "" {
				return []string{t}
			}
		}
	}
	return nil
}
