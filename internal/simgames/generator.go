package simgames

import (
	"context"
	"math"
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/spoilerfree/gei/pkg/logger"
)

// Game shape names. Each shape produces a recognizably different
// win-probability trajectory so the resulting ranking is easy to sanity
// check: thrillers and overtime games should sit above blowouts.
const (
	ShapeThriller = "thriller"
	ShapeOvertime = "overtime"
	ShapeComeback = "comeback"
	ShapeBlowout  = "blowout"
	ShapeSparse   = "sparse"
)

const samplesPerGame = 120

var teamNames = []string{
	"Ridgeview", "Lakemont", "Harbor City", "Eastfield", "Summit",
	"Oak Valley", "Northgate", "Pinecrest", "Westbrook", "Silverton",
}

// generateGames builds the full batch, cycling through shapes so every
// run contains a mix of exciting and dull games.
func generateGames(ctx context.Context, config *Config, stats *Stats) []Game {
	rng := rand.New(rand.NewSource(config.Seed))
	shapes := []string{ShapeThriller, ShapeOvertime, ShapeComeback, ShapeBlowout, ShapeSparse}

	games := make([]Game, 0, config.NumGames)
	for i := 0; i < config.NumGames; i++ {
		shape := shapes[i%len(shapes)]
		games = append(games, generateGame(rng, shape, i))
	}
	stats.GamesGenerated = len(games)

	logger.Get().Info(ctx, "generated games",
		logger.Int("count", len(games)),
		logger.Int("shapes", len(shapes)))
	return games
}

func generateGame(rng *rand.Rand, shape string, ordinal int) Game {
	home := teamNames[rng.Intn(len(teamNames))]
	away := teamNames[rng.Intn(len(teamNames))]
	if away == home {
		away = away + " B"
	}

	g := Game{
		Shape: shape,
		Game: map[string]any{
			"game_id":   shape + "-" + strconv.Itoa(ordinal) + "-" + uuid.New().String()[:8],
			"sport":     "football",
			"home_team": home,
			"away_team": away,
		},
	}

	switch shape {
	case ShapeThriller:
		g.Samples = thrillerSeries(rng)
		g.Game["home_score"] = 31
		g.Game["away_score"] = 28
	case ShapeOvertime:
		g.Samples = overtimeSeries(rng)
		g.Game["home_score"] = 38
		g.Game["away_score"] = 35
		g.Game["overtime"] = true
	case ShapeComeback:
		g.Samples = comebackSeries(rng)
		g.Game["home_score"] = 27
		g.Game["away_score"] = 24
	case ShapeBlowout:
		g.Samples = blowoutSeries(rng)
		g.Game["home_score"] = 45
		g.Game["away_score"] = 10
	case ShapeSparse:
		// Too few samples on purpose; the service scores these with its
		// metadata model.
		g.Samples = nil
		g.Game["home_score"] = 24
		g.Game["away_score"] = 21
		g.Game["labels"] = []string{"playoff"}
	}
	return g
}

// thrillerSeries oscillates around 50 with growing late swings.
func thrillerSeries(rng *rand.Rand) []map[string]any {
	out := make([]map[string]any, 0, samplesPerGame)
	p := 50.0
	for i := 0; i < samplesPerGame; i++ {
		progress := float64(i) / float64(samplesPerGame-1)
		swing := (6 + 24*progress) * math.Sin(float64(i)/4)
		p = clampProb(50 + swing + rng.Float64()*4 - 2)
		out = append(out, sample(p, i, samplesPerGame))
	}
	return out
}

// overtimeSeries stays tight the whole way and ends near even before the
// extra period decides it.
func overtimeSeries(rng *rand.Rand) []map[string]any {
	out := make([]map[string]any, 0, samplesPerGame)
	for i := 0; i < samplesPerGame; i++ {
		p := clampProb(50 + 18*math.Sin(float64(i)/7) + rng.Float64()*6 - 3)
		s := sample(p, i, samplesPerGame)
		if i >= samplesPerGame*9/10 {
			s["period"] = 5
		}
		out = append(out, s)
	}
	return out
}

// comebackSeries collapses to a heavy deficit then recovers late.
func comebackSeries(rng *rand.Rand) []map[string]any {
	out := make([]map[string]any, 0, samplesPerGame)
	for i := 0; i < samplesPerGame; i++ {
		progress := float64(i) / float64(samplesPerGame-1)
		var p float64
		switch {
		case progress < 0.5:
			p = 50 - 80*progress // down to 10
		case progress < 0.85:
			p = 10 + 140*(progress-0.5) // climbing back
		default:
			p = 59 + 30*(progress-0.85)
		}
		out = append(out, sample(clampProb(p+rng.Float64()*4-2), i, samplesPerGame))
	}
	return out
}

// blowoutSeries drifts quickly to near certainty and stays there.
func blowoutSeries(rng *rand.Rand) []map[string]any {
	out := make([]map[string]any, 0, samplesPerGame)
	for i := 0; i < samplesPerGame; i++ {
		progress := float64(i) / float64(samplesPerGame-1)
		p := clampProb(50 + 48*math.Min(1, progress*3) + rng.Float64()*2 - 1)
		out = append(out, sample(p, i, samplesPerGame))
	}
	return out
}

func sample(p float64, i, n int) map[string]any {
	return map[string]any{
		"win_probability": p,
		"period":          1 + i*4/n,
		"time_remaining":  3600 * (1 - float64(i)/float64(n)),
	}
}

func clampProb(p float64) float64 {
	return math.Max(1, math.Min(99, p))
}
