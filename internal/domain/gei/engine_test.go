package gei_test

import (
	"context"
	"math"
	"testing"

	"github.com/spoilerfree/gei/internal/domain/gei"
	"github.com/spoilerfree/gei/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// series builds a cleaned-shape sample slice from raw probabilities.
func series(probs []float64) []model.ProbabilitySample {
	out := make([]model.ProbabilitySample, len(probs))
	for i, p := range probs {
		out[i] = model.ProbabilitySample{
			Probability:   p,
			Period:        1 + i*4/len(probs),
			TimeRemaining: 3600 * (1 - float64(i)/float64(len(probs))),
			Index:         i,
		}
	}
	return out
}

// sineSeries oscillates around 50 with the given amplitude; div controls
// the oscillation period in samples.
func sineSeries(n int, amp, div float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 50 + amp*math.Sin(float64(i)/div)
	}
	return out
}

// blowoutSeries drifts quickly from even to near certainty and stays there.
func blowoutSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		p := 50 + 12*float64(i)
		if p > 95 {
			p = 95
		}
		out[i] = p
	}
	return out
}

func TestEngineScore(t *testing.T) {
	Convey("Given a default engine", t, func() {
		engine := gei.New()
		ctx := context.Background()

		Convey("When scoring a back-and-forth game with a close finish", func() {
			facts := model.GameFacts{
				GameID:    "game-thriller",
				HomeScore: 30,
				AwayScore: 27,
			}
			result, err := engine.Score(ctx, facts, series(sineSeries(100, 30, 8)))

			Convey("Then it should land in the top band", func() {
				So(err, ShouldBeNil)
				So(result.Fallback, ShouldBeFalse)
				So(result.Score, ShouldBeGreaterThanOrEqualTo, 8.0)
				So(result.Score, ShouldBeLessThanOrEqualTo, gei.MaxScore)
			})

			Convey("And the narrative should stay spoiler-free", func() {
				So(result.Narrative, ShouldNotContainSubstring, "30")
				So(result.Narrative, ShouldNotContainSubstring, "27")
				So(result.Narrative, ShouldNotContainSubstring, "won")
			})

			Convey("And the breakdown should carry every component", func() {
				for _, name := range []string{
					gei.ComponentUncertainty, gei.ComponentPersistence,
					gei.ComponentPeaks, gei.ComponentComeback,
					gei.ComponentTension, gei.ComponentNarrative,
					gei.ComponentDramaticFinish,
				} {
					So(result.Breakdown, ShouldContainKey, name)
				}
			})
		})

		Convey("When a short series oscillates across the full range", func() {
			// 23 samples swinging between roughly 17% and 100%, close finish.
			probs := make([]float64, 23)
			for i := range probs {
				probs[i] = 58.5 + 41.5*math.Sin(0.41*float64(i))
			}
			facts := model.GameFacts{
				GameID:    "game-sparse-thriller",
				HomeScore: 33,
				AwayScore: 26,
			}
			result, err := engine.Score(ctx, facts, series(probs))

			Convey("Then sparse sampling should not pull it out of the top band", func() {
				So(err, ShouldBeNil)
				So(result.Fallback, ShouldBeFalse)
				So(result.Score, ShouldBeGreaterThanOrEqualTo, 8.0)
				So(result.Score, ShouldBeLessThanOrEqualTo, gei.MaxScore)
			})

			Convey("And the narrative should stay spoiler-free", func() {
				So(result.Narrative, ShouldNotContainSubstring, "33")
				So(result.Narrative, ShouldNotContainSubstring, "26")
				So(result.Narrative, ShouldNotContainSubstring, "won")
			})
		})

		Convey("When a short series whipsaws sample to sample", func() {
			probs := make([]float64, 23)
			for i := range probs {
				probs[i] = 58.5 + 41.5*math.Sin(1.3*float64(i))
			}
			facts := model.GameFacts{
				GameID:    "game-sparse-whipsaw",
				HomeScore: 33,
				AwayScore: 26,
			}
			result, err := engine.Score(ctx, facts, series(probs))

			Convey("Then the coarse steps should read as swings, not jitter", func() {
				So(err, ShouldBeNil)
				So(result.Score, ShouldBeGreaterThanOrEqualTo, 8.0)
				So(result.Score, ShouldBeLessThanOrEqualTo, gei.MaxScore)
			})
		})

		Convey("When only the margin differs between two runaway games", func() {
			samples := series(sineSeries(80, 20, 9))
			wide, err1 := engine.Score(ctx, model.GameFacts{GameID: "wide", HomeScore: 48, AwayScore: 22}, samples)
			wider, err2 := engine.Score(ctx, model.GameFacts{GameID: "wider", HomeScore: 57, AwayScore: 22}, samples)

			Convey("Then margins past the competitive range should score alike", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(wider.Score, ShouldEqual, wide.Score)
			})
		})

		Convey("When scoring a tight overtime game", func() {
			facts := model.GameFacts{
				GameID:    "game-overtime",
				HomeScore: 38,
				AwayScore: 35,
				Overtime:  true,
			}
			result, err := engine.Score(ctx, facts, series(sineSeries(120, 15, 7)))

			Convey("Then it should approach the cap", func() {
				So(err, ShouldBeNil)
				So(result.Score, ShouldBeGreaterThanOrEqualTo, 9.0)
				So(result.Score, ShouldBeLessThanOrEqualTo, gei.MaxScore)
			})
		})

		Convey("When scoring a blowout that was never in doubt", func() {
			facts := model.GameFacts{
				GameID:    "game-blowout",
				HomeScore: 35,
				AwayScore: 10,
			}
			result, err := engine.Score(ctx, facts, series(blowoutSeries(100)))

			Convey("Then it should land in the bottom band", func() {
				So(err, ShouldBeNil)
				So(result.Score, ShouldBeGreaterThanOrEqualTo, gei.MinScore)
				So(result.Score, ShouldBeLessThanOrEqualTo, 3.0)
			})
		})

		Convey("When the series is too short", func() {
			facts := model.GameFacts{
				GameID:    "game-short",
				HomeScore: 24,
				AwayScore: 21,
				Labels:    []string{"playoff"},
			}
			result, err := engine.Score(ctx, facts, series([]float64{50, 55, 48}))

			Convey("Then the fallback model should produce the result", func() {
				So(err, ShouldBeNil)
				So(result.Fallback, ShouldBeTrue)
				So(result.Score, ShouldBeGreaterThan, 0)
				So(result.Confidence, ShouldBeBetweenOrEqual, 0.4, 0.85)
			})
		})

		Convey("When the series is empty", func() {
			facts := model.GameFacts{GameID: "game-empty", HomeScore: 21, AwayScore: 20}
			result, err := engine.Score(ctx, facts, nil)

			So(err, ShouldBeNil)
			So(result.Fallback, ShouldBeTrue)
		})

		Convey("When scoring the same game twice", func() {
			facts := model.GameFacts{GameID: "game-repeat", HomeScore: 28, AwayScore: 24}
			samples := series(sineSeries(80, 25, 6))

			first, err1 := engine.Score(ctx, facts, samples)
			second, err2 := engine.Score(ctx, facts, samples)

			Convey("Then the results should be identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second.Score, ShouldEqual, first.Score)
				So(second.Confidence, ShouldEqual, first.Confidence)
				So(second.Narrative, ShouldEqual, first.Narrative)
				So(second.KeyFactors, ShouldResemble, first.KeyFactors)
				So(second.Breakdown, ShouldResemble, first.Breakdown)
			})
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := engine.Score(cancelled, model.GameFacts{GameID: "x"}, series(sineSeries(50, 20, 5)))

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given engines with custom options", t, func() {
		ctx := context.Background()

		Convey("When the minimum series length is raised", func() {
			engine := gei.New(gei.WithMinSamples(200))
			result, err := engine.Score(ctx, model.GameFacts{GameID: "g", HomeScore: 20, AwayScore: 17}, series(sineSeries(100, 20, 6)))

			Convey("Then a mid-length series should route to the fallback", func() {
				So(err, ShouldBeNil)
				So(result.Fallback, ShouldBeTrue)
			})
		})

		Convey("When base weights are overridden", func() {
			// A mid-excitement shape, so neither result clamps at a bound.
			facts := model.GameFacts{GameID: "g", HomeScore: 27, AwayScore: 17}
			samples := series(sineSeries(100, 18, 10))

			def, _ := gei.New().Score(ctx, facts, samples)
			skewed, _ := gei.New(gei.WithBaseWeights(map[string]float64{
				gei.ComponentUncertainty: 0.6,
			})).Score(ctx, facts, samples)

			Convey("Then the score should respond to the new vector", func() {
				So(skewed.Score, ShouldNotEqual, def.Score)
			})
		})
	})
}

func TestScoreBounds(t *testing.T) {
	Convey("Given a variety of game shapes", t, func() {
		engine := gei.New()
		ctx := context.Background()

		shapes := [][]float64{
			sineSeries(100, 49, 2),  // violent oscillation
			sineSeries(100, 5, 20),  // near-flat coin flip
			blowoutSeries(100),      // early certainty
			sineSeries(15, 40, 3),   // short but valid
			sineSeries(300, 35, 15), // long slow swings
		}

		Convey("Then every score should respect the engine bounds", func() {
			for i, shape := range shapes {
				facts := model.GameFacts{
					GameID:    "bounds",
					HomeScore: 20 + i,
					AwayScore: 17,
				}
				result, err := engine.Score(ctx, facts, series(shape))
				So(err, ShouldBeNil)
				So(result.Score, ShouldBeGreaterThanOrEqualTo, gei.MinScore)
				So(result.Score, ShouldBeLessThanOrEqualTo, gei.MaxScore)
				So(result.Confidence, ShouldBeBetweenOrEqual, 0, 1)
			}
		})
	})
}
