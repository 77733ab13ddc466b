package ingest_test

import (
	"testing"

	"github.com/spoilerfree/gei/internal/domain/ingest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSamples(t *testing.T) {
	Convey("Given raw sample maps from different providers", t, func() {
		Convey("When the canonical field names are used", func() {
			raw := []map[string]any{
				{"probability": 62.5, "time_remaining": 1800.0, "period": 2.0},
			}
			samples := ingest.Samples(raw)

			So(samples, ShouldHaveLength, 1)
			So(samples[0].Probability, ShouldEqual, 62.5)
			So(samples[0].TimeRemaining, ShouldEqual, 1800)
			So(samples[0].Period, ShouldEqual, 2)
		})

		Convey("When a provider uses alternate field names", func() {
			raw := []map[string]any{
				{"win_probability": 40.0, "secondsRemaining": 900.0, "quarter": 4},
				{"homeWinPct": 55.0, "clock": 300.0, "half": 2},
			}
			samples := ingest.Samples(raw)

			So(samples[0].Probability, ShouldEqual, 40)
			So(samples[0].TimeRemaining, ShouldEqual, 900)
			So(samples[0].Period, ShouldEqual, 4)
			So(samples[1].Probability, ShouldEqual, 55)
			So(samples[1].TimeRemaining, ShouldEqual, 300)
			So(samples[1].Period, ShouldEqual, 2)
		})

		Convey("When numbers arrive as strings", func() {
			raw := []map[string]any{
				{"probability": "72.5", "time_remaining": " 600 "},
			}
			samples := ingest.Samples(raw)

			So(samples[0].Probability, ShouldEqual, 72.5)
			So(samples[0].TimeRemaining, ShouldEqual, 600)
		})

		Convey("When a sample has no recognizable probability", func() {
			raw := []map[string]any{
				{"something_else": 1.0},
				{"probability": 30.0},
			}
			samples := ingest.Samples(raw)

			Convey("Then it should default to even rather than be dropped", func() {
				So(samples, ShouldHaveLength, 2)
				So(samples[0].Probability, ShouldEqual, 50)
				So(samples[1].Probability, ShouldEqual, 30)
			})
		})

		Convey("When the clock field is absent", func() {
			samples := ingest.Samples([]map[string]any{{"probability": 50.0}})

			Convey("Then time remaining should be marked unknown", func() {
				So(samples[0].TimeRemaining, ShouldEqual, -1)
			})
		})

		Convey("When scoreboard snapshots are embedded", func() {
			raw := []map[string]any{
				{"probability": 50.0, "home_score": 14, "away_score": 10},
				{"probability": 50.0, "home_score": 14}, // away missing
			}
			samples := ingest.Samples(raw)

			So(samples[0].HasScore, ShouldBeTrue)
			So(samples[0].HomeScore, ShouldEqual, 14)
			So(samples[0].AwayScore, ShouldEqual, 10)
			So(samples[1].HasScore, ShouldBeFalse)
		})
	})
}

func TestFacts(t *testing.T) {
	Convey("Given raw game records", t, func() {
		Convey("When the record is fully populated", func() {
			raw := map[string]any{
				"game_id":          "g-1",
				"sport":            "football",
				"home_team":        "Ridgeview",
				"away_team":        "Lakemont",
				"home_score":       31,
				"away_score":       28,
				"overtime":         true,
				"labels":           []any{"playoff", "rivalry"},
				"season_type":      3,
				"event_importance": 4.0,
				"pre_game_spread":  6.5,
				"expectation":      "upset alert",
			}
			facts := ingest.Facts(raw)

			So(facts.GameID, ShouldEqual, "g-1")
			So(facts.HomeTeam, ShouldEqual, "Ridgeview")
			So(facts.HomeScore, ShouldEqual, 31)
			So(facts.AwayScore, ShouldEqual, 28)
			So(facts.Overtime, ShouldBeTrue)
			So(facts.Labels, ShouldResemble, []string{"playoff", "rivalry"})
			So(facts.SeasonType, ShouldEqual, 3)
			So(facts.EventImportance, ShouldEqual, 4)
			So(facts.PreGameSpread, ShouldEqual, 6.5)
			So(facts.Expectation, ShouldEqual, "upset alert")
		})

		Convey("When alternate key spellings are used", func() {
			raw := map[string]any{
				"gameId":       "g-2",
				"homeTeam":     "A",
				"visitor_team": "B",
				"homeScore":    "21",
				"awayScore":    "17",
				"ot":           "true",
			}
			facts := ingest.Facts(raw)

			So(facts.GameID, ShouldEqual, "g-2")
			So(facts.AwayTeam, ShouldEqual, "B")
			So(facts.HomeScore, ShouldEqual, 21)
			So(facts.AwayScore, ShouldEqual, 17)
			So(facts.Overtime, ShouldBeTrue)
		})

		Convey("When labels arrive as a single string", func() {
			facts := ingest.Facts(map[string]any{"labels": "championship"})
			So(facts.Labels, ShouldResemble, []string{"championship"})
		})

		Convey("When quality metrics are present", func() {
			raw := map[string]any{
				"quality_metrics": map[string]any{
					"turnovers":       3.0,
					"efficiency":      0.52,
					"explosive_plays": 7,
				},
			}
			facts := ingest.Facts(raw)

			So(facts.Quality, ShouldNotBeNil)
			So(*facts.Quality.Turnovers, ShouldEqual, 3)
			So(*facts.Quality.Efficiency, ShouldEqual, 0.52)
			So(*facts.Quality.ExplosivePlays, ShouldEqual, 7)
		})

		Convey("When the quality block carries nothing usable", func() {
			raw := map[string]any{
				"quality_metrics": map[string]any{"unrelated": "x"},
			}
			So(ingest.Facts(raw).Quality, ShouldBeNil)
		})

		Convey("When the record is empty", func() {
			facts := ingest.Facts(map[string]any{})

			Convey("Then every field should hold its zero value", func() {
				So(facts.GameID, ShouldEqual, "")
				So(facts.HomeScore, ShouldEqual, 0)
				So(facts.Labels, ShouldBeNil)
				So(facts.Quality, ShouldBeNil)
			})
		})
	})
}
