package model_test

import (
	"testing"

	"github.com/spoilerfree/gei/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGameFacts(t *testing.T) {
	Convey("Given game facts", t, func() {
		facts := model.GameFacts{
			GameID:    "game-1",
			HomeTeam:  "Home",
			AwayTeam:  "Away",
			HomeScore: 24,
			AwayScore: 31,
		}

		Convey("When computing the margin", func() {
			Convey("Then it should be absolute", func() {
				So(facts.Margin(), ShouldEqual, 7)

				facts.HomeScore, facts.AwayScore = 31, 24
				So(facts.Margin(), ShouldEqual, 7)
			})
		})

		Convey("When computing total points", func() {
			So(facts.TotalPoints(), ShouldEqual, 55)
		})

		Convey("When building the matchup label", func() {
			Convey("Then it should read away at home", func() {
				So(facts.Matchup(), ShouldEqual, "Away at Home")
			})

			Convey("And it should fall back to the game ID when a team is missing", func() {
				facts.HomeTeam = ""
				So(facts.Matchup(), ShouldEqual, "game-1")
			})
		})
	})
}
