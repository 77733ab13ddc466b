package gei_test

import (
	"testing"

	"github.com/spoilerfree/gei/internal/domain/gei"
	"github.com/spoilerfree/gei/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNarrativeFlow(t *testing.T) {
	Convey("Given the narrative-flow scorer", t, func() {
		Convey("When the game builds to a tight overtime finish", func() {
			facts := model.GameFacts{HomeScore: 38, AwayScore: 35, Overtime: true}
			flow := gei.NarrativeFlow(series(sineSeries(120, 20, 7)), facts)

			Convey("Then the flow score should be high", func() {
				So(flow, ShouldBeGreaterThan, 5)
				So(flow, ShouldBeLessThanOrEqualTo, 10)
			})
		})

		Convey("When the game flatlines after an early lead", func() {
			facts := model.GameFacts{HomeScore: 42, AwayScore: 14}
			flow := gei.NarrativeFlow(series(blowoutSeries(120)), facts)

			Convey("Then the flow score should be low", func() {
				So(flow, ShouldBeLessThan, 2.5)
			})
		})

		Convey("When margins shrink with everything else equal", func() {
			samples := series(sineSeries(120, 20, 7))
			close3 := gei.NarrativeFlow(samples, model.GameFacts{HomeScore: 24, AwayScore: 21})
			close7 := gei.NarrativeFlow(samples, model.GameFacts{HomeScore: 28, AwayScore: 21})
			wide21 := gei.NarrativeFlow(samples, model.GameFacts{HomeScore: 42, AwayScore: 21})

			Convey("Then the resolution phase should reward the closer game", func() {
				So(close3, ShouldBeGreaterThan, close7)
				So(close7, ShouldBeGreaterThan, wide21)
			})
		})

		Convey("When the series is empty", func() {
			So(gei.NarrativeFlow(nil, model.GameFacts{}), ShouldEqual, 0)
		})
	})
}
