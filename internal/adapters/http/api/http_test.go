package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spoilerfree/gei/internal/adapters/http/api"
	"github.com/spoilerfree/gei/internal/adapters/repository"
	"github.com/spoilerfree/gei/internal/domain/model"
	"github.com/spoilerfree/gei/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	submitOK  bool
	duplicate bool
	submitted []map[string]any

	topN    []types.Entry
	topNErr error

	result    model.ScoreResult
	resultErr error
}

func (m *mockDependencies) Submit(_ context.Context, game map[string]any, _ []map[string]any) (types.Receipt, bool) {
	if !m.submitOK {
		return types.Receipt{}, false
	}
	m.submitted = append(m.submitted, game)
	gameID, _ := game["game_id"].(string)
	if m.duplicate {
		return types.Receipt{GameID: gameID, Duplicate: true}, true
	}
	return types.Receipt{JobID: "job-1", GameID: gameID}, true
}

func (m *mockDependencies) TopN(_ context.Context, n int) ([]api.Entry, error) {
	if m.topNErr != nil {
		return nil, m.topNErr
	}
	if n > len(m.topN) {
		return m.topN, nil
	}
	return m.topN[:n], nil
}

func (m *mockDependencies) Result(_ context.Context, _ string) (model.ScoreResult, error) {
	if m.resultErr != nil {
		return model.ScoreResult{}, m.resultErr
	}
	return m.result, nil
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

type ackResponse struct {
	Status  string        `json:"status"`
	Receipt types.Receipt `json:"receipt"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const validGame = `{
	"game": {
		"game_id": "game-123",
		"home_team": "Home",
		"away_team": "Away",
		"home_score": 30,
		"away_score": 27
	},
	"samples": [
		{"win_probability": 55, "period": 1, "time_remaining": 3600},
		{"win_probability": 48, "period": 2, "time_remaining": 1800}
	]
}`

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{submitOK: true}
		statsProvider := &mockStatsProvider{stats: map[string]any{}}
		server := api.NewServer(deps, statsProvider, 100)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("And health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And games endpoint should reject an empty submission", func() {
				req := httptest.NewRequest("POST", "/games", strings.NewReader(`{}`))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And rankings endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/rankings?limit=10", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And game result endpoint should be accessible", func() {
				deps.result = model.ScoreResult{GameID: "game-123", Score: 7.5}
				req := httptest.NewRequest("GET", "/games/game-123", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestGamesHandler_HandlePostGame(t *testing.T) {
	Convey("Given a games handler", t, func() {
		deps := &mockDependencies{submitOK: true}
		handler := api.NewGamesHandler(deps)

		Convey("When handling a valid POST request", func() {
			req := httptest.NewRequest("POST", "/games", strings.NewReader(validGame))
			w := httptest.NewRecorder()

			Convey("Then it should return accepted status", func() {
				handler.HandlePostGame(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)

				var response ackResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Status, ShouldEqual, "accepted")
				So(response.Receipt.GameID, ShouldEqual, "game-123")
				So(response.Receipt.JobID, ShouldNotBeEmpty)
				So(response.Receipt.Duplicate, ShouldBeFalse)
			})
		})

		Convey("When handling a duplicate submission", func() {
			deps.duplicate = true
			req := httptest.NewRequest("POST", "/games", strings.NewReader(validGame))
			w := httptest.NewRecorder()

			Convey("Then it should return duplicate status", func() {
				handler.HandlePostGame(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response ackResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Status, ShouldEqual, "duplicate")
				So(response.Receipt.Duplicate, ShouldBeTrue)
			})
		})

		Convey("When handling an invalid JSON request", func() {
			req := httptest.NewRequest("POST", "/games", strings.NewReader(`{invalid json`))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostGame(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the game object is missing", func() {
			req := httptest.NewRequest("POST", "/games", strings.NewReader(`{"samples": []}`))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostGame(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/games", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandlePostGame(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the queue rejects under backpressure", func() {
			deps.submitOK = false
			req := httptest.NewRequest("POST", "/games", strings.NewReader(validGame))
			w := httptest.NewRecorder()

			Convey("Then it should return too many requests status", func() {
				handler.HandlePostGame(w, req)
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "backpressure")
			})
		})
	})
}

func TestRankingsHandler_HandleGetRankings(t *testing.T) {
	Convey("Given a rankings handler", t, func() {
		deps := &mockDependencies{
			submitOK: true,
			topN: []types.Entry{
				{Rank: 1, GameID: "game-1", Matchup: "Away at Home", Score: 9.1, Narrative: "A tense battle"},
				{Rank: 2, GameID: "game-2", Matchup: "B at A", Score: 7.7},
				{Rank: 3, GameID: "game-3", Matchup: "D at C", Score: 4.2},
			},
		}
		handler := api.NewRankingsHandler(deps, 100)

		Convey("When requesting the top N games", func() {
			req := httptest.NewRequest("GET", "/rankings?limit=2", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the top N entries", func() {
				handler.HandleGetRankings(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []types.Entry
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 2)
				So(response[0].GameID, ShouldEqual, "game-1")
				So(response[1].GameID, ShouldEqual, "game-2")
			})
		})

		Convey("When no limit is specified", func() {
			req := httptest.NewRequest("GET", "/rankings", nil)
			w := httptest.NewRecorder()

			handler.HandleGetRankings(w, req)

			Convey("Then it should return 400 Bad Request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the limit exceeds the configured maximum", func() {
			req := httptest.NewRequest("GET", "/rankings?limit=500", nil)
			w := httptest.NewRecorder()

			handler.HandleGetRankings(w, req)

			Convey("Then it should return 400 with a limit code", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the ranking store returns an error", func() {
			deps.topNErr = fmt.Errorf("store error")
			req := httptest.NewRequest("GET", "/rankings?limit=10", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleGetRankings(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestResultHandler_HandleGetResult(t *testing.T) {
	Convey("Given a result handler", t, func() {
		deps := &mockDependencies{
			submitOK: true,
			result: model.ScoreResult{
				GameID:     "game-123",
				Score:      8.4,
				Confidence: 0.92,
				Breakdown:  map[string]float64{"uncertainty": 1.2},
			},
		}
		handler := api.NewResultHandler(deps)

		Convey("When requesting a scored game", func() {
			req := httptest.NewRequest("GET", "/games/game-123", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the full result", func() {
				handler.HandleGetResult(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var response model.ScoreResult
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.GameID, ShouldEqual, "game-123")
				So(response.Score, ShouldEqual, 8.4)
				So(response.Breakdown, ShouldContainKey, "uncertainty")
			})
		})

		Convey("When the game was never scored", func() {
			deps.resultErr = repository.ErrNotFound
			req := httptest.NewRequest("GET", "/games/unknown", nil)
			w := httptest.NewRecorder()

			handler.HandleGetResult(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the path has no game ID", func() {
			req := httptest.NewRequest("GET", "/games/", nil)
			w := httptest.NewRecorder()

			handler.HandleGetResult(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the store returns another error", func() {
			deps.resultErr = fmt.Errorf("store error")
			req := httptest.NewRequest("GET", "/games/game-123", nil)
			w := httptest.NewRecorder()

			handler.HandleGetResult(w, req)

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling a health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]any{
				"rankedGames": 42,
				"queueLength": 3,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling a stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]any
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["rankedGames"], ShouldEqual, 42)
				So(response["queueLength"], ShouldEqual, 3)
			})
		})
	})
}
