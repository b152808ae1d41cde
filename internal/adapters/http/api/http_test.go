package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	"github.com/JetxcheDev/f1-prode/internal/adapters/http/api"
	service "github.com/JetxcheDev/f1-prode/internal/app"
	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
	"github.com/JetxcheDev/f1-prode/internal/domain/types"
)

var generatedAt = time.Date(2024, 5, 26, 18, 0, 0, 0, time.UTC)

type mockDeps struct {
	set        ranking.RankingSet
	history    []scoring.HistoryEntry
	policy     types.PolicyInfo
	err        error
	refreshErr error

	lastView  string
	lastLimit int
	refreshes int
}

func (m *mockDeps) Rankings(context.Context) (ranking.RankingSet, error) {
	return m.set, m.err
}

func (m *mockDeps) View(_ context.Context, name string, limit int) (types.ViewResult, error) {
	m.lastView, m.lastLimit = name, limit
	if m.err != nil {
		return types.ViewResult{}, m.err
	}
	entries, err := m.set.View(name)
	if err != nil {
		return types.ViewResult{}, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return types.ViewResult{View: name, GeneratedAt: generatedAt, Entries: entries}, nil
}

func (m *mockDeps) UserScore(_ context.Context, userID string) (types.UserStanding, error) {
	if m.err != nil {
		return types.UserStanding{}, m.err
	}
	pos, err := m.set.Position(userID)
	if err != nil {
		return types.UserStanding{}, fmt.Errorf("%w: %s", service.ErrUserNotFound, userID)
	}
	return types.UserStanding{Rank: pos.Rank, UserScore: pos.UserScore, GeneratedAt: generatedAt}, nil
}

func (m *mockDeps) History(_ context.Context, userID string) ([]scoring.HistoryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, err := m.set.Position(userID); err != nil {
		return nil, service.ErrUserNotFound
	}
	return m.history, nil
}

func (m *mockDeps) Policy(context.Context) (types.PolicyInfo, error) {
	return m.policy, m.err
}

func (m *mockDeps) Refresh(context.Context) (types.RefreshSummary, error) {
	m.refreshes++
	if m.refreshErr != nil {
		return types.RefreshSummary{}, m.refreshErr
	}
	return types.RefreshSummary{GeneratedAt: generatedAt, Users: 3, ActiveParticipants: 2}, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newDeps() *mockDeps {
	scores := []model.UserScore{
		{UserID: "u1", DisplayName: "Ana", TotalPoints: 24, PoleHits: 1, TotalPoleVotes: 2, PoleAccuracy: 50,
			TotalCrashVotes: 2, CrashHits: 2, CrashAccuracy: 100, TotalPositionVotes: 20, PositionHits: 10,
			PositionAccuracy: 50, RacesParticipated: 2, HasVoted: true},
		{UserID: "u2", DisplayName: "Beto", TotalPoints: 15, TotalPoleVotes: 1, TotalCrashVotes: 1,
			TotalPositionVotes: 10, PositionHits: 8, PositionAccuracy: 80, RacesParticipated: 1, HasVoted: true},
		{UserID: "u3", DisplayName: "Caro"},
	}
	return &mockDeps{
		set: ranking.Build(scores),
		history: []scoring.HistoryEntry{{
			Event: model.Event{ID: "r2", Name: "Monaco"},
			Score: scoring.ForecastScore{EventID: "r2", Points: 1, CrashHit: true},
		}},
		policy: types.NewPolicyInfo(nil),
	}
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newDeps()
		stats := &mockStatsProvider{stats: map[string]interface{}{"refreshCount": 3}}
		mux := http.NewServeMux()
		api.NewServer(deps, stats, 5).Register(context.Background(), mux)

		Convey("Then /healthz serves Prometheus metrics", func() {
			w := serve(mux, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then /stats serves the provider's map", func() {
			w := serve(mux, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")

			var body map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body["refreshCount"], ShouldEqual, float64(3))
		})

		Convey("Then unregistered methods are rejected", func() {
			So(serve(mux, http.MethodPost, "/rankings").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(serve(mux, http.MethodGet, "/refresh").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestRankingsHandler(t *testing.T) {
	Convey("Given a registered API server with a limit cap of 5", t, func() {
		deps := newDeps()
		mux := http.NewServeMux()
		api.NewServer(deps, nil, 5).Register(context.Background(), mux)

		Convey("When GET /rankings", func() {
			w := serve(mux, http.MethodGet, "/rankings")

			Convey("Then every view is returned without non-participants", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var set ranking.RankingSet
				So(json.Unmarshal(w.Body.Bytes(), &set), ShouldBeNil)
				So(set.AllUsers, ShouldHaveLength, 2)
				So(set.TopOverall[0].UserID, ShouldEqual, "u1")
				So(set.Summary.ActiveParticipants, ShouldEqual, 2)
			})
		})

		Convey("When GET /rankings/{view} without a limit", func() {
			w := serve(mux, http.MethodGet, "/rankings/position")

			Convey("Then the view is returned whole", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastView, ShouldEqual, ranking.ViewPosition)
				So(deps.lastLimit, ShouldEqual, 0)

				var view types.ViewResult
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.Entries, ShouldHaveLength, 2)
				So(view.Entries[0].UserID, ShouldEqual, "u2")
				So(view.Entries[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When GET /rankings/overall?limit=1", func() {
			w := serve(mux, http.MethodGet, "/rankings/overall?limit=1")

			Convey("Then the view is truncated", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var view types.ViewResult
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.Entries, ShouldHaveLength, 1)
				So(deps.lastLimit, ShouldEqual, 1)
			})
		})

		Convey("When the limit is malformed", func() {
			for _, q := range []string{"abc", "0", "-3"} {
				w := serve(mux, http.MethodGet, "/rankings/overall?limit="+q)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			}
		})

		Convey("When the limit exceeds the cap", func() {
			w := serve(mux, http.MethodGet, "/rankings/overall?limit=6")

			Convey("Then it is rejected before reaching the service", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "limit_exceeded")
				So(deps.lastView, ShouldEqual, "")
			})
		})

		Convey("When the view is unknown", func() {
			w := serve(mux, http.MethodGet, "/rankings/fastest-lap")

			Convey("Then 404 unknown_view is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "unknown_view")
			})
		})

		Convey("When the gateway is unavailable", func() {
			deps.err = fmt.Errorf("fetch users: %w", gateway.ErrUnavailable)
			w := serve(mux, http.MethodGet, "/rankings")

			Convey("Then 503 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w)["code"], ShouldEqual, "unavailable")
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.err = errors.New("boom")
			w := serve(mux, http.MethodGet, "/rankings/overall")

			Convey("Then 500 is returned with the operation name", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "internal_error")
				So(body["message"], ShouldContainSubstring, "api.get_view")
			})
		})
	})
}

func TestUsersHandler(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newDeps()
		mux := http.NewServeMux()
		api.NewServer(deps, nil, 0).Register(context.Background(), mux)

		Convey("When GET /users/{id}/score for a ranked user", func() {
			w := serve(mux, http.MethodGet, "/users/u2/score")

			Convey("Then the standing carries the overall rank", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var standing types.UserStanding
				So(json.Unmarshal(w.Body.Bytes(), &standing), ShouldBeNil)
				So(standing.Rank, ShouldEqual, 2)
				So(standing.TotalPoints, ShouldEqual, 15)
				So(standing.GeneratedAt.Equal(generatedAt), ShouldBeTrue)
			})
		})

		Convey("When GET /users/{id}/score for an unknown user", func() {
			w := serve(mux, http.MethodGet, "/users/ghost/score")

			Convey("Then 404 not_found is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When GET /users/{id}/history", func() {
			w := serve(mux, http.MethodGet, "/users/u1/history")

			Convey("Then the breakdown is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var history []scoring.HistoryEntry
				So(json.Unmarshal(w.Body.Bytes(), &history), ShouldBeNil)
				So(history, ShouldHaveLength, 1)
				So(history[0].Score.CrashHit, ShouldBeTrue)
			})
		})

		Convey("When the user has no scored forecasts", func() {
			deps.history = nil
			w := serve(mux, http.MethodGet, "/users/u2/history")

			Convey("Then an empty list is returned, not null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, "[]\n")
			})
		})

		Convey("When GET /users/{id}/history for an unknown user", func() {
			So(serve(mux, http.MethodGet, "/users/ghost/history").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPolicyAndRefreshHandlers(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newDeps()
		mux := http.NewServeMux()
		api.NewServer(deps, nil, 0).Register(context.Background(), mux)

		Convey("When GET /policy", func() {
			w := serve(mux, http.MethodGet, "/policy")

			Convey("Then the default policy is described", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var info types.PolicyInfo
				So(json.Unmarshal(w.Body.Bytes(), &info), ShouldBeNil)
				So(info.Policy, ShouldResemble, scoring.Defaults())
				So(info.MaxEventPoints, ShouldEqual, scoring.Defaults().MaxEventPoints())
				So(info.Customized, ShouldBeFalse)
			})
		})

		Convey("When POST /refresh succeeds", func() {
			w := serve(mux, http.MethodPost, "/refresh")

			Convey("Then the summary is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.refreshes, ShouldEqual, 1)
				var summary types.RefreshSummary
				So(json.Unmarshal(w.Body.Bytes(), &summary), ShouldBeNil)
				So(summary.ActiveParticipants, ShouldEqual, 2)
			})
		})

		Convey("When POST /refresh fails", func() {
			deps.refreshErr = errors.New("fetch events: connection reset")
			w := serve(mux, http.MethodPost, "/refresh")

			Convey("Then 503 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w)["message"], ShouldContainSubstring, "connection reset")
			})
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given the API error helpers", t, func() {
		Convey("Then Wrap keeps nil as nil", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
		})

		Convey("Then NewKind matches its kind and names the op", func() {
			err := api.NewKind("api.op", api.ErrBadRequest)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request")
		})

		Convey("Then WrapKind matches both the kind and the cause", func() {
			err := api.WrapKind("api.op", api.ErrUnavailable, service.ErrNoGateway)
			So(errors.Is(err, api.ErrUnavailable), ShouldBeTrue)
			So(errors.Is(err, service.ErrNoGateway), ShouldBeTrue)
			So(api.WrapKind("api.op", api.ErrUnavailable, nil), ShouldWrap, api.ErrUnavailable)
		})
	})
}
