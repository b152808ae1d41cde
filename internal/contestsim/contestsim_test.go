package contestsim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	"github.com/JetxcheDev/f1-prode/internal/adapters/http/api"
	service "github.com/JetxcheDev/f1-prode/internal/app"
	"github.com/JetxcheDev/f1-prode/internal/contestsim"
	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/pkg/logger"
)

var now = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func TestGenerate(t *testing.T) {
	Convey("Given a small simulator config", t, func() {
		ctx := context.Background()
		cfg := contestsim.Config{Seed: 42, Users: 30, Events: 6, DecidedEvents: 4, Participation: 0.9, Lurkers: 0.2, Workers: 4}

		Convey("When generating a contest", func() {
			snap, err := contestsim.Generate(ctx, cfg, now)
			So(err, ShouldBeNil)

			Convey("Then the calendar has the requested shape", func() {
				So(snap.Users, ShouldHaveLength, 30)
				So(snap.Events, ShouldHaveLength, 6)
				So(snap.Results, ShouldHaveLength, 4)
				So(snap.Pilots, ShouldHaveLength, 20)
				for _, r := range snap.Results {
					So(r.Positions, ShouldHaveLength, model.TopSlots)
				}
			})

			Convey("And decided events lie before now while the rest are upcoming", func() {
				for i, e := range snap.Events {
					if i < 4 {
						So(e.ForecastDeadline.Before(now), ShouldBeTrue)
						So(e.Status, ShouldEqual, model.StatusCompleted)
					} else {
						So(e.Status, ShouldEqual, model.StatusUpcoming)
					}
				}
			})

			Convey("And every forecast references known users and events", func() {
				So(len(snap.Forecasts), ShouldBeGreaterThan, 0)
				userIDs := lo.Map(snap.Users, func(u model.User, _ int) string { return u.ID })
				eventIDs := lo.Map(snap.Events, func(e model.Event, _ int) string { return e.ID })
				for _, f := range snap.Forecasts {
					So(lo.Contains(userIDs, f.UserID), ShouldBeTrue)
					So(lo.Contains(eventIDs, f.EventID), ShouldBeTrue)
					So(f.Positions, ShouldHaveLength, model.TopSlots)
				}
				So(lo.UniqBy(snap.Forecasts, func(f model.Forecast) string { return f.ID }), ShouldHaveLength, len(snap.Forecasts))
			})

			Convey("And the same seed yields the same contest regardless of workers", func() {
				cfg.Workers = 1
				again, err := contestsim.Generate(ctx, cfg, now)
				So(err, ShouldBeNil)
				So(cmp.Diff(snap, again), ShouldBeEmpty)
			})

			Convey("And another seed yields another contest", func() {
				cfg.Seed = 7
				other, err := contestsim.Generate(ctx, cfg, now)
				So(err, ShouldBeNil)
				So(other.Users[0].ID, ShouldNotEqual, snap.Users[0].ID)
			})
		})

		Convey("When every user lurks", func() {
			cfg.Lurkers = 1
			snap, err := contestsim.Generate(ctx, cfg, now)

			Convey("Then nobody forecasts and the leaderboards are empty", func() {
				So(err, ShouldBeNil)
				So(snap.Forecasts, ShouldBeEmpty)
				set := contestsim.Expected(snap, now)
				So(set.AllUsers, ShouldBeEmpty)
				So(set.Summary.ActiveParticipants, ShouldEqual, 0)
			})
		})

		Convey("When the config is invalid", func() {
			for _, bad := range []contestsim.Config{
				{Users: -1},
				{Events: 3, DecidedEvents: 4},
				{Participation: 1.5},
				{Lurkers: -0.1},
			} {
				_, err := contestsim.Generate(ctx, bad, now)
				So(err, ShouldWrap, contestsim.ErrInvalidConfig)
			}
		})
	})
}

func TestCompareEntries(t *testing.T) {
	Convey("Given an expected leaderboard", t, func() {
		want := []ranking.Entry{
			{Rank: 1, UserScore: model.UserScore{UserID: "a", TotalPoints: 40}},
			{Rank: 2, UserScore: model.UserScore{UserID: "b", TotalPoints: 31}},
		}

		Convey("Then an identical one matches", func() {
			So(contestsim.CompareEntries(want, append([]ranking.Entry(nil), want...)), ShouldBeNil)
		})

		Convey("Then a reordered one is a mismatch", func() {
			got := []ranking.Entry{want[1], want[0]}
			So(contestsim.CompareEntries(want, got), ShouldWrap, contestsim.ErrMismatch)
		})

		Convey("Then a short one is a mismatch", func() {
			So(contestsim.CompareEntries(want, want[:1]), ShouldWrap, contestsim.ErrMismatch)
		})
	})
}

func TestRunAgainstService(t *testing.T) {
	Convey("Given a service reading a SQLite database behind the HTTP API", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "contest.db")

		db, err := gateway.OpenSQLite(ctx, dbPath)
		So(err, ShouldBeNil)
		Reset(func() { _ = db.Close() })

		svc := service.New(service.WithGateway(db), service.WithRefreshInterval(0))
		mux := http.NewServeMux()
		api.NewServer(svc, svc, 0).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		Reset(srv.Close)

		cfg := contestsim.Config{
			Seed: 3, Users: 25, Events: 5, DecidedEvents: 3, Participation: 0.8, Lurkers: 0.2,
			Workers: 4, TopN: 5,
			Output:     filepath.Join(dir, "out", "contest.yaml"),
			SQLitePath: dbPath,
			BaseURL:    srv.URL,
		}

		Convey("When the simulator runs", func() {
			stats, err := contestsim.Run(ctx, cfg)

			Convey("Then the service agrees with the local computation", func() {
				So(err, ShouldBeNil)
				So(stats.Users, ShouldEqual, 25)
				So(stats.DecidedEvents, ShouldEqual, 3)
				So(stats.UsersChecked, ShouldEqual, stats.Participants)
				So(stats.Mismatches, ShouldEqual, 0)
			})

			Convey("And the snapshot file holds the same contest", func() {
				snap, err := gateway.LoadSnapshotFile(cfg.Output)
				So(err, ShouldBeNil)
				So(snap.Users, ShouldHaveLength, 25)
				So(snap.Forecasts, ShouldHaveLength, stats.Forecasts)
			})
		})

		Convey("When the service is unreachable", func() {
			srv.Close()
			_, err := contestsim.Run(ctx, cfg)

			Convey("Then the health check fails", func() {
				So(err, ShouldWrap, contestsim.ErrUnhealthy)
			})
		})
	})
}
