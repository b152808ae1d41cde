package scoring_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	scoring "github.com/JetxcheDev/f1-prode/internal/domain/scoring"
)

var (
	now      = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	finish   = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	pastRace = model.Event{
		ID:               "race-1",
		Name:             "Bahrain",
		Date:             now.Add(-48 * time.Hour),
		ForecastDeadline: now.Add(-50 * time.Hour),
	}
	result = model.OfficialResult{ID: "res-1", EventID: "race-1", Pole: "A", Positions: finish, CrashPilot: "K"}
)

func intp(v int) *int { return &v }

func TestMerge(t *testing.T) {
	Convey("Given the default scoring policy", t, func() {
		def := scoring.Defaults()

		Convey("Then it should carry the documented point table", func() {
			So(def, ShouldResemble, scoring.Policy{
				Pole: 5, Position1: 5, Position2: 3, Position3: 2, Position4To10: 1, Crash: 1,
			})
			So(def.MaxEventPoints(), ShouldEqual, 23)
		})

		Convey("When merging nil overrides", func() {
			So(scoring.Merge(nil), ShouldResemble, def)
		})

		Convey("When merging a partial override", func() {
			p := scoring.Merge(&scoring.PolicyOverrides{Pole: intp(10), Crash: intp(0)})

			Convey("Then present fields replace defaults and the rest fall back", func() {
				So(p.Pole, ShouldEqual, 10)
				So(p.Crash, ShouldEqual, 0)
				So(p.Position1, ShouldEqual, scoring.DefaultPosition1Points)
				So(p.Position4To10, ShouldEqual, scoring.DefaultPosition4To10Points)
			})
		})

		Convey("When a policy is converted back to overrides", func() {
			custom := scoring.Policy{Pole: 2, Position1: 9, Position2: 8, Position3: 7, Position4To10: 3, Crash: 4}
			So(scoring.Merge(custom.Overrides()), ShouldResemble, custom)
		})
	})
}

func TestPolicy_PositionPoints(t *testing.T) {
	Convey("Given the default policy", t, func() {
		p := scoring.Defaults()

		Convey("Then points follow the finishing index", func() {
			So(p.PositionPoints(0), ShouldEqual, 5)
			So(p.PositionPoints(1), ShouldEqual, 3)
			So(p.PositionPoints(2), ShouldEqual, 2)
			for i := 3; i < 10; i++ {
				So(p.PositionPoints(i), ShouldEqual, 1)
			}
			So(p.PositionPoints(10), ShouldEqual, 0)
			So(p.PositionPoints(-1), ShouldEqual, 0)
		})
	})
}

func TestScoreForecast(t *testing.T) {
	Convey("Given a published result", t, func() {
		p := scoring.Defaults()

		Convey("When the forecast is perfect", func() {
			s := scoring.ScoreForecast(model.Forecast{Pole: "A", Positions: finish, CrashPilot: "K"}, result, p)

			Convey("Then it should earn 23 points", func() {
				So(s.Points, ShouldEqual, 23)
				So(s.PoleHit, ShouldBeTrue)
				So(s.CrashHit, ShouldBeTrue)
				So(s.PositionHits, ShouldEqual, 10)
			})
		})

		Convey("When the first two picks are swapped", func() {
			swapped := []string{"B", "A", "C", "D", "E", "F", "G", "H", "I", "J"}
			s := scoring.ScoreForecast(model.Forecast{Pole: "A", Positions: swapped, CrashPilot: "K"}, result, p)

			Convey("Then neither displaced slot scores", func() {
				So(s.Points, ShouldEqual, 15)
				So(s.PositionHits, ShouldEqual, 8)
				So(s.Slots[0], ShouldBeFalse)
				So(s.Slots[1], ShouldBeFalse)
				So(s.Slots[2], ShouldBeTrue)
			})
		})

		Convey("When the forecast has a short or empty position list", func() {
			short := scoring.ScoreForecast(model.Forecast{Pole: "Z", Positions: []string{"A", "", "C"}, CrashPilot: "Z"}, result, p)
			empty := scoring.ScoreForecast(model.Forecast{Pole: "Z", CrashPilot: "Z"}, result, p)

			Convey("Then missing slots find no match", func() {
				So(short.PositionHits, ShouldEqual, 2)
				So(short.Points, ShouldEqual, 7)
				So(empty.PositionHits, ShouldEqual, 0)
				So(empty.Points, ShouldEqual, 0)
			})
		})

		Convey("When both crash picks are empty", func() {
			noCrash := result
			noCrash.CrashPilot = ""
			s := scoring.ScoreForecast(model.Forecast{Pole: "Z"}, noCrash, p)

			Convey("Then it counts as a crash hit", func() {
				So(s.CrashHit, ShouldBeTrue)
				So(s.Points, ShouldEqual, p.Crash)
			})
		})
	})
}

func TestAggregator_Aggregate(t *testing.T) {
	Convey("Given an aggregator with a fixed clock", t, func() {
		agg := scoring.NewAggregator(scoring.WithFixedTime(now))
		users := []model.User{
			{ID: "u1", DisplayName: "Ana"},
			{ID: "u2", DisplayName: "Beto"},
			{ID: "u3"},
		}
		future := model.Event{ID: "race-2", Date: now.Add(72 * time.Hour), ForecastDeadline: now.Add(70 * time.Hour)}
		undecided := model.Event{ID: "race-3", Date: now.Add(-24 * time.Hour), ForecastDeadline: now.Add(-26 * time.Hour)}
		events := []model.Event{pastRace, future, undecided}
		forecasts := []model.Forecast{
			{ID: "f1", UserID: "u1", EventID: "race-1", Pole: "A", Positions: finish, CrashPilot: "K"},
			{ID: "f2", UserID: "u2", EventID: "race-2", Pole: "A", Positions: finish, CrashPilot: "K"},
			{ID: "f3", UserID: "u2", EventID: "race-3", Pole: "A", Positions: finish, CrashPilot: "K"},
			{ID: "f4", UserID: "ghost", EventID: "race-1", Pole: "A", Positions: finish, CrashPilot: "K"},
		}
		results := []model.OfficialResult{result}

		scores := agg.Aggregate(users, events, forecasts, results, scoring.Defaults())

		Convey("Then one score is returned per user in input order", func() {
			So(len(scores), ShouldEqual, 3)
			So(scores[0].UserID, ShouldEqual, "u1")
			So(scores[1].UserID, ShouldEqual, "u2")
			So(scores[2].UserID, ShouldEqual, "u3")
			So(scores[2].DisplayName, ShouldEqual, scoring.DefaultDisplayName)
		})

		Convey("Then the decided forecast is fully scored", func() {
			u1 := scores[0]
			So(u1.TotalPoints, ShouldEqual, 23)
			So(u1.RacesParticipated, ShouldEqual, 1)
			So(u1.TotalPoleVotes, ShouldEqual, 1)
			So(u1.TotalCrashVotes, ShouldEqual, 1)
			So(u1.TotalPositionVotes, ShouldEqual, 10)
			So(u1.PoleAccuracy, ShouldEqual, 100)
			So(u1.PositionAccuracy, ShouldEqual, 100)
			So(u1.HasVoted, ShouldBeTrue)
		})

		Convey("Then undecided events only mark participation", func() {
			u2 := scores[1]
			So(u2.HasVoted, ShouldBeTrue)
			So(u2.TotalPoints, ShouldEqual, 0)
			So(u2.RacesParticipated, ShouldEqual, 0)
			So(u2.TotalPoleVotes, ShouldEqual, 0)
		})

		Convey("Then accuracies without attempts are zero", func() {
			for _, s := range scores[1:] {
				So(s.PoleAccuracy, ShouldEqual, 0)
				So(s.CrashAccuracy, ShouldEqual, 0)
				So(s.PositionAccuracy, ShouldEqual, 0)
			}
			So(scores[2].HasVoted, ShouldBeFalse)
		})

		Convey("When the same snapshot is aggregated again", func() {
			again := agg.Aggregate(users, events, forecasts, results, scoring.Defaults())

			Convey("Then the output is identical", func() {
				So(cmp.Diff(scores, again), ShouldBeEmpty)
			})
		})

		Convey("When a user forecast the same event twice", func() {
			dup := append(append([]model.Forecast(nil), forecasts...),
				model.Forecast{ID: "f5", UserID: "u1", EventID: "race-1", Pole: "Z"})
			out := agg.Aggregate(users, events, dup, results, scoring.Defaults())

			Convey("Then only the first forecast counts", func() {
				So(out[0].TotalPoints, ShouldEqual, 23)
				So(out[0].RacesParticipated, ShouldEqual, 1)
			})
		})

		Convey("When the same event is listed twice", func() {
			out := agg.Aggregate(users, append(events, pastRace), forecasts, results, scoring.Defaults())

			Convey("Then its forecasts are scored once", func() {
				So(out[0].TotalPoints, ShouldEqual, 23)
				So(out[0].RacesParticipated, ShouldEqual, 1)
				So(out[0].TotalPositionVotes, ShouldEqual, 10)
			})
		})

		Convey("When the clock moves past a deadline without a result", func() {
			later := scoring.NewAggregator(scoring.WithFixedTime(now.Add(100 * time.Hour)))
			out := later.Aggregate(users, events, forecasts, results, scoring.Defaults())

			Convey("Then the event still contributes nothing", func() {
				So(out[1].TotalPoints, ShouldEqual, 0)
				So(out[1].RacesParticipated, ShouldEqual, 0)
			})
		})
	})
}

func TestAccuracy(t *testing.T) {
	Convey("Given hit and attempt counts", t, func() {
		So(scoring.Accuracy(0, 0), ShouldEqual, 0)
		So(scoring.Accuracy(1, 4), ShouldEqual, 25)
		So(scoring.Accuracy(3, 3), ShouldEqual, 100)
	})
}

func TestAggregator_History(t *testing.T) {
	Convey("Given two decided events with forecasts from one user", t, func() {
		agg := scoring.NewAggregator(scoring.WithFixedTime(now))
		second := model.Event{ID: "race-0", Date: now.Add(-240 * time.Hour), ForecastDeadline: now.Add(-242 * time.Hour)}
		events := []model.Event{second, pastRace}
		forecasts := []model.Forecast{
			{ID: "f1", UserID: "u1", EventID: "race-0", Pole: "A"},
			{ID: "f2", UserID: "u1", EventID: "race-1", Pole: "A", Positions: finish, CrashPilot: "K"},
			{ID: "f3", UserID: "u2", EventID: "race-1", Pole: "A"},
		}
		results := []model.OfficialResult{result, {ID: "res-0", EventID: "race-0", Pole: "A", Positions: finish}}

		h := agg.History("u1", events, forecasts, results, scoring.Defaults())

		Convey("Then entries are ordered newest first", func() {
			So(len(h), ShouldEqual, 2)
			So(h[0].Event.ID, ShouldEqual, "race-1")
			So(h[0].Score.Points, ShouldEqual, 23)
			So(h[1].Event.ID, ShouldEqual, "race-0")
			So(h[1].Score.PoleHit, ShouldBeTrue)
		})

		Convey("Then a repeated event yields a single entry", func() {
			again := agg.History("u1", append(events, pastRace), forecasts, results, scoring.Defaults())
			So(len(again), ShouldEqual, 2)
		})

		Convey("Then a user without forecasts has no history", func() {
			So(agg.History("nobody", events, forecasts, results, scoring.Defaults()), ShouldBeEmpty)
		})
	})
}
