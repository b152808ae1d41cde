package gateway_test

import (
	"context"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
)

var base = time.Date(2025, 3, 16, 5, 0, 0, 0, time.UTC)

func fixture() gateway.Snapshot {
	pole := 10
	return gateway.Snapshot{
		Users: []model.User{
			{ID: "u1", DisplayName: "Ana", Email: "ana@example.com"},
			{ID: "u2", DisplayName: "Beto"},
		},
		Pilots: []model.Pilot{
			{ID: "VER", Name: "Max Verstappen", Team: "Red Bull", Number: 1, Country: "NL", Active: true},
			{ID: "LEC", Name: "Charles Leclerc", Team: "Ferrari", Number: 16, Country: "MC", Active: true},
		},
		Events: []model.Event{
			{ID: "r1", Name: "Australia", Location: "Melbourne", Status: model.StatusCompleted, Date: base, ForecastDeadline: base.Add(-time.Hour)},
			{ID: "r2", Name: "China", Location: "Shanghai", Status: model.StatusUpcoming, Date: base.Add(7 * 24 * time.Hour), ForecastDeadline: base.Add(7*24*time.Hour - time.Hour)},
		},
		Forecasts: []model.Forecast{
			{ID: "f1", UserID: "u1", EventID: "r1", Pole: "VER", Positions: []string{"VER", "LEC"}, CrashPilot: "LEC"},
			{ID: "f2", UserID: "u2", EventID: "r1", Pole: "LEC", Positions: []string{"LEC", "VER"}},
			{ID: "f3", UserID: "u1", EventID: "r2", Pole: "VER", Positions: []string{"VER"}},
		},
		Results: []model.OfficialResult{
			{ID: "res1", EventID: "r1", Pole: "VER", Positions: []string{"VER", "LEC"}, CrashPilot: "LEC"},
		},
		Policy: &scoring.PolicyOverrides{Pole: &pole},
	}
}

// readContract runs the read checks every Gateway implementation must pass
// after being seeded with fixture().
func readContract(ctx context.Context, g gateway.Gateway) {
	Convey("Then users are listed", func() {
		users, err := g.ListUsers(ctx)
		So(err, ShouldBeNil)
		So(len(users), ShouldEqual, 2)
		So(users[0].DisplayName, ShouldEqual, "Ana")
	})

	Convey("Then events keep their deadlines", func() {
		events, err := g.ListEvents(ctx)
		So(err, ShouldBeNil)
		So(len(events), ShouldEqual, 2)
		So(events[0].ID, ShouldEqual, "r1")
		So(events[0].ForecastDeadline.Equal(base.Add(-time.Hour)), ShouldBeTrue)
		So(events[0].Status, ShouldEqual, model.StatusCompleted)
	})

	Convey("Then forecasts can be read in bulk or per event", func() {
		all, err := g.ListAllForecasts(ctx)
		So(err, ShouldBeNil)
		So(len(all), ShouldEqual, 3)

		r1, err := g.ListForecastsForEvent(ctx, "r1")
		So(err, ShouldBeNil)
		So(len(r1), ShouldEqual, 2)
		So(r1[0].Positions, ShouldResemble, []string{"VER", "LEC"})

		none, err := g.ListForecastsForEvent(ctx, "missing")
		So(err, ShouldBeNil)
		So(none, ShouldBeEmpty)
	})

	Convey("Then results are listed", func() {
		results, err := g.ListResults(ctx)
		So(err, ShouldBeNil)
		So(len(results), ShouldEqual, 1)
		So(results[0].CrashPilot, ShouldEqual, "LEC")
	})

	Convey("Then the partial policy keeps unset fields nil", func() {
		o, err := g.GetScoringPolicyOverrides(ctx)
		So(err, ShouldBeNil)
		So(o, ShouldNotBeNil)
		So(*o.Pole, ShouldEqual, 10)
		So(o.Crash, ShouldBeNil)
		So(scoring.Merge(o).Crash, ShouldEqual, scoring.DefaultCrashPoints)
	})
}
