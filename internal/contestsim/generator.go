package contestsim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	"github.com/JetxcheDev/f1-prode/internal/domain/model"
)

// namespace scopes the name-based ids so equal seeds yield equal ids.
var namespace = uuid.MustParse("6f1c3c3e-3b9e-4d53-9a57-5d0f2f6c1a10")

func id(seed uint64, kind string, i int) string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%d/%s/%d", seed, kind, i))).String()
}

// calendarStream is past any user index.
const calendarStream = 1 << 32

func rng(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Generate builds a synthetic contest around now. The first DecidedEvents
// events lie in the past and carry a result; the rest are upcoming. Output is
// a pure function of cfg and now.
func Generate(ctx context.Context, cfg Config, now time.Time) (gateway.Snapshot, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return gateway.Snapshot{}, err
	}

	pilots := make([]model.Pilot, len(grid))
	for i, p := range grid {
		pilots[i] = model.Pilot{ID: p.ID, Name: p.Name, Team: p.Team, Number: p.Number, Country: p.Country, Active: true}
	}
	pilotIDs := lo.Map(pilots, func(p model.Pilot, _ int) string { return p.ID })

	events, results, reference := generateEvents(cfg, now, pilotIDs)
	users := generateUsers(cfg)

	// Each user draws from its own stream so the worker split does not
	// change the outcome.
	perUser := make([][]model.Forecast, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range users {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("generate forecasts: %w", err)
			}
			perUser[i] = generateForecasts(cfg, i, users[i].ID, events, reference, pilotIDs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return gateway.Snapshot{}, err
	}

	return gateway.Snapshot{
		Users:     users,
		Pilots:    pilots,
		Events:    events,
		Forecasts: lo.Flatten(perUser),
		Results:   results,
	}, nil
}

func generateUsers(cfg Config) []model.User {
	users := make([]model.User, cfg.Users)
	for i := range users {
		users[i] = model.User{
			ID:          id(cfg.Seed, "user", i),
			DisplayName: fmt.Sprintf("Jugador %03d", i+1),
			Email:       fmt.Sprintf("jugador%03d@prode.test", i+1),
		}
	}
	return users
}

// generateEvents returns the calendar, the results of decided events and a
// reference finishing order for every event, decided or not.
func generateEvents(cfg Config, now time.Time, pilotIDs []string) ([]model.Event, []model.OfficialResult, map[string]model.OfficialResult) {
	r := rng(cfg.Seed, calendarStream)
	start := now.Truncate(time.Hour).Add(-time.Duration(cfg.DecidedEvents) * eventSpacing)

	events := make([]model.Event, cfg.Events)
	reference := make(map[string]model.OfficialResult, cfg.Events)
	var results []model.OfficialResult
	for i := range events {
		date := start.Add(time.Duration(i) * eventSpacing)
		e := model.Event{
			ID:               id(cfg.Seed, "event", i),
			Name:             circuits[i%len(circuits)] + " Grand Prix",
			Location:         circuits[i%len(circuits)],
			Status:           model.StatusUpcoming,
			Date:             date,
			ForecastDeadline: date.Add(-deadlineLead),
		}

		order := shuffled(r, pilotIDs)
		res := model.OfficialResult{
			ID:        id(cfg.Seed, "result", i),
			EventID:   e.ID,
			Pole:      order[r.IntN(3)],
			Positions: order[:model.TopSlots],
		}
		if r.Float64() >= noCrashChance {
			res.CrashPilot = order[len(order)-1-r.IntN(5)]
		}
		reference[e.ID] = res

		if i < cfg.DecidedEvents {
			e.Status = model.StatusCompleted
			results = append(results, res)
		}
		events[i] = e
	}
	return events, results, reference
}

// generateForecasts draws one user's forecasts. Skill is the chance of
// copying each pick from the reference order instead of guessing.
func generateForecasts(cfg Config, index int, userID string, events []model.Event,
	reference map[string]model.OfficialResult, pilotIDs []string,
) []model.Forecast {
	r := rng(cfg.Seed, uint64(index))
	if r.Float64() < cfg.Lurkers {
		return nil
	}
	skill := r.Float64() * maxSkill

	var out []model.Forecast
	for i, e := range events {
		if r.Float64() >= cfg.Participation {
			continue
		}
		ref := reference[e.ID]
		guess := shuffled(r, pilotIDs)

		f := model.Forecast{
			ID:        id(cfg.Seed, fmt.Sprintf("forecast/%d", index), i),
			UserID:    userID,
			EventID:   e.ID,
			Pole:      pick(r, skill, ref.Pole, guess[0]),
			Positions: make([]string, model.TopSlots),
		}
		for slot := range f.Positions {
			f.Positions[slot] = pick(r, skill, ref.Positions[slot], guess[slot])
		}
		f.CrashPilot = pick(r, skill, ref.CrashPilot, guess[len(guess)-1])
		out = append(out, f)
	}
	return out
}

func pick(r *rand.Rand, skill float64, right, guess string) string {
	if r.Float64() < skill {
		return right
	}
	return guess
}

func shuffled(r *rand.Rand, ids []string) []string {
	out := append([]string(nil), ids...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (c Config) withDefaults() Config {
	if c.Users == 0 {
		c.Users = DefaultUsers
	}
	if c.Events == 0 {
		c.Events = DefaultEvents
		if c.DecidedEvents == 0 {
			c.DecidedEvents = DefaultDecidedEvents
		}
	}
	if c.Participation == 0 {
		c.Participation = DefaultParticipation
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

func (c Config) validate() error {
	switch {
	case c.Users < 0:
		return fmt.Errorf("%w: users must not be negative", ErrInvalidConfig)
	case c.Events < 0:
		return fmt.Errorf("%w: events must not be negative", ErrInvalidConfig)
	case c.DecidedEvents < 0 || c.DecidedEvents > c.Events:
		return fmt.Errorf("%w: decided events must be within [0, %d]", ErrInvalidConfig, c.Events)
	case c.Participation < 0 || c.Participation > 1:
		return fmt.Errorf("%w: participation must be within [0, 1]", ErrInvalidConfig)
	case c.Lurkers < 0 || c.Lurkers > 1:
		return fmt.Errorf("%w: lurkers must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}
