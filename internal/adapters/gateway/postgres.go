package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
)

// Querier is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

var (
	_ Querier = (*pgx.Conn)(nil)
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = pgx.Tx(nil)
)

// PostgresSchema creates the tables read by the Postgres gateway.
const PostgresSchema = `
create table if not exists app_user (
	id           text primary key,
	display_name text not null default '',
	email        text not null default ''
);
create table if not exists pilot (
	id      text primary key,
	name    text not null,
	team    text not null default '',
	number  integer not null default 0,
	country text not null default '',
	active  boolean not null default true
);
create table if not exists race_event (
	id                text primary key,
	name              text not null,
	location          text not null default '',
	status            text not null default 'upcoming',
	event_date        timestamptz not null,
	forecast_deadline timestamptz not null
);
create table if not exists forecast (
	id          text primary key,
	user_id     text not null,
	event_id    text not null,
	pole        text not null default '',
	positions   text[] not null default '{}',
	crash_pilot text not null default ''
);
create index if not exists forecast_event_idx on forecast (event_id);
create table if not exists official_result (
	id          text primary key,
	event_id    text not null unique,
	pole        text not null default '',
	positions   text[] not null default '{}',
	crash_pilot text not null default ''
);
create table if not exists scoring_policy (
	id                   integer primary key check (id = 1),
	pole_points          integer,
	position1_points     integer,
	position2_points     integer,
	position3_points     integer,
	position4to10_points integer,
	crash_points         integer
);
`

const (
	pgUserSelector     = `select id, display_name, email from app_user`
	pgEventSelector    = `select id, name, location, status, event_date, forecast_deadline from race_event`
	pgForecastSelector = `select id, user_id, event_id, pole, positions, crash_pilot from forecast`
	pgResultSelector   = `select id, event_id, pole, positions, crash_pilot from official_result`
	pgPolicySelector   = `select pole_points, position1_points, position2_points, position3_points,
		position4to10_points, crash_points from scoring_policy where id = 1`
)

// Postgres reads contest data through pgx.
type Postgres struct {
	conn Querier
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection, pool or transaction.
func NewPostgres(conn Querier) *Postgres {
	return &Postgres{conn: conn}
}

// OpenPostgres connects a pool to url and verifies it with a ping.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %w", ErrUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrUnavailable, err)
	}
	return &Postgres{conn: pool, pool: pool}, nil
}

// EnsureSchema creates missing tables.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.conn.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the pool when Postgres owns one.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// ListUsers returns every registered user.
func (p *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	return pgCollect(ctx, p.conn, pgUserSelector+" order by id", scanUser)
}

// ListEvents returns every event ordered by date.
func (p *Postgres) ListEvents(ctx context.Context) ([]model.Event, error) {
	return pgCollect(ctx, p.conn, pgEventSelector+" order by event_date, id", scanEvent)
}

// ListForecastsForEvent returns the forecasts placed on eventID.
func (p *Postgres) ListForecastsForEvent(ctx context.Context, eventID string) ([]model.Forecast, error) {
	return pgCollect(ctx, p.conn, pgForecastSelector+" where event_id = $1 order by id", scanForecast, eventID)
}

// ListAllForecasts returns every forecast in one fetch.
func (p *Postgres) ListAllForecasts(ctx context.Context) ([]model.Forecast, error) {
	return pgCollect(ctx, p.conn, pgForecastSelector+" order by event_id, id", scanForecast)
}

// ListResults returns every published official result.
func (p *Postgres) ListResults(ctx context.Context) ([]model.OfficialResult, error) {
	return pgCollect(ctx, p.conn, pgResultSelector+" order by event_id", scanResult)
}

// GetScoringPolicyOverrides returns the stored policy overrides, or nil when none are stored.
func (p *Postgres) GetScoringPolicyOverrides(ctx context.Context) (*scoring.PolicyOverrides, error) {
	var o scoring.PolicyOverrides
	err := p.conn.QueryRow(ctx, pgPolicySelector).Scan(
		&o.Pole, &o.Position1, &o.Position2, &o.Position3, &o.Position4To10, &o.Crash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, CollectionPolicy, err)
	}
	return &o, nil
}

// Import replaces every table's content with snap in one transaction.
func (p *Postgres) Import(ctx context.Context, snap Snapshot) error {
	db, ok := p.conn.(interface {
		Begin(ctx context.Context) (pgx.Tx, error)
	})
	if !ok {
		return errors.New("import: connection cannot open transactions")
	}
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		for _, table := range []string{"forecast", "official_result", "race_event", "pilot", "app_user", "scoring_policy"} {
			if _, err := tx.Exec(ctx, "delete from "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		b := &pgx.Batch{}
		for _, u := range snap.Users {
			b.Queue(`insert into app_user (id, display_name, email) values ($1,$2,$3)`, u.ID, u.DisplayName, u.Email)
		}
		for _, pl := range snap.Pilots {
			b.Queue(`insert into pilot (id, name, team, number, country, active) values ($1,$2,$3,$4,$5,$6)`,
				pl.ID, pl.Name, pl.Team, pl.Number, pl.Country, pl.Active)
		}
		for _, e := range snap.Events {
			b.Queue(`insert into race_event (id, name, location, status, event_date, forecast_deadline)
				values ($1,$2,$3,$4,$5,$6)`,
				e.ID, e.Name, e.Location, string(e.Status), e.Date, e.ForecastDeadline)
		}
		for _, f := range snap.Forecasts {
			b.Queue(`insert into forecast (id, user_id, event_id, pole, positions, crash_pilot)
				values ($1,$2,$3,$4,$5,$6)`,
				f.ID, f.UserID, f.EventID, f.Pole, nonNil(f.Positions), f.CrashPilot)
		}
		for _, r := range snap.Results {
			b.Queue(`insert into official_result (id, event_id, pole, positions, crash_pilot)
				values ($1,$2,$3,$4,$5)`,
				r.ID, r.EventID, r.Pole, nonNil(r.Positions), r.CrashPilot)
		}
		if o := snap.Policy; o != nil {
			b.Queue(`insert into scoring_policy (id, pole_points, position1_points, position2_points,
				position3_points, position4to10_points, crash_points) values (1,$1,$2,$3,$4,$5,$6)`,
				o.Pole, o.Position1, o.Position2, o.Position3, o.Position4To10, o.Crash)
		}
		if err := tx.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("import snapshot: %w", err)
		}
		return nil
	})
}

func pgCollect[T any](
	ctx context.Context,
	conn Querier,
	sql string,
	scan func(pgx.Row) (T, error),
	args ...interface{},
) ([]T, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer rows.Close()
	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.DisplayName, &u.Email)
	return u, err
}

func scanEvent(row pgx.Row) (model.Event, error) {
	var (
		e      model.Event
		status string
	)
	err := row.Scan(&e.ID, &e.Name, &e.Location, &status, &e.Date, &e.ForecastDeadline)
	e.Status = model.EventStatus(status)
	return e, err
}

func scanForecast(row pgx.Row) (model.Forecast, error) {
	var f model.Forecast
	err := row.Scan(&f.ID, &f.UserID, &f.EventID, &f.Pole, &f.Positions, &f.CrashPilot)
	return f, err
}

func scanResult(row pgx.Row) (model.OfficialResult, error) {
	var r model.OfficialResult
	err := row.Scan(&r.ID, &r.EventID, &r.Pole, &r.Positions, &r.CrashPilot)
	return r, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
