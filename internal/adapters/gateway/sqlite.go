package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
)

// SQLiteSchema creates the tables read by the SQLite gateway. Position lists
// are stored as JSON arrays.
const SQLiteSchema = `
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
	active  boolean not null default 1
);
create table if not exists race_event (
	id                text primary key,
	name              text not null,
	location          text not null default '',
	status            text not null default 'upcoming',
	event_date        timestamp not null,
	forecast_deadline timestamp not null
);
create table if not exists forecast (
	id          text primary key,
	user_id     text not null,
	event_id    text not null,
	pole        text not null default '',
	positions   text not null default '[]',
	crash_pilot text not null default ''
);
create index if not exists forecast_event_idx on forecast (event_id);
create table if not exists official_result (
	id          text primary key,
	event_id    text not null unique,
	pole        text not null default '',
	positions   text not null default '[]',
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

// SQLite reads contest data from a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnavailable, path, err)
	}
	// A single writer avoids "database is locked" during Import.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, SQLiteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ListUsers returns every registered user.
func (s *SQLite) ListUsers(ctx context.Context) ([]model.User, error) {
	return sqlCollect(ctx, s.db, `select id, display_name, email from app_user order by id`,
		func(rows *sql.Rows) (model.User, error) {
			var u model.User
			err := rows.Scan(&u.ID, &u.DisplayName, &u.Email)
			return u, err
		})
}

// ListEvents returns every event ordered by date.
func (s *SQLite) ListEvents(ctx context.Context) ([]model.Event, error) {
	return sqlCollect(ctx, s.db,
		`select id, name, location, status, event_date, forecast_deadline from race_event order by event_date, id`,
		func(rows *sql.Rows) (model.Event, error) {
			var (
				e      model.Event
				status string
			)
			err := rows.Scan(&e.ID, &e.Name, &e.Location, &status, &e.Date, &e.ForecastDeadline)
			e.Status = model.EventStatus(status)
			return e, err
		})
}

const sqliteForecastSelector = `select id, user_id, event_id, pole, positions, crash_pilot from forecast`

// ListForecastsForEvent returns the forecasts placed on eventID.
func (s *SQLite) ListForecastsForEvent(ctx context.Context, eventID string) ([]model.Forecast, error) {
	return sqlCollect(ctx, s.db, sqliteForecastSelector+` where event_id = ? order by id`, scanSQLiteForecast, eventID)
}

// ListAllForecasts returns every forecast in one fetch.
func (s *SQLite) ListAllForecasts(ctx context.Context) ([]model.Forecast, error) {
	return sqlCollect(ctx, s.db, sqliteForecastSelector+` order by event_id, id`, scanSQLiteForecast)
}

// ListResults returns every published official result.
func (s *SQLite) ListResults(ctx context.Context) ([]model.OfficialResult, error) {
	return sqlCollect(ctx, s.db,
		`select id, event_id, pole, positions, crash_pilot from official_result order by event_id`,
		func(rows *sql.Rows) (model.OfficialResult, error) {
			var (
				r   model.OfficialResult
				raw string
			)
			if err := rows.Scan(&r.ID, &r.EventID, &r.Pole, &raw, &r.CrashPilot); err != nil {
				return r, err
			}
			return r, json.Unmarshal([]byte(raw), &r.Positions)
		})
}

// GetScoringPolicyOverrides returns the stored policy overrides, or nil when none are stored.
func (s *SQLite) GetScoringPolicyOverrides(ctx context.Context) (*scoring.PolicyOverrides, error) {
	var pole, p1, p2, p3, p4, crash sql.NullInt64
	err := s.db.QueryRowContext(ctx, `select pole_points, position1_points, position2_points,
		position3_points, position4to10_points, crash_points from scoring_policy where id = 1`).
		Scan(&pole, &p1, &p2, &p3, &p4, &crash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, CollectionPolicy, err)
	}
	return &scoring.PolicyOverrides{
		Pole:          nullInt(pole),
		Position1:     nullInt(p1),
		Position2:     nullInt(p2),
		Position3:     nullInt(p3),
		Position4To10: nullInt(p4),
		Crash:         nullInt(crash),
	}, nil
}

// Import replaces every table's content with snap in one transaction.
func (s *SQLite) Import(ctx context.Context, snap Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"forecast", "official_result", "race_event", "pilot", "app_user", "scoring_policy"} {
		if _, err = tx.ExecContext(ctx, "delete from "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	exec := func(query string, args ...any) {
		if err == nil {
			_, err = tx.ExecContext(ctx, query, args...)
		}
	}
	for _, u := range snap.Users {
		exec(`insert into app_user (id, display_name, email) values (?,?,?)`, u.ID, u.DisplayName, u.Email)
	}
	for _, p := range snap.Pilots {
		exec(`insert into pilot (id, name, team, number, country, active) values (?,?,?,?,?,?)`,
			p.ID, p.Name, p.Team, p.Number, p.Country, p.Active)
	}
	for _, e := range snap.Events {
		exec(`insert into race_event (id, name, location, status, event_date, forecast_deadline) values (?,?,?,?,?,?)`,
			e.ID, e.Name, e.Location, string(e.Status), e.Date.UTC(), e.ForecastDeadline.UTC())
	}
	for _, f := range snap.Forecasts {
		exec(`insert into forecast (id, user_id, event_id, pole, positions, crash_pilot) values (?,?,?,?,?,?)`,
			f.ID, f.UserID, f.EventID, f.Pole, jsonList(f.Positions), f.CrashPilot)
	}
	for _, r := range snap.Results {
		exec(`insert into official_result (id, event_id, pole, positions, crash_pilot) values (?,?,?,?,?)`,
			r.ID, r.EventID, r.Pole, jsonList(r.Positions), r.CrashPilot)
	}
	if o := snap.Policy; o != nil {
		exec(`insert into scoring_policy (id, pole_points, position1_points, position2_points,
			position3_points, position4to10_points, crash_points) values (1,?,?,?,?,?,?)`,
			o.Pole, o.Position1, o.Position2, o.Position3, o.Position4To10, o.Crash)
	}
	if err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func scanSQLiteForecast(rows *sql.Rows) (model.Forecast, error) {
	var (
		f   model.Forecast
		raw string
	)
	if err := rows.Scan(&f.ID, &f.UserID, &f.EventID, &f.Pole, &raw, &f.CrashPilot); err != nil {
		return f, err
	}
	return f, json.Unmarshal([]byte(raw), &f.Positions)
}

func sqlCollect[T any](
	ctx context.Context,
	db *sql.DB,
	query string,
	scan func(*sql.Rows) (T, error),
	args ...any,
) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
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

func jsonList(s []string) string {
	raw, _ := json.Marshal(nonNil(s))
	return string(raw)
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
