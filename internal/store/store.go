// Package store persists check runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/funvibe/gradual/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	fixture     TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	strict      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	idx         INTEGER NOT NULL,
	name        TEXT NOT NULL,
	kind        TEXT NOT NULL,
	location    TEXT NOT NULL,
	result      TEXT NOT NULL,
	expect      TEXT NOT NULL,
	passed      INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	PRIMARY KEY (run_id, idx)
);
CREATE TABLE IF NOT EXISTS diagnostics (
	run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	query_idx INTEGER NOT NULL,
	code      TEXT NOT NULL,
	location  TEXT NOT NULL,
	message   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS diagnostics_run ON diagnostics(run_id, query_idx);
`

// Store is a handle on the results database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection: SQLite serialises writers anyway, and an in-memory
	// database exists per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Run is one complete check of a fixture.
type Run struct {
	ID       string
	Fixture  string
	Started  time.Time
	Duration time.Duration
	Strict   bool
	Results  []pipeline.QueryResult
}

// RunSummary is a stored run without its per-query rows.
type RunSummary struct {
	ID          string
	Fixture     string
	Started     time.Time
	Duration    time.Duration
	Strict      bool
	Queries     int
	Passed      int
	Diagnostics int
}

// StoredResult is a query result read back from the database.
type StoredResult struct {
	Index       int
	Name        string
	Kind        string
	Location    string
	Result      string
	Expect      string
	Passed      bool
	Duration    time.Duration
	Diagnostics []StoredDiagnostic
}

type StoredDiagnostic struct {
	Code     string
	Location string
	Message  string
}

// SaveRun writes run and all of its results in one transaction. Saving a run
// id twice is an error.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, fixture, started_at, duration_ns, strict) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Fixture, run.Started.UnixNano(), int64(run.Duration), boolToInt(run.Strict),
	); err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	insertResult, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, idx, name, kind, location, result, expect, passed, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	defer insertResult.Close()

	insertDiag, err := tx.PrepareContext(ctx,
		`INSERT INTO diagnostics (run_id, query_idx, code, location, message) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	defer insertDiag.Close()

	for _, r := range run.Results {
		if _, err := insertResult.ExecContext(ctx,
			run.ID, r.Index, r.Name, string(r.Kind), r.Loc.String(), r.Result, r.Expect,
			boolToInt(r.Passed), int64(r.Duration),
		); err != nil {
			return fmt.Errorf("saving result %d of run %s: %w", r.Index, run.ID, err)
		}
		for _, d := range r.Diagnostics {
			if _, err := insertDiag.ExecContext(ctx,
				run.ID, r.Index, string(d.Code), d.Loc.String(), d.Header,
			); err != nil {
				return fmt.Errorf("saving diagnostic of run %s: %w", run.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.fixture, r.started_at, r.duration_ns, r.strict,
		       (SELECT COUNT(*) FROM results q WHERE q.run_id = r.id),
		       (SELECT COUNT(*) FROM results q WHERE q.run_id = r.id AND q.passed = 1),
		       (SELECT COUNT(*) FROM diagnostics d WHERE d.run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			sum          RunSummary
			started, dur int64
			strict       int
		)
		if err := rows.Scan(&sum.ID, &sum.Fixture, &started, &dur, &strict,
			&sum.Queries, &sum.Passed, &sum.Diagnostics); err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		sum.Started = time.Unix(0, started)
		sum.Duration = time.Duration(dur)
		sum.Strict = strict != 0
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return out, nil
}

// Results returns the stored results of run id in query order.
func (s *Store) Results(ctx context.Context, id string) ([]StoredResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, name, kind, location, result, expect, passed, duration_ns
		FROM results WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("reading run %s: %w", id, err)
	}
	var out []StoredResult
	byIndex := make(map[int]int)
	for rows.Next() {
		var (
			r      StoredResult
			passed int
			dur    int64
		)
		if err := rows.Scan(&r.Index, &r.Name, &r.Kind, &r.Location, &r.Result, &r.Expect, &passed, &dur); err != nil {
			rows.Close()
			return nil, fmt.Errorf("reading run %s: %w", id, err)
		}
		r.Passed = passed != 0
		r.Duration = time.Duration(dur)
		byIndex[r.Index] = len(out)
		out = append(out, r)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("reading run %s: %w", id, err)
	}

	drows, err := s.db.QueryContext(ctx, `
		SELECT query_idx, code, location, message
		FROM diagnostics WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("reading diagnostics of run %s: %w", id, err)
	}
	defer drows.Close()
	for drows.Next() {
		var (
			idx int
			d   StoredDiagnostic
		)
		if err := drows.Scan(&idx, &d.Code, &d.Location, &d.Message); err != nil {
			return nil, fmt.Errorf("reading diagnostics of run %s: %w", id, err)
		}
		if i, ok := byIndex[idx]; ok {
			out[i].Diagnostics = append(out[i].Diagnostics, d)
		}
	}
	if err := drows.Err(); err != nil {
		return nil, fmt.Errorf("reading diagnostics of run %s: %w", id, err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
