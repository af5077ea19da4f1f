// Package store persists intersection fragments to a local SQLite dataset
// and implements the all-or-nothing run checkpoint over it.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/boreal-analytics/forestcut/internal/geometry"
	"github.com/boreal-analytics/forestcut/internal/model"
)

// Run statuses recorded in the runs table.
const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
)

// FragmentStore is the persisted fragment dataset, backed by
// modernc.org/sqlite in WAL mode.
type FragmentStore struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the fragment database at the given path.
func Open(path string) (*FragmentStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &FragmentStore{db: db, path: path}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS fragments (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	fiscal_year      TEXT,
	origin           TEXT,
	origin_year      TEXT,
	disturbance      TEXT,
	disturbance_year TEXT,
	reforest1        TEXT,
	reforest2        TEXT,
	reforest3        TEXT,
	age_regime       TEXT NOT NULL DEFAULT '',
	shade_tolerance  TEXT NOT NULL DEFAULT '',
	terrain          TEXT,
	geom             BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	status         TEXT NOT NULL DEFAULT 'running',
	fragment_count INTEGER NOT NULL DEFAULT 0,
	started_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at    DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

// Migrate creates the schema if it does not exist.
func (s *FragmentStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Path returns the database file path.
func (s *FragmentStore) Path() string {
	return s.path
}

// Close closes the underlying database.
func (s *FragmentStore) Close() error {
	return s.db.Close()
}

// BeginRun records a new overlay run and returns its id.
func (s *FragmentStore) BeginRun(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`,
		id, RunStatusRunning, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "store: begin run")
	}
	return id, nil
}

// CompleteRun marks a run complete with its final fragment count. Until this
// is recorded, the dataset is not a valid checkpoint.
func (s *FragmentStore) CompleteRun(ctx context.Context, runID string, count int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, fragment_count = ?, finished_at = ? WHERE id = ?`,
		RunStatusComplete, count, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "store: complete run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "store: rows affected")
	}
	if n == 0 {
		return eris.Errorf("store: run %s not found", runID)
	}
	return nil
}

// RunInfo describes a recorded overlay run.
type RunInfo struct {
	ID            string
	Status        string
	FragmentCount int64
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// LatestRun returns the most recently started run, or nil when none exists.
func (s *FragmentStore) LatestRun(ctx context.Context) (*RunInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, fragment_count, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id LIMIT 1`)

	var ri RunInfo
	var finished sql.NullTime
	err := row.Scan(&ri.ID, &ri.Status, &ri.FragmentCount, &ri.StartedAt, &finished)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan latest run")
	}
	if finished.Valid {
		t := finished.Time
		ri.FinishedAt = &t
	}
	return &ri, nil
}

// AppendBatch appends fragments in a single transaction, preserving order.
func (s *FragmentStore) AppendBatch(ctx context.Context, frags []model.Fragment) error {
	if len(frags) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fragments (
			fiscal_year, origin, origin_year, disturbance, disturbance_year,
			reforest1, reforest2, reforest3,
			age_regime, shade_tolerance, terrain, geom
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "store: prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range frags {
		wkb, err := geometry.EncodeEWKB(f.Geom)
		if err != nil {
			return eris.Wrap(err, "store: encode fragment geometry")
		}
		_, err = stmt.ExecContext(ctx,
			nullStr(f.FiscalYear), nullStr(f.Origin), nullStr(f.OriginYear),
			nullStr(f.Disturbance), nullStr(f.DisturbanceYear),
			nullStr(f.Reforest[0]), nullStr(f.Reforest[1]), nullStr(f.Reforest[2]),
			string(f.AgeRegime), string(f.ShadeTolerance), nullStr(f.Terrain), wkb,
		)
		if err != nil {
			return eris.Wrap(err, "store: insert fragment")
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "store: commit batch")
	}
	return nil
}

// Count returns the number of persisted fragments.
func (s *FragmentStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fragments`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "store: count fragments")
	}
	return n, nil
}

// Scan streams every persisted fragment through fn in insertion order.
// The fragment passed to fn is only valid for the duration of the call.
func (s *FragmentStore) Scan(ctx context.Context, fn func(model.Fragment) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fiscal_year, origin, origin_year, disturbance, disturbance_year,
		       reforest1, reforest2, reforest3,
		       age_regime, shade_tolerance, terrain, geom
		FROM fragments ORDER BY id`)
	if err != nil {
		return eris.Wrap(err, "store: query fragments")
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			f    model.Fragment
			cols [8]sql.NullString
			reg  string
			tol  string
			ter  sql.NullString
			wkb  []byte
		)
		if err := rows.Scan(
			&cols[0], &cols[1], &cols[2], &cols[3], &cols[4],
			&cols[5], &cols[6], &cols[7],
			&reg, &tol, &ter, &wkb,
		); err != nil {
			return eris.Wrap(err, "store: scan fragment row")
		}

		f.FiscalYear = cols[0].String
		f.Origin = cols[1].String
		f.OriginYear = cols[2].String
		f.Disturbance = cols[3].String
		f.DisturbanceYear = cols[4].String
		f.Reforest[0] = cols[5].String
		f.Reforest[1] = cols[6].String
		f.Reforest[2] = cols[7].String
		f.AgeRegime = model.AgeRegime(reg)
		f.ShadeTolerance = model.Tolerance(tol)
		f.Terrain = ter.String

		poly, err := geometry.DecodeEWKB(wkb)
		if err != nil {
			return eris.Wrap(err, "store: decode fragment geometry")
		}
		f.Geom = poly

		if err := fn(f); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return eris.Wrap(err, "store: iterate fragments")
	}
	return nil
}

// nullStr maps "" to NULL so absent codes stay distinguishable in SQL.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
