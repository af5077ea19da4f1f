package store

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Checkpoint is the outcome of resuming against a prior output file.
// When Complete is true the dataset is the final result and the overlay
// phase must be skipped; otherwise Store is a fresh, empty dataset.
type Checkpoint struct {
	Store     *FragmentStore
	Complete  bool
	Fragments int64
}

// Resume implements the all-or-nothing checkpoint. If a dataset exists at
// path and validates (openable, expected schema, a completed run whose
// recorded fragment count matches the table), it is trusted in full. Any
// other state — truncated file, foreign schema, or a run that never
// completed — discards the file entirely and recomputation starts clean.
// Partial outputs are never trusted as partial.
func Resume(ctx context.Context, path string) (*Checkpoint, error) {
	log := zap.L().With(zap.String("component", "store.checkpoint"), zap.String("path", path))

	if _, err := os.Stat(path); err == nil {
		s, count, verr := validate(ctx, path)
		if verr == nil {
			log.Info("valid checkpoint found, overlay will be skipped",
				zap.Int64("fragments", count))
			return &Checkpoint{Store: s, Complete: true, Fragments: count}, nil
		}
		log.Warn("discarding invalid checkpoint", zap.Error(verr))
		if err := remove(path); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, eris.Wrapf(err, "store: stat %s", path)
	}

	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return &Checkpoint{Store: s}, nil
}

// OpenComplete opens an existing dataset and errors unless it validates as a
// complete checkpoint. Used by the aggregation phase, which must never
// trigger a discard on its own.
func OpenComplete(ctx context.Context, path string) (*FragmentStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "store: no fragment dataset at %s (run overlay first)", path)
	}
	s, _, err := validate(ctx, path)
	if err != nil {
		return nil, eris.Wrap(err, "store: fragment dataset is not a complete checkpoint")
	}
	return s, nil
}

// validate opens the dataset and checks it is well-formed and final. On
// success the open store is returned; on failure it is closed.
func validate(ctx context.Context, path string) (*FragmentStore, int64, error) {
	s, err := Open(path)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.checkValid(ctx)
	if err != nil {
		_ = s.Close()
		return nil, 0, err
	}
	return s, count, nil
}

func (s *FragmentStore) checkValid(ctx context.Context) (int64, error) {
	// A truncated or non-database file fails here.
	var integrity string
	if err := s.db.QueryRowContext(ctx, `PRAGMA quick_check`).Scan(&integrity); err != nil {
		return 0, eris.Wrap(err, "store: integrity check")
	}
	if integrity != "ok" {
		return 0, eris.Errorf("store: integrity check reported %q", integrity)
	}

	// Schema consistency: every expected column must be selectable.
	rows, err := s.db.QueryContext(ctx, `
		SELECT fiscal_year, origin, origin_year, disturbance, disturbance_year,
		       reforest1, reforest2, reforest3,
		       age_regime, shade_tolerance, terrain, geom
		FROM fragments LIMIT 0`)
	if err != nil {
		return 0, eris.Wrap(err, "store: fragment schema mismatch")
	}
	_ = rows.Close()

	// The dataset is final only when its last run completed and the recorded
	// count matches the table. A run killed between flushes fails here.
	run, err := s.LatestRun(ctx)
	if err != nil {
		return 0, err
	}
	if run == nil {
		return 0, eris.New("store: no run recorded")
	}
	if run.Status != RunStatusComplete {
		return 0, eris.Errorf("store: last run %s is %s", run.ID, run.Status)
	}
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count != run.FragmentCount {
		return 0, eris.Errorf("store: fragment count %d does not match recorded %d",
			count, run.FragmentCount)
	}
	return count, nil
}

// remove deletes the dataset file along with its WAL sidecars.
func remove(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return eris.Wrapf(err, "store: remove %s", p)
		}
	}
	return nil
}
