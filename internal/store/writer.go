package store

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/boreal-analytics/forestcut/internal/model"
)

// DefaultBufferSize is the fragment buffer cap before a flush.
const DefaultBufferSize = 5000

// Writer buffers fragments and appends them to the store in batches, keeping
// memory bounded regardless of how many fragments the overlay produces. It
// owns the run record: Close marks the run complete, which is what turns the
// dataset into a valid checkpoint.
type Writer struct {
	store   *FragmentStore
	runID   string
	buf     []model.Fragment
	cap     int
	written int64
}

// NewWriter begins a run and returns a writer with the given buffer cap.
// capacity <= 0 selects DefaultBufferSize.
func NewWriter(ctx context.Context, s *FragmentStore, capacity int) (*Writer, error) {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	runID, err := s.BeginRun(ctx)
	if err != nil {
		return nil, err
	}
	return &Writer{
		store: s,
		runID: runID,
		buf:   make([]model.Fragment, 0, capacity),
		cap:   capacity,
	}, nil
}

// RunID returns the id of the run this writer records into.
func (w *Writer) RunID() string {
	return w.runID
}

// Add buffers one fragment, flushing when the buffer reaches its cap.
func (w *Writer) Add(ctx context.Context, f model.Fragment) error {
	w.buf = append(w.buf, f)
	if len(w.buf) >= w.cap {
		return w.Flush(ctx)
	}
	return nil
}

// Flush appends all buffered fragments to the store and clears the buffer.
func (w *Writer) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}
	if err := w.store.AppendBatch(ctx, w.buf); err != nil {
		return eris.Wrap(err, "store: flush buffer")
	}
	w.written += int64(len(w.buf))
	w.buf = w.buf[:0]
	return nil
}

// Written returns the number of fragments flushed so far.
func (w *Writer) Written() int64 {
	return w.written
}

// Close flushes the remaining buffer and marks the run complete. Call it
// only after the overlay finished successfully; an abandoned writer leaves
// the run incomplete so the next resume discards the dataset.
func (w *Writer) Close(ctx context.Context) error {
	if err := w.Flush(ctx); err != nil {
		return err
	}
	if err := w.store.CompleteRun(ctx, w.runID, w.written); err != nil {
		return err
	}
	zap.L().Info("fragment dataset complete",
		zap.String("run_id", w.runID),
		zap.Int64("fragments", w.written),
	)
	return nil
}
