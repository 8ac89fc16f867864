package workflow

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	wf "github.com/inkwell-ai/inkwell/workflow"
)

// Run tracks a single in-flight or finished auto-run for a book.
type Run struct {
	BookID uuid.UUID

	cancel atomic.Bool
	events chan wf.Event

	mu     sync.Mutex
	status wf.RunStatus
	err    error
}

// Events returns the run's event stream. The channel is closed when the
// run reaches a terminal status.
func (r *Run) Events() <-chan wf.Event {
	return r.events
}

// Snapshot returns the run's current status and terminal error, if any.
func (r *Run) Snapshot() (wf.RunStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.err
}

// emit forwards an event without blocking the driver. Slow or absent
// consumers lose intermediate events; the terminal event is retained by
// the run's status snapshot regardless.
func (r *Run) emit(ev wf.Event) {
	select {
	case r.events <- ev:
	default:
	}
}

func (r *Run) finish(status wf.RunStatus, err error) {
	r.mu.Lock()
	r.status = status
	r.err = err
	r.mu.Unlock()
	close(r.events)
}

// Manager owns the registry of auto-runs. At most one non-terminal run
// exists per book; finished runs remain queryable until replaced by the
// next Start for the same book.
type Manager struct {
	runtime *Runtime
	base    context.Context
	logger  *slog.Logger

	mu   sync.Mutex
	runs map[uuid.UUID]*Run
}

// NewManager creates a run registry bound to base, which should be the
// service lifecycle context so runs outlive the HTTP requests that start
// them but stop on shutdown.
func NewManager(runtime *Runtime, base context.Context, logger *slog.Logger) *Manager {
	return &Manager{
		runtime: runtime,
		base:    base,
		logger:  logger.With("system", "workflow"),
		runs:    make(map[uuid.UUID]*Run),
	}
}

// Start launches an auto-run for the book. It fails with ErrRunActive if
// a run for the same book has not yet reached a terminal status.
func (m *Manager) Start(id uuid.UUID) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.runs[id]; ok {
		status, _ := existing.Snapshot()
		if !status.Terminal() {
			return nil, ErrRunActive
		}
	}

	run := &Run{
		BookID: id,
		events: make(chan wf.Event, 64),
		status: wf.RunRunning,
	}
	m.runs[id] = run

	go func() {
		status, err := m.runtime.autoRun(m.base, id, &run.cancel, run.emit)
		run.finish(status, err)
	}()

	m.logger.Info("auto-run started", "book", id)
	return run, nil
}

// Cancel requests cooperative cancellation of the book's active run. The
// run stops at the next step boundary.
func (m *Manager) Cancel(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[id]
	if !ok {
		return ErrRunNotFound
	}

	status, _ := run.Snapshot()
	if status.Terminal() {
		return ErrRunNotFound
	}

	run.cancel.Store(true)
	m.logger.Info("auto-run cancellation requested", "book", id)
	return nil
}

// Find returns the most recent run for the book, terminal or not.
func (m *Manager) Find(id uuid.UUID) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}
