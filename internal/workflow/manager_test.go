package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-ai/inkwell/internal/generation"
	wf "github.com/inkwell-ai/inkwell/workflow"
)

func newTestManager(rt *Runtime) *Manager {
	return NewManager(rt, context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func drainRun(t *testing.T, run *Run) wf.RunStatus {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-run.Events():
			if !ok {
				status, _ := run.Snapshot()
				return status
			}
		case <-timeout:
			t.Fatal("run did not reach a terminal status")
		}
	}
}

func TestManagerRunLifecycle(t *testing.T) {
	store := seededBooks()
	rt := newTestRuntime(store, newFakeGenerator(2), &fakeRenderer{})
	m := newTestManager(rt)

	id := uuid.New()
	run, err := m.Start(id)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}

	if status := drainRun(t, run); status != wf.RunCompleted {
		t.Errorf("status = %q, want %q", status, wf.RunCompleted)
	}

	found, err := m.Find(id)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if found != run {
		t.Error("Find returned a different run")
	}

	// terminal run does not block a fresh start
	if _, err := m.Start(id); err != nil {
		t.Errorf("restart after terminal run: %v", err)
	}
}

func TestManagerRejectsConcurrentRuns(t *testing.T) {
	store := seededBooks()
	gen := newFakeGenerator(2)

	release := make(chan struct{})
	gen.onGenerate = func(kind generation.Kind) {
		if kind == generation.KindTitle {
			<-release
		}
	}

	rt := newTestRuntime(store, gen, &fakeRenderer{})
	m := newTestManager(rt)

	id := uuid.New()
	run, err := m.Start(id)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}

	if _, err := m.Start(id); !errors.Is(err, ErrRunActive) {
		t.Errorf("second Start error = %v, want ErrRunActive", err)
	}

	close(release)
	drainRun(t, run)
}

func TestManagerCancel(t *testing.T) {
	store := seededBooks()
	gen := newFakeGenerator(2)

	started := make(chan struct{})
	release := make(chan struct{})
	gen.onGenerate = func(kind generation.Kind) {
		if kind == generation.KindTitle {
			close(started)
			<-release
		}
	}

	rt := newTestRuntime(store, gen, &fakeRenderer{})
	m := newTestManager(rt)

	id := uuid.New()
	run, err := m.Start(id)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}

	<-started
	if err := m.Cancel(id); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	close(release)

	if status := drainRun(t, run); status != wf.RunCancelled {
		t.Errorf("status = %q, want %q", status, wf.RunCancelled)
	}
}

func TestManagerCancelUnknownRun(t *testing.T) {
	rt := newTestRuntime(seededBooks(), newFakeGenerator(2), &fakeRenderer{})
	m := newTestManager(rt)

	if err := m.Cancel(uuid.New()); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Cancel error = %v, want ErrRunNotFound", err)
	}
}
