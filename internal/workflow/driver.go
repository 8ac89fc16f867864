package workflow

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	wf "github.com/inkwell-ai/inkwell/workflow"
)

// StepResult reports the outcome of a single manual step execution.
type StepResult struct {
	Step  wf.Step   `json:"step,omitempty"`
	Done  bool      `json:"done"`
	State *wf.State `json:"state"`
}

// RunNext is the manual driver: it loads the workflow instance, determines
// the next incomplete step (honoring a persisted current step), executes
// exactly that one step, and returns. Calling it repeatedly with the same
// persisted state always re-executes the same step until it succeeds.
func (rt *Runtime) RunNext(ctx context.Context, id uuid.UUID) (*StepResult, error) {
	st, d, err := rt.Books.LoadState(ctx, id)
	if err != nil {
		return nil, err
	}

	step, ok := st.Next()
	if !ok {
		return &StepResult{Done: true, State: st}, nil
	}

	e := &execution{rt: rt, id: id, state: st, draft: d}
	if err := rt.execute(ctx, e, step, halt); err != nil {
		return nil, err
	}

	return &StepResult{Step: step, Done: st.Done(), State: st}, nil
}

// halt stops graph traversal at the first boundary: the manual driver
// executes exactly the entry node per call.
func halt(state.State) bool { return false }

// execute traverses the step graph from entry, advancing across step
// boundaries while advance holds. The execution travels in the graph's
// state bag; its recorded error keeps sentinel identity for status mapping
// when traversal fails.
func (rt *Runtime) execute(ctx context.Context, e *execution, entry wf.Step, advance func(state.State) bool) error {
	graph, err := buildGraph(entry, advance)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	s := state.New(nil)
	s = s.Set(keyExecution, e)

	if _, err := graph.Execute(ctx, s); err != nil {
		if e.err != nil {
			return e.err
		}
		return err
	}

	return nil
}

// autoRun executes all remaining steps by traversing the pipeline graph
// from the current step. The cancellation token gates the advance condition
// checked only at step boundaries; a step already in flight always runs to
// completion or failure. Completed steps stay completed on failure.
func (rt *Runtime) autoRun(
	ctx context.Context,
	id uuid.UUID,
	cancel *atomic.Bool,
	observe wf.ProgressFunc,
) (wf.RunStatus, error) {
	st, d, err := rt.Books.LoadState(ctx, id)
	if err != nil {
		observe(wf.Event{Status: wf.RunFailed, Error: err.Error()})
		return wf.RunFailed, err
	}

	totalRemaining := wf.TotalSteps() - len(st.Completed)

	if cancel.Load() || ctx.Err() != nil {
		rt.Logger.InfoContext(ctx, "auto-run cancelled", "book", id)
		observe(wf.Event{Status: wf.RunCancelled, Overall: overallPct(0, totalRemaining)})
		return wf.RunCancelled, nil
	}

	step, ok := st.Next()
	if !ok {
		rt.Logger.InfoContext(ctx, "auto-run complete", "book", id, "steps", 0)
		observe(wf.Event{Status: wf.RunCompleted, Overall: 100})
		return wf.RunCompleted, nil
	}

	e := &execution{
		rt:             rt,
		id:             id,
		state:          st,
		draft:          d,
		observe:        observe,
		totalRemaining: totalRemaining,
	}

	advance := func(state.State) bool {
		return !cancel.Load() && ctx.Err() == nil
	}

	if err := rt.execute(ctx, e, step, advance); err != nil {
		rt.Logger.ErrorContext(ctx, "auto-run failed", "book", id, "step", e.current, "error", err)
		observe(wf.Event{
			Step:    e.current,
			Overall: e.overall,
			Status:  wf.RunFailed,
			Error:   err.Error(),
		})
		return wf.RunFailed, err
	}

	if cancel.Load() || ctx.Err() != nil {
		rt.Logger.InfoContext(ctx, "auto-run cancelled", "book", id)
		observe(wf.Event{Status: wf.RunCancelled, Overall: overallPct(e.stepsDone, totalRemaining)})
		return wf.RunCancelled, nil
	}

	rt.Logger.InfoContext(ctx, "auto-run complete", "book", id, "steps", e.stepsDone)
	observe(wf.Event{Status: wf.RunCompleted, Overall: 100})
	return wf.RunCompleted, nil
}

func overallPct(done, total int) float64 {
	if total <= 0 {
		return 100
	}
	return float64(done) / float64(total) * 100
}

// pause sleeps for the pacing interval but returns early on context
// cancellation so shutdown is not held up between steps.
func pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
