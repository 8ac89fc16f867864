package workflow_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/inkwell-ai/inkwell/workflow"
)

func TestStateNext(t *testing.T) {
	t.Run("fresh state starts at input handling", func(t *testing.T) {
		st := workflow.NewState()
		step, ok := st.Next()
		if !ok || step != workflow.StepInputHandling {
			t.Errorf("Next = (%q, %v), want (%q, true)", step, ok, workflow.StepInputHandling)
		}
	})

	t.Run("current step takes precedence over completion order", func(t *testing.T) {
		st := workflow.NewState()
		st.RecordCompletion(workflow.StepInputHandling)
		st.RecordCompletion(workflow.StepTitle)
		st.RecordStart(workflow.StepTitle)

		step, ok := st.Next()
		if !ok || step != workflow.StepTitle {
			t.Errorf("Next = (%q, %v), want (%q, true)", step, ok, workflow.StepTitle)
		}
	})

	t.Run("no next after all complete", func(t *testing.T) {
		st := workflow.NewState()
		for _, step := range workflow.Steps() {
			st.RecordCompletion(step)
		}
		if _, ok := st.Next(); ok {
			t.Error("Next ok = true after all steps complete")
		}
		if !st.Done() {
			t.Error("Done = false after all steps complete")
		}
	})
}

func TestStateRecordCompletion(t *testing.T) {
	st := workflow.NewState()

	st.RecordCompletion(workflow.StepInputHandling)
	st.RecordCompletion(workflow.StepInputHandling)

	if len(st.Completed) != 1 {
		t.Errorf("Completed length = %d, want 1 (no duplicates)", len(st.Completed))
	}
	if st.Progress[workflow.StepInputHandling] != 100 {
		t.Errorf("Progress = %v, want 100", st.Progress[workflow.StepInputHandling])
	}
	if st.CurrentStep == nil || *st.CurrentStep != workflow.StepTitle {
		t.Errorf("CurrentStep = %v, want %q", st.CurrentStep, workflow.StepTitle)
	}
}

func TestStateRecordProgressClamps(t *testing.T) {
	st := workflow.NewState()

	st.RecordProgress(workflow.StepChapters, 150)
	if got := st.Progress[workflow.StepChapters]; got != 100 {
		t.Errorf("Progress = %v, want 100", got)
	}

	st.RecordProgress(workflow.StepChapters, -5)
	if got := st.Progress[workflow.StepChapters]; got != 0 {
		t.Errorf("Progress = %v, want 0", got)
	}
}

func TestStateNormalize(t *testing.T) {
	st := &workflow.State{
		Completed: []workflow.Step{
			workflow.StepInputHandling,
			workflow.StepInputHandling,
			workflow.Step("unknown_step"),
			workflow.StepTitle,
		},
		Progress: map[workflow.Step]float64{
			workflow.StepTitle: 250,
		},
	}

	st.Normalize()

	if len(st.Completed) != 2 {
		t.Errorf("Completed length = %d, want 2", len(st.Completed))
	}
	if st.Progress[workflow.StepTitle] != 100 {
		t.Errorf("Progress = %v, want 100", st.Progress[workflow.StepTitle])
	}
	if st.TotalSteps != workflow.TotalSteps() {
		t.Errorf("TotalSteps = %d, want %d", st.TotalSteps, workflow.TotalSteps())
	}
}

func TestStateJSONFieldNames(t *testing.T) {
	st := workflow.NewState()
	st.RecordStart(workflow.StepTitle)

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, field := range []string{"currentStep", "totalSteps", "stepsCompleted", "stepProgress"} {
		if !strings.Contains(string(data), field) {
			t.Errorf("marshaled state missing field %q: %s", field, data)
		}
	}
}
