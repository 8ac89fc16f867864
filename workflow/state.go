package workflow

import "slices"

// State is the persisted record of pipeline progress for one workflow
// instance. Completed is order-insensitive and duplicate-free; Progress
// values are clamped to [0,100]. Mutations happen only through the
// Record* operations, with persistence as an explicit caller-side effect.
type State struct {
	CurrentStep *Step            `json:"currentStep"`
	TotalSteps  int              `json:"totalSteps"`
	Completed   []Step           `json:"stepsCompleted"`
	Progress    map[Step]float64 `json:"stepProgress"`
}

// NewState creates an empty workflow state for a freshly opened instance.
func NewState() *State {
	return &State{
		TotalSteps: TotalSteps(),
		Completed:  []Step{},
		Progress:   map[Step]float64{},
	}
}

// IsCompleted reports whether the given step has been completed.
func (s *State) IsCompleted(step Step) bool {
	return slices.Contains(s.Completed, step)
}

// Done reports whether every catalog step has been completed.
func (s *State) Done() bool {
	_, ok := NextIncomplete(s.Completed)
	return !ok
}

// Next returns the first catalog step not yet completed. When CurrentStep
// is set it takes precedence, covering re-entry of a step for regeneration.
func (s *State) Next() (Step, bool) {
	if s.CurrentStep != nil {
		return *s.CurrentStep, true
	}
	return NextIncomplete(s.Completed)
}

// RecordStart marks the given step as the current step.
func (s *State) RecordStart(step Step) {
	s.CurrentStep = &step
}

// RecordProgress stores fractional progress for a step, clamped to [0,100].
func (s *State) RecordProgress(step Step, pct float64) {
	if s.Progress == nil {
		s.Progress = map[Step]float64{}
	}
	s.Progress[step] = min(max(pct, 0), 100)
}

// RecordCompletion adds the step to the completed set (duplicate-free),
// pins its progress at 100, and advances CurrentStep to the next incomplete
// catalog step, or nil when none remain.
func (s *State) RecordCompletion(step Step) {
	if !slices.Contains(s.Completed, step) {
		s.Completed = append(s.Completed, step)
	}
	s.RecordProgress(step, 100)

	if next, ok := NextIncomplete(s.Completed); ok {
		s.CurrentStep = &next
	} else {
		s.CurrentStep = nil
	}
}

// Normalize repairs a state loaded from persistence: removes duplicate or
// unknown completed entries, clamps progress values, and fills TotalSteps.
func (s *State) Normalize() {
	deduped := make([]Step, 0, len(s.Completed))
	for _, step := range s.Completed {
		if step.Index() == -1 {
			continue
		}
		if !slices.Contains(deduped, step) {
			deduped = append(deduped, step)
		}
	}
	s.Completed = deduped

	if s.Progress == nil {
		s.Progress = map[Step]float64{}
	}
	for step, pct := range s.Progress {
		s.Progress[step] = min(max(pct, 0), 100)
	}

	s.TotalSteps = TotalSteps()
}
