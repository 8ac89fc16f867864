package workflow

// RunStatus is the auto-run driver's state machine position.
type RunStatus string

// Auto-run states. Idle transitions to Running on start; Running ends in
// exactly one of Completed, Cancelled, or Failed.
const (
	RunIdle      RunStatus = "idle"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
	RunFailed    RunStatus = "failed"
)

// Terminal reports whether the status ends an auto-run.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunCancelled || s == RunFailed
}

// Event is one progress observation emitted during an auto-run: the step
// being executed, its fractional sub-progress, the overall run percentage,
// and the driver status. Error is set only on a failed terminal event.
type Event struct {
	Step         Step      `json:"step,omitempty"`
	StepProgress float64   `json:"stepProgress"`
	Overall      float64   `json:"overall"`
	Status       RunStatus `json:"status"`
	Error        string    `json:"error,omitempty"`
}

// ProgressFunc observes auto-run progress. Called once per step start,
// after each sub-progress update, and once with a terminal status event.
type ProgressFunc func(Event)
