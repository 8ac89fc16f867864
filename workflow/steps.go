package workflow

import (
	"encoding/json"
	"slices"
)

// Step represents one named stage of the generation pipeline.
type Step string

// Pipeline steps in catalog order. This order is the only valid
// execution order for one workflow instance.
const (
	StepInputHandling Step = "input_handling"
	StepTitle         Step = "generate_title"
	StepTOC           Step = "generate_toc"
	StepChapters      Step = "generate_chapters"
	StepIntroduction  Step = "generate_introduction"
	StepConclusion    Step = "generate_conclusion"
	StepAssemble      Step = "assemble_draft"
	StepReview        Step = "ai_review"
	StepRender        Step = "generate_pdf"
)

var catalog = []Step{
	StepInputHandling,
	StepTitle,
	StepTOC,
	StepChapters,
	StepIntroduction,
	StepConclusion,
	StepAssemble,
	StepReview,
	StepRender,
}

// Steps returns the ordered step catalog.
func Steps() []Step {
	return slices.Clone(catalog)
}

// TotalSteps returns the number of steps in the catalog.
func TotalSteps() int {
	return len(catalog)
}

// ParseStep validates a string as a known workflow step.
// Returns ErrInvalidStep if the value is not recognized.
func ParseStep(s string) (Step, error) {
	v := Step(s)
	if !slices.Contains(catalog, v) {
		return "", ErrInvalidStep
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known step value.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Step(raw)
	if !slices.Contains(catalog, v) {
		return ErrInvalidStep
	}
	*s = v
	return nil
}

// Index returns the step's position in the catalog, or -1 if unknown.
func (s Step) Index() int {
	return slices.Index(catalog, s)
}

// NextIncomplete returns the first catalog step not present in completed.
// The second return is false when every step is complete.
func NextIncomplete(completed []Step) (Step, bool) {
	for _, step := range catalog {
		if !slices.Contains(completed, step) {
			return step, true
		}
	}
	return "", false
}

// Precondition reports whether the draft satisfies the data requirements
// for running the given step. Returns a *PreconditionError naming the
// first missing field, or nil when the step may run.
func Precondition(step Step, d *Draft) error {
	missing := func(field string) error {
		return &PreconditionError{Step: step, Field: field}
	}

	switch step {
	case StepInputHandling:
		if !d.HasRawData() {
			return missing("rawData")
		}
	case StepTitle:
		if !d.HasRawData() {
			return missing("rawData")
		}
	case StepTOC:
		if !d.HasRawData() {
			return missing("rawData")
		}
		if !d.HasTitle() {
			return missing("title")
		}
	case StepChapters:
		if len(d.TableOfContents) == 0 {
			return missing("tableOfContents")
		}
	case StepIntroduction:
		if !d.ChaptersComplete() {
			return missing("chapters")
		}
	case StepConclusion:
		if !d.ChaptersComplete() {
			return missing("chapters")
		}
	case StepAssemble:
		if !d.HasTitle() {
			return missing("title")
		}
		if !d.ChaptersComplete() {
			return missing("chapters")
		}
		if d.Introduction == nil {
			return missing("introduction")
		}
		if d.Conclusion == nil {
			return missing("conclusion")
		}
	case StepReview:
		if d.Assembled == nil {
			return missing("assembledDraft")
		}
	case StepRender:
		if d.Assembled == nil {
			return missing("assembledDraft")
		}
	default:
		return ErrInvalidStep
	}

	return nil
}
