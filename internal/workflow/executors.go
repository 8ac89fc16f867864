package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell-ai/inkwell/internal/generation"
	wf "github.com/inkwell-ai/inkwell/workflow"
)

// execution carries one workflow instance's in-memory state through the
// pipeline graph. The state and draft are authoritative for the duration
// of the run even when a persistence call fails. current, overall, and err
// record where a traversal stands for the driver's event reporting.
type execution struct {
	rt      *Runtime
	id      uuid.UUID
	state   *wf.State
	draft   *wf.Draft
	observe wf.ProgressFunc

	totalRemaining int
	stepsDone      int
	current        wf.Step
	overall        float64
	err            error
}

func (e *execution) emit(step wf.Step, pct float64) {
	if e.observe == nil {
		return
	}
	e.observe(wf.Event{
		Step:         step,
		StepProgress: pct,
		Overall:      e.overall,
		Status:       wf.RunRunning,
	})
}

type executorFunc func(ctx context.Context, e *execution) error

var executors = map[wf.Step]executorFunc{
	wf.StepInputHandling: executeInputHandling,
	wf.StepTitle:         executeTitle,
	wf.StepTOC:           executeTOC,
	wf.StepChapters:      executeChapters,
	wf.StepIntroduction:  executeIntroduction,
	wf.StepConclusion:    executeConclusion,
	wf.StepAssemble:      executeAssemble,
	wf.StepReview:        executeReview,
	wf.StepRender:        executeRender,
}

// runStep is the lifecycle every step node runs. On precondition failure
// nothing is mutated; on executor failure the draft merge is skipped and
// CurrentStep stays on the failed step so a retry re-enters it; on success
// the completion is recorded and persisted. With an observer attached the
// step start is announced and the pacing pause applies after completion.
func (e *execution) runStep(ctx context.Context, step wf.Step) error {
	e.current = step
	e.overall = overallPct(e.stepsDone, e.totalRemaining)
	e.emit(step, e.state.Progress[step])

	if err := wf.Precondition(step, e.draft); err != nil {
		return err
	}

	exec, ok := executors[step]
	if !ok {
		return wf.ErrInvalidStep
	}

	e.state.RecordStart(step)
	if err := e.rt.Books.SaveState(ctx, e.id, e.state, e.draft); err != nil {
		// in-memory state stays authoritative for this process
		e.rt.Logger.WarnContext(ctx, "step start save failed", "book", e.id, "step", step, "error", err)
	}

	if err := exec(ctx, e); err != nil {
		return fmt.Errorf("step %s: %w", step, err)
	}

	e.state.RecordCompletion(step)
	if err := e.rt.Books.SaveState(ctx, e.id, e.state, e.draft); err != nil {
		return err
	}

	e.rt.Logger.InfoContext(
		ctx, "step complete",
		"book", e.id,
		"step", step,
		"completed", len(e.state.Completed),
		"total", e.state.TotalSteps,
	)

	e.stepsDone++

	if e.observe != nil && e.rt.Pacing > 0 {
		pause(ctx, e.rt.Pacing)
	}

	return nil
}

func executeInputHandling(_ context.Context, e *execution) error {
	raw := strings.ReplaceAll(*e.draft.RawData, "\r\n", "\n")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &wf.PreconditionError{Step: wf.StepInputHandling, Field: "rawData"}
	}

	e.draft.RawData = &raw
	return nil
}

type titleResponse struct {
	Title string `json:"title"`
}

func executeTitle(ctx context.Context, e *execution) error {
	prompt, err := generation.ComposePrompt(generation.KindTitle, e.draft)
	if err != nil {
		return err
	}

	resp, err := generation.Structured[titleResponse](ctx, e.rt.Generator, generation.KindTitle, prompt)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(resp.Title)
	if title == "" {
		return fmt.Errorf("%w: empty title", wf.ErrGeneration)
	}

	e.draft.Title = &title
	return nil
}

type tocResponse struct {
	Chapters []wf.Section `json:"chapters"`
}

func executeTOC(ctx context.Context, e *execution) error {
	prompt, err := generation.ComposePrompt(generation.KindTOC, e.draft)
	if err != nil {
		return err
	}

	resp, err := generation.Structured[tocResponse](ctx, e.rt.Generator, generation.KindTOC, prompt)
	if err != nil {
		return err
	}

	if len(resp.Chapters) == 0 {
		return fmt.Errorf("%w: empty table of contents", wf.ErrGeneration)
	}

	if limit := e.rt.MaxChapters; limit > 0 && len(resp.Chapters) > limit {
		e.rt.Logger.WarnContext(
			ctx, "table of contents truncated",
			"book", e.id,
			"generated", len(resp.Chapters),
			"limit", limit,
		)
		resp.Chapters = resp.Chapters[:limit]
	}

	e.draft.TableOfContents = resp.Chapters

	// a regenerated TOC invalidates previously generated chapters
	if len(e.draft.Chapters) > 0 {
		e.draft.Chapters = nil
		if err := e.rt.Books.DeleteChapters(ctx, e.id); err != nil {
			e.rt.Logger.WarnContext(ctx, "stale chapter cleanup failed", "book", e.id, "error", err)
		}
	}

	return nil
}

func executeIntroduction(ctx context.Context, e *execution) error {
	prompt, err := generation.ComposePrompt(generation.KindIntroduction, e.draft)
	if err != nil {
		return err
	}

	text, err := e.rt.Generator.Generate(ctx, generation.KindIntroduction, prompt)
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	e.draft.Introduction = &text
	return nil
}

func executeConclusion(ctx context.Context, e *execution) error {
	prompt, err := generation.ComposePrompt(generation.KindConclusion, e.draft)
	if err != nil {
		return err
	}

	text, err := e.rt.Generator.Generate(ctx, generation.KindConclusion, prompt)
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	e.draft.Conclusion = &text
	return nil
}

// executeAssemble is the one pure step: it folds the accumulated parts into
// a single draft document without calling the generation service.
func executeAssemble(_ context.Context, e *execution) error {
	var sb strings.Builder

	sb.WriteString(*e.draft.Title)
	sb.WriteString("\n\n")
	sb.WriteString("Introduction\n\n")
	sb.WriteString(*e.draft.Introduction)
	sb.WriteString("\n\n")

	for i := range e.draft.Chapters {
		ch := &e.draft.Chapters[i]
		fmt.Fprintf(&sb, "Chapter %d: %s\n\n", ch.Index+1, ch.Title)
		sb.WriteString(*ch.Content)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Conclusion\n\n")
	sb.WriteString(*e.draft.Conclusion)
	sb.WriteString("\n")

	assembled := sb.String()
	e.draft.Assembled = &assembled
	return nil
}

func executeReview(ctx context.Context, e *execution) error {
	prompt, err := generation.ComposePrompt(generation.KindReview, e.draft)
	if err != nil {
		return err
	}

	review, err := e.rt.Generator.Generate(ctx, generation.KindReview, prompt)
	if err != nil {
		return err
	}

	review = strings.TrimSpace(review)
	e.draft.Review = &review
	return nil
}

func executeRender(ctx context.Context, e *execution) error {
	key, err := e.rt.Renderer.Render(ctx, e.id, e.draft, e.rt.Render)
	if err != nil {
		return err
	}

	e.draft.ArtifactKey = &key
	return nil
}
