package workflow

import (
	"context"
	"fmt"
	"math"

	"github.com/inkwell-ai/inkwell/internal/generation"
	wf "github.com/inkwell-ai/inkwell/workflow"
)

// executeChapters runs the nested chapter sub-pipeline: materialize chapter
// shells from the table of contents, then generate each chapter's content
// strictly in index order, persisting every chapter row as it completes so
// an interruption loses at most the in-flight chapter.
//
// A per-chapter save failure is logged and bypassed; the whole-draft
// fallback copy saved with step progress still covers it. A generation
// failure aborts the step: later steps require every chapter's content.
func executeChapters(ctx context.Context, e *execution) error {
	materializeChapters(e.draft)
	total := len(e.draft.Chapters)

	for i := 0; i < total; i++ {
		ch := e.draft.Chapter(i)
		if ch == nil {
			return fmt.Errorf("%w: missing chapter %d", wf.ErrGeneration, i)
		}

		// already generated on a previous attempt; resume past it
		if ch.Generated() {
			e.recordChapterProgress(ctx, i+1, total)
			continue
		}

		prompt, err := generation.ComposeChapterPrompt(e.draft, i)
		if err != nil {
			return err
		}

		content, err := e.rt.Generator.Generate(ctx, generation.KindChapter, prompt)
		if err != nil {
			return fmt.Errorf("chapter %d: %w", i+1, err)
		}
		ch.Content = &content

		stored, err := e.rt.Books.SaveChapter(ctx, e.id, ch)
		if err != nil {
			e.rt.Logger.WarnContext(
				ctx, "chapter save failed, draft copy retained",
				"book", e.id,
				"chapter", i+1,
				"error", err,
			)
		} else {
			ch.ID = stored.ID
		}

		e.recordChapterProgress(ctx, i+1, total)

		e.rt.Logger.InfoContext(
			ctx, "chapter generated",
			"book", e.id,
			"chapter", i+1,
			"total", total,
		)
	}

	return nil
}

// recordChapterProgress stores done/total as the chapter step's fractional
// progress, persists it with the draft fallback copy, and reports it to the
// progress observer.
func (e *execution) recordChapterProgress(ctx context.Context, done, total int) {
	pct := math.Round(float64(done) / float64(total) * 100)
	e.state.RecordProgress(wf.StepChapters, pct)

	if err := e.rt.Books.SaveState(ctx, e.id, e.state, e.draft); err != nil {
		e.rt.Logger.WarnContext(ctx, "chapter progress save failed", "book", e.id, "error", err)
	}

	e.emit(wf.StepChapters, pct)
}

// materializeChapters creates unsaved chapter shells from the table of
// contents when they do not exist yet, keeping any chapters that already
// match their section by index and title.
func materializeChapters(d *wf.Draft) {
	toc := d.TableOfContents
	chapters := make([]wf.Chapter, 0, len(toc))

	for i, section := range toc {
		if existing := d.Chapter(i); existing != nil && existing.Title == section.Title {
			chapters = append(chapters, *existing)
			continue
		}
		chapters = append(chapters, wf.Chapter{
			Title:      section.Title,
			Index:      i,
			DataPoints: section.DataPoints,
		})
	}

	d.Chapters = chapters
}
