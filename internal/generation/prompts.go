package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkwell-ai/inkwell/workflow"
)

var instructions = map[Kind]string{
	KindTitle: `You are a book editor. Given the raw research material below,
produce a compelling, specific book title. Respond with JSON:
{"title": "..."}`,

	KindTOC: `You are a book editor. Given the title and raw research material
below, produce a table of contents of 5 to 12 chapters. Each entry needs a
chapter title and the key data points it should cover. Respond with JSON:
{"chapters": [{"title": "...", "dataPoints": ["...", "..."]}]}`,

	KindChapter: `You are a book author. Write the full prose content for the
chapter described below, grounded in its data points and consistent with the
chapters written so far. Respond with the chapter text only, no JSON.`,

	KindIntroduction: `You are a book author. Write the introduction for the
book below, previewing its chapters. Respond with the introduction text only.`,

	KindConclusion: `You are a book author. Write the conclusion for the book
below, synthesizing its chapters. Respond with the conclusion text only.`,

	KindReview: `You are a book editor. Review the assembled draft below for
coherence, factual consistency, and flow. Respond with a concise editorial
review in plain text.`,
}

// ComposePrompt builds a prompt for the given kind by combining its
// instructions with the relevant accumulated draft context serialized as
// indented JSON.
func ComposePrompt(kind Kind, d *workflow.Draft) (string, error) {
	inst, ok := instructions[kind]
	if !ok {
		return "", fmt.Errorf("no instructions for kind %s", kind)
	}

	ctx, err := draftContext(kind, d)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(inst)
	sb.WriteString("\n\n")
	sb.WriteString(ctx)
	return sb.String(), nil
}

// ComposeChapterPrompt builds a chapter generation prompt scoped to the
// section at the given index, including the titles of preceding chapters so
// the model keeps continuity without resending their full text.
func ComposeChapterPrompt(d *workflow.Draft, index int) (string, error) {
	if index < 0 || index >= len(d.TableOfContents) {
		return "", fmt.Errorf("chapter index %d out of range", index)
	}

	section := d.TableOfContents[index]

	payload := map[string]any{
		"bookTitle":  d.Title,
		"chapter":    section.Title,
		"dataPoints": section.DataPoints,
		"position":   fmt.Sprintf("%d of %d", index+1, len(d.TableOfContents)),
	}

	var written []string
	for i := range d.Chapters {
		if d.Chapters[i].Index < index && d.Chapters[i].Generated() {
			written = append(written, d.Chapters[i].Title)
		}
	}
	if len(written) > 0 {
		payload["chaptersWrittenSoFar"] = written
	}

	ctxJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize chapter context: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(instructions[KindChapter])
	sb.WriteString("\n\nChapter context:\n\n")
	sb.Write(ctxJSON)
	return sb.String(), nil
}

func draftContext(kind Kind, d *workflow.Draft) (string, error) {
	payload := map[string]any{}

	switch kind {
	case KindTitle:
		payload["rawData"] = d.RawData
	case KindTOC:
		payload["title"] = d.Title
		payload["rawData"] = d.RawData
	case KindIntroduction, KindConclusion:
		payload["title"] = d.Title
		payload["tableOfContents"] = d.TableOfContents
		payload["chapters"] = chapterSummaries(d)
	case KindReview:
		payload["title"] = d.Title
		payload["draft"] = d.Assembled
	default:
		payload["draft"] = d
	}

	ctxJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize draft context: %w", err)
	}

	return "Context:\n\n" + string(ctxJSON), nil
}

// chapterSummaries trims chapter content for prompts that need breadth over
// depth; the first 500 runes of each chapter are enough for continuity.
func chapterSummaries(d *workflow.Draft) []map[string]any {
	summaries := make([]map[string]any, 0, len(d.Chapters))
	for i := range d.Chapters {
		ch := &d.Chapters[i]
		summary := map[string]any{"title": ch.Title, "index": ch.Index}
		if ch.Generated() {
			runes := []rune(*ch.Content)
			if len(runes) > 500 {
				summary["excerpt"] = string(runes[:500])
			} else {
				summary["excerpt"] = *ch.Content
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
