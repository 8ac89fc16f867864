package generation_test

import (
	"strings"
	"testing"

	"github.com/inkwell-ai/inkwell/internal/generation"
	"github.com/inkwell-ai/inkwell/workflow"
)

func str(s string) *string { return &s }

func sampleDraft() *workflow.Draft {
	return &workflow.Draft{
		Title:   str("Field Notes"),
		RawData: str("raw research material"),
		TableOfContents: []workflow.Section{
			{Title: "Origins", DataPoints: []string{"first observation"}},
			{Title: "Methods", DataPoints: []string{"survey design"}},
		},
		Chapters: []workflow.Chapter{
			{Title: "Origins", Index: 0, Content: str("origins content")},
			{Title: "Methods", Index: 1},
		},
	}
}

func TestComposePrompt(t *testing.T) {
	tests := []struct {
		name     string
		kind     generation.Kind
		contains []string
		excludes []string
	}{
		{
			name:     "title includes raw data",
			kind:     generation.KindTitle,
			contains: []string{"book title", "raw research material"},
			excludes: []string{"Field Notes"},
		},
		{
			name:     "toc includes title and raw data",
			kind:     generation.KindTOC,
			contains: []string{"table of contents", "Field Notes", "raw research material"},
		},
		{
			name:     "introduction includes toc and chapter excerpts",
			kind:     generation.KindIntroduction,
			contains: []string{"introduction", "Origins", "origins content"},
			excludes: []string{"raw research material"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := generation.ComposePrompt(tt.kind, sampleDraft())
			if err != nil {
				t.Fatalf("ComposePrompt error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(prompt, want) {
					t.Errorf("prompt missing %q", want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(prompt, unwanted) {
					t.Errorf("prompt unexpectedly contains %q", unwanted)
				}
			}
		})
	}
}

func TestComposePromptUnknownKind(t *testing.T) {
	if _, err := generation.ComposePrompt(generation.Kind("bogus"), sampleDraft()); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestComposeChapterPrompt(t *testing.T) {
	d := sampleDraft()

	prompt, err := generation.ComposeChapterPrompt(d, 1)
	if err != nil {
		t.Fatalf("ComposeChapterPrompt error: %v", err)
	}

	for _, want := range []string{"Methods", "survey design", "2 of 2", "chaptersWrittenSoFar", "Origins"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "origins content") {
		t.Error("prompt includes full prior chapter text")
	}
}

func TestComposeChapterPromptRange(t *testing.T) {
	if _, err := generation.ComposeChapterPrompt(sampleDraft(), 5); err == nil {
		t.Error("expected error for out-of-range index")
	}
}
