package workflow_test

import (
	"testing"

	"github.com/inkwell-ai/inkwell/workflow"
)

func TestChaptersComplete(t *testing.T) {
	tests := []struct {
		name     string
		chapters []workflow.Chapter
		want     bool
	}{
		{
			"no chapters",
			nil,
			false,
		},
		{
			"missing content",
			[]workflow.Chapter{
				{Title: "One", Index: 0, Content: str("body")},
				{Title: "Two", Index: 1},
			},
			false,
		},
		{
			"empty content counts as ungenerated",
			[]workflow.Chapter{
				{Title: "One", Index: 0, Content: str("")},
			},
			false,
		},
		{
			"all generated",
			[]workflow.Chapter{
				{Title: "One", Index: 0, Content: str("a")},
				{Title: "Two", Index: 1, Content: str("b")},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &workflow.Draft{Chapters: tt.chapters}
			if got := d.ChaptersComplete(); got != tt.want {
				t.Errorf("ChaptersComplete = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDraftChapterLookup(t *testing.T) {
	d := &workflow.Draft{
		Chapters: []workflow.Chapter{
			{Title: "One", Index: 0},
			{Title: "Two", Index: 1},
		},
	}

	ch := d.Chapter(1)
	if ch == nil || ch.Title != "Two" {
		t.Errorf("Chapter(1) = %+v, want Two", ch)
	}

	if d.Chapter(5) != nil {
		t.Error("Chapter(5) != nil for absent index")
	}
}
