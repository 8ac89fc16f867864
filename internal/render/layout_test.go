package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/inkwell-ai/inkwell/workflow"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			"short line unchanged",
			"hello world",
			20,
			[]string{"hello world"},
		},
		{
			"breaks on word boundary",
			"alpha beta gamma",
			10,
			[]string{"alpha beta", "gamma"},
		},
		{
			"preserves blank lines",
			"first\n\nsecond",
			20,
			[]string{"first", "", "second"},
		},
		{
			"word longer than width kept whole",
			"supercalifragilistic",
			5,
			[]string{"supercalifragilistic"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.text, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("wrapText = %q, want %q", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildPageDescription(t *testing.T) {
	title := "Field Notes"
	assembled := strings.Repeat("line of body text\n", linesPerPage+10)
	d := &workflow.Draft{Title: &title, Assembled: &assembled}

	opts := Options{}
	opts.normalize()

	data, err := buildPageDescription(d, opts)
	if err != nil {
		t.Fatalf("buildPageDescription error: %v", err)
	}

	var desc pageDescription
	if err := json.Unmarshal(data, &desc); err != nil {
		t.Fatalf("description is not valid JSON: %v", err)
	}

	if desc.Paper != "A4" {
		t.Errorf("Paper = %q, want A4", desc.Paper)
	}
	if desc.Origin != "upperLeft" {
		t.Errorf("Origin = %q, want upperLeft", desc.Origin)
	}

	// title page plus two body pages for linesPerPage+10 lines
	if len(desc.Pages) != 3 {
		t.Fatalf("page count = %d, want 3", len(desc.Pages))
	}

	titlePage := desc.Pages["1"]
	if len(titlePage.Content.Text) != 1 || titlePage.Content.Text[0].Value != title {
		t.Errorf("title page = %+v, want single title entity", titlePage.Content.Text)
	}
	if got := titlePage.Content.Text[0].Font.Size; got != 22 {
		t.Errorf("title font size = %d, want 22", got)
	}

	body := desc.Pages["2"]
	if !strings.Contains(body.Content.Text[0].Value, "line of body text") {
		t.Error("body page missing assembled text")
	}
}

func TestOptionsNormalize(t *testing.T) {
	opts := Options{Paper: "Letter"}
	opts.normalize()

	if opts.Paper != "Letter" {
		t.Errorf("Paper = %q, want Letter preserved", opts.Paper)
	}
	if opts.Font != "Helvetica" || opts.FontSize != 11 {
		t.Errorf("defaults = %q/%d, want Helvetica/11", opts.Font, opts.FontSize)
	}
}
