package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkwell-ai/inkwell/workflow"
)

const (
	lineWidth    = 88
	linesPerPage = 46
)

type textEntity struct {
	Value    string    `json:"value"`
	Font     fontSpec  `json:"font"`
	Position []float64 `json:"position"`
	Width    float64   `json:"width,omitempty"`
}

type fontSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type pageContent struct {
	Content struct {
		Text []textEntity `json:"text"`
	} `json:"content"`
}

type pageDescription struct {
	Paper  string                 `json:"paper"`
	Origin string                 `json:"origin"`
	Pages  map[string]pageContent `json:"pages"`
}

// buildPageDescription lays the assembled draft out as a pdfcpu create
// description: a title page followed by body pages of wrapped text.
func buildPageDescription(d *workflow.Draft, opts Options) ([]byte, error) {
	desc := pageDescription{
		Paper:  opts.Paper,
		Origin: "upperLeft",
		Pages:  map[string]pageContent{},
	}

	title := ""
	if d.Title != nil {
		title = *d.Title
	}

	var titlePage pageContent
	titlePage.Content.Text = []textEntity{
		{
			Value:    title,
			Font:     fontSpec{Name: opts.Font, Size: opts.FontSize * 2},
			Position: []float64{72, 260},
			Width:    451,
		},
	}
	desc.Pages["1"] = titlePage

	lines := wrapText(*d.Assembled, lineWidth)
	for i := 0; i*linesPerPage < len(lines); i++ {
		chunk := lines[i*linesPerPage : min((i+1)*linesPerPage, len(lines))]

		var page pageContent
		page.Content.Text = []textEntity{
			{
				Value:    strings.Join(chunk, "\n"),
				Font:     fontSpec{Name: opts.Font, Size: opts.FontSize},
				Position: []float64{72, 72},
				Width:    451,
			},
		}
		desc.Pages[fmt.Sprintf("%d", i+2)] = page
	}

	return json.Marshal(desc)
}

// wrapText breaks text into lines no wider than width runes, preserving
// existing line breaks and breaking on word boundaries where possible.
func wrapText(text string, width int) []string {
	var lines []string

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, " \t")
		if raw == "" {
			lines = append(lines, "")
			continue
		}

		words := strings.Fields(raw)
		current := ""
		for _, word := range words {
			switch {
			case current == "":
				current = word
			case len([]rune(current))+1+len([]rune(word)) <= width:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}

	return lines
}
