package formatting_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/inkwell-ai/inkwell/pkg/formatting"
)

type sample struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestParse(t *testing.T) {
	t.Run("direct JSON", func(t *testing.T) {
		got, err := formatting.Parse[sample](`{"title":"Field Notes","tags":["a"]}`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Title != "Field Notes" || len(got.Tags) != 1 {
			t.Errorf("Parse = %+v, want {Field Notes [a]}", got)
		}
	})

	t.Run("fenced JSON with language tag", func(t *testing.T) {
		input := "```json\n{\"title\":\"fenced\"}\n```"
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Title != "fenced" {
			t.Errorf("Title = %q, want fenced", got.Title)
		}
	})

	t.Run("fenced JSON with surrounding prose", func(t *testing.T) {
		input := "Here you go:\n```json\n{\"title\":\"wrapped\"}\n```\nLet me know."
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Title != "wrapped" {
			t.Errorf("Title = %q, want wrapped", got.Title)
		}
	})

	t.Run("unparseable content", func(t *testing.T) {
		_, err := formatting.Parse[sample]("this is not JSON at all")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("long content truncated in error", func(t *testing.T) {
		_, err := formatting.Parse[sample](strings.Repeat("x", 2000))
		if err == nil {
			t.Fatal("expected error")
		}
		if len(err.Error()) > 400 {
			t.Errorf("error length = %d, want truncated content", len(err.Error()))
		}
	})
}
