package workflow

import "github.com/google/uuid"

// Section is one table-of-contents entry: a chapter title plus the data
// points the chapter should cover.
type Section struct {
	Title      string   `json:"title"`
	DataPoints []string `json:"dataPoints"`
}

// Chapter is one generated chapter. ID is assigned on first persistence and
// nil for unsaved local chapters. Content nil denotes "not yet generated".
// Index is unique and dense (0..N-1) within one workflow instance.
type Chapter struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	Title      string     `json:"title"`
	Content    *string    `json:"content"`
	Index      int        `json:"index"`
	DataPoints []string   `json:"dataPoints"`
}

// Generated reports whether the chapter's content has been produced.
func (c *Chapter) Generated() bool {
	return c.Content != nil && *c.Content != ""
}

// Draft is the growing accumulated content for one workflow instance:
// the source of truth for what has been produced so far. It is owned
// exclusively by the instance and mutated only by step executors.
type Draft struct {
	Title           *string   `json:"title,omitempty"`
	TableOfContents []Section `json:"tableOfContents,omitempty"`
	Introduction    *string   `json:"introduction,omitempty"`
	Conclusion      *string   `json:"conclusion,omitempty"`
	Chapters        []Chapter `json:"chapters,omitempty"`
	RawData         *string   `json:"rawData,omitempty"`
	Assembled       *string   `json:"assembledDraft,omitempty"`
	Review          *string   `json:"review,omitempty"`
	ArtifactKey     *string   `json:"artifactKey,omitempty"`
}

// HasRawData reports whether seed input is present.
func (d *Draft) HasRawData() bool {
	return d.RawData != nil && *d.RawData != ""
}

// HasTitle reports whether a title has been produced.
func (d *Draft) HasTitle() bool {
	return d.Title != nil && *d.Title != ""
}

// ChaptersComplete reports whether every chapter has generated content.
// False when no chapters exist.
func (d *Draft) ChaptersComplete() bool {
	if len(d.Chapters) == 0 {
		return false
	}
	for i := range d.Chapters {
		if !d.Chapters[i].Generated() {
			return false
		}
	}
	return true
}

// Chapter returns the chapter at the given index, or nil when absent.
func (d *Draft) Chapter(index int) *Chapter {
	for i := range d.Chapters {
		if d.Chapters[i].Index == index {
			return &d.Chapters[i]
		}
	}
	return nil
}
