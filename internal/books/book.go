// Package books implements the book domain for Inkwell.
// It provides types, data access, and the progress store boundary that
// persists workflow state, the accumulated draft, and individual chapters
// for the generation pipeline.
package books

import (
	"time"

	"github.com/google/uuid"
)

// Book represents a registered book record that owns one workflow instance.
// Title is populated once the pipeline's title step has produced it.
type Book struct {
	ID        uuid.UUID `json:"id"`
	Topic     string    `json:"topic"`
	Title     *string   `json:"title"`
	Status    string    `json:"status"`
	SeedKey   *string   `json:"seed_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Book status values derived from workflow progress.
const (
	StatusDraft      = "draft"
	StatusGenerating = "generating"
	StatusComplete   = "complete"
)

// CreateCommand carries the data needed to register a new book.
// RawData is the seed input the pipeline generates from; when present it is
// archived to blob storage and the input handling step is recorded complete.
type CreateCommand struct {
	Topic   string `json:"topic"`
	RawData string `json:"raw_data"`
}
