package books

import (
	"context"

	"github.com/google/uuid"

	"github.com/inkwell-ai/inkwell/pkg/pagination"
	"github.com/inkwell-ai/inkwell/workflow"
)

// System defines the public contract for book domain operations, including
// the progress store boundary consumed by the workflow drivers.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Book], error)

	Find(ctx context.Context, id uuid.UUID) (*Book, error)
	Create(ctx context.Context, cmd CreateCommand) (*Book, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// LoadState reconstructs the workflow state and accumulated draft for a
	// book. Chapters from the durable chapter table take precedence over the
	// whole-draft fallback copy.
	LoadState(ctx context.Context, id uuid.UUID) (*workflow.State, *workflow.Draft, error)

	// SaveState persists the workflow state and the whole draft, including
	// the fallback copy of chapters. Failures map to workflow.ErrPersistence.
	SaveState(ctx context.Context, id uuid.UUID, st *workflow.State, d *workflow.Draft) error

	// SaveChapter upserts a single chapter row by (book, index), assigning an
	// ID on first persistence. Returns the stored chapter.
	SaveChapter(ctx context.Context, id uuid.UUID, ch *workflow.Chapter) (*workflow.Chapter, error)

	// DeleteChapters removes all chapter rows for a book, used when the
	// table of contents is regenerated.
	DeleteChapters(ctx context.Context, id uuid.UUID) error
}
