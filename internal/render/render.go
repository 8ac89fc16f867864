// Package render implements the PDF rendering service for Inkwell.
// It lays the assembled draft out as a pdfcpu page description, produces
// the PDF, and uploads the artifact to blob storage.
package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/inkwell-ai/inkwell/pkg/storage"
	"github.com/inkwell-ai/inkwell/workflow"
)

// Options carries render adjustments. Zero values fall back to defaults.
type Options struct {
	Paper    string `json:"paper" toml:"paper"`
	Font     string `json:"font" toml:"font"`
	FontSize int    `json:"font_size" toml:"font_size"`
}

func (o *Options) normalize() {
	if o.Paper == "" {
		o.Paper = "A4"
	}
	if o.Font == "" {
		o.Font = "Helvetica"
	}
	if o.FontSize <= 0 {
		o.FontSize = 11
	}
}

// System defines the render service contract: produce the PDF artifact for
// a draft and return the blob key it was stored under.
type System interface {
	Render(ctx context.Context, bookID uuid.UUID, d *workflow.Draft, opts Options) (string, error)
}

type renderer struct {
	storage storage.System
	logger  *slog.Logger
}

// New creates a render system backed by the given blob storage.
func New(store storage.System, logger *slog.Logger) System {
	return &renderer{
		storage: store,
		logger:  logger.With("system", "render"),
	}
}

func (r *renderer) Render(ctx context.Context, bookID uuid.UUID, d *workflow.Draft, opts Options) (string, error) {
	if d.Assembled == nil || *d.Assembled == "" {
		return "", fmt.Errorf("%w: nothing to render", workflow.ErrRender)
	}
	opts.normalize()

	desc, err := buildPageDescription(d, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", workflow.ErrRender, err)
	}

	var pdf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(desc), &pdf, nil); err != nil {
		return "", fmt.Errorf("%w: create pdf: %w", workflow.ErrRender, err)
	}

	pageCount, err := api.PageCount(bytes.NewReader(pdf.Bytes()), nil)
	if err != nil {
		return "", fmt.Errorf("%w: verify pdf: %w", workflow.ErrRender, err)
	}

	key := artifactKey(bookID)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(pdf.Bytes()), "application/pdf"); err != nil {
		return "", fmt.Errorf("%w: upload artifact: %w", workflow.ErrRender, err)
	}

	r.logger.InfoContext(
		ctx, "artifact rendered",
		"book", bookID,
		"key", key,
		"pages", pageCount,
		"bytes", pdf.Len(),
	)

	return key, nil
}

func artifactKey(id uuid.UUID) string {
	return fmt.Sprintf("books/%s/book.pdf", id)
}
