// Package workflow binds the pipeline's step executors and drivers to their
// runtime dependencies: the book progress store, the generation service, and
// the render service. The pure step catalog and state types live in the
// root workflow package.
package workflow

import (
	"log/slog"
	"time"

	"github.com/inkwell-ai/inkwell/internal/books"
	"github.com/inkwell-ai/inkwell/internal/generation"
	"github.com/inkwell-ai/inkwell/internal/render"
)

// Runtime bundles the dependencies that step executors and drivers require.
// It is constructed by higher-level composition code from Infrastructure and
// Domain systems.
type Runtime struct {
	Books     books.System
	Generator generation.System
	Renderer  render.System
	Logger    *slog.Logger

	// Pacing is the pause between auto-run steps, letting progress observers
	// and persistence settle. Zero disables it; tests run with zero.
	Pacing time.Duration

	// MaxChapters caps the table of contents a model may produce.
	// Zero disables the cap.
	MaxChapters int

	// Render holds the default artifact render options.
	Render render.Options
}
