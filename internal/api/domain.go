package api

import (
	"github.com/inkwell-ai/inkwell/internal/books"
	"github.com/inkwell-ai/inkwell/internal/generation"
	"github.com/inkwell-ai/inkwell/internal/render"
	"github.com/inkwell-ai/inkwell/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Books      books.System
	Generation generation.System
	Render     render.System
	Workflow   *workflow.Runtime
	Runs       *workflow.Manager
}

// NewDomain creates all domain systems from the API runtime. Auto-runs are
// bound to the lifecycle context so they survive the requests that start
// them but stop on service shutdown.
func NewDomain(runtime *Runtime) *Domain {
	booksSystem := books.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	generationSystem := generation.New(runtime.Agent, runtime.Logger)
	renderSystem := render.New(runtime.Storage, runtime.Logger)

	workflowRuntime := &workflow.Runtime{
		Books:       booksSystem,
		Generator:   generationSystem,
		Renderer:    renderSystem,
		Logger:      runtime.Logger.With("system", "workflow"),
		Pacing:      runtime.Workflow.PacingDuration(),
		Render:      runtime.Workflow.Render,
		MaxChapters: runtime.Workflow.MaxChapters,
	}

	runs := workflow.NewManager(
		workflowRuntime,
		runtime.Lifecycle.Context(),
		runtime.Logger,
	)

	return &Domain{
		Books:      booksSystem,
		Generation: generationSystem,
		Render:     renderSystem,
		Workflow:   workflowRuntime,
		Runs:       runs,
	}
}
