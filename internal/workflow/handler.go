package workflow

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/inkwell-ai/inkwell/internal/books"
	"github.com/inkwell-ai/inkwell/pkg/handlers"
	"github.com/inkwell-ai/inkwell/pkg/routes"
	"github.com/inkwell-ai/inkwell/pkg/storage"
	wf "github.com/inkwell-ai/inkwell/workflow"
)

const heartbeatInterval = 15 * time.Second

// Handler provides HTTP endpoints for driving and observing book workflows.
type Handler struct {
	runtime *Runtime
	manager *Manager
	storage storage.System
	logger  *slog.Logger
}

// NewHandler creates a Handler bound to the workflow runtime and run manager.
func NewHandler(runtime *Runtime, manager *Manager, store storage.System, logger *slog.Logger) *Handler {
	return &Handler{
		runtime: runtime,
		manager: manager,
		storage: store,
		logger:  logger.With("handler", "workflow"),
	}
}

// Routes returns the route group definition for workflow endpoints. The
// group shares the /books prefix with the books handler; patterns are
// disjoint so both register on the same mux.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/books",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/workflow", Handler: h.GetState},
			{Method: "POST", Pattern: "/{id}/workflow/step", Handler: h.RunStep},
			{Method: "POST", Pattern: "/{id}/workflow/run", Handler: h.Run},
			{Method: "POST", Pattern: "/{id}/workflow/cancel", Handler: h.Cancel},
			{Method: "GET", Pattern: "/{id}/artifact", Handler: h.Artifact},
		},
	}
}

type stateResponse struct {
	State *wf.State `json:"state"`
	Draft *wf.Draft `json:"draft"`
}

// GetState returns the persisted workflow state and draft for a book.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, books.ErrInvalidInput)
		return
	}

	st, d, err := h.runtime.Books.LoadState(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stateResponse{State: st, Draft: d})
}

// RunStep executes exactly one workflow step and returns the resulting state.
func (h *Handler) RunStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, books.ErrInvalidInput)
		return
	}

	result, err := h.runtime.RunNext(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Run starts an auto-run for the book and streams its progress events as
// server-sent events until the run reaches a terminal status or the client
// disconnects. Disconnecting does not cancel the run.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, books.ErrInvalidInput)
		return
	}

	if _, err := h.runtime.Books.Find(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	run, err := h.manager.Start(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError,
			fmt.Errorf("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.stream(w, r, flusher, run)
}

// stream fans the run's events and a heartbeat onto the SSE connection.
// Writes are serialized through a single channel so the two goroutines
// never interleave on the ResponseWriter.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request, flusher http.Flusher, run *Run) {
	frames := make(chan string, 1)
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-run.Events():
				if !ok {
					return nil
				}
				data, err := json.Marshal(ev)
				if err != nil {
					return err
				}
				select {
				case frames <- fmt.Sprintf("data: %s\n\n", data):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	g.Go(func() error {
		t := time.NewTicker(heartbeatInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				select {
				case frames <- ": heartbeat\n\n":
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()

	for {
		select {
		case frame := <-frames:
			if _, err := io.WriteString(w, frame); err != nil {
				h.logger.Warn("event stream write failed", "book", run.BookID, "error", err)
				return
			}
			flusher.Flush()
		case <-done:
			// drain any frame queued before the forwarder exited
			select {
			case frame := <-frames:
				io.WriteString(w, frame)
				flusher.Flush()
			default:
			}
			status, err := run.Snapshot()
			h.logger.Info("event stream closed", "book", run.BookID, "status", status, "error", err)
			return
		}
	}
}

// Cancel requests cooperative cancellation of the book's active auto-run.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, books.ErrInvalidInput)
		return
	}

	if err := h.manager.Cancel(id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// Artifact streams the rendered PDF for a book.
func (h *Handler) Artifact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, books.ErrInvalidInput)
		return
	}

	_, draft, err := h.runtime.Books.LoadState(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if draft.ArtifactKey == nil || *draft.ArtifactKey == "" {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNoArtifact)
		return
	}

	reader, err := h.storage.Download(r.Context(), *draft.ArtifactKey)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id.String()+".pdf"))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("artifact stream interrupted", "book", id, "error", err)
	}
}
