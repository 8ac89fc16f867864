package workflow

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/inkwell-ai/inkwell/pkg/lifecycle"
	"github.com/inkwell-ai/inkwell/pkg/routes"
	"github.com/inkwell-ai/inkwell/pkg/storage"
	wf "github.com/inkwell-ai/inkwell/workflow"
)

type fakeStorage struct {
	blobs map[string]string
}

func (s *fakeStorage) Start(*lifecycle.Coordinator) error { return nil }

func (s *fakeStorage) Upload(_ context.Context, key string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if s.blobs == nil {
		s.blobs = map[string]string{}
	}
	s.blobs[key] = string(data)
	return nil
}

func (s *fakeStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.blobs, key)
	return nil
}

func (s *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.blobs[key]
	return ok, nil
}

func newTestMux(rt *Runtime, store storage.System) *http.ServeMux {
	m := NewManager(rt, context.Background(), rt.Logger)
	h := NewHandler(rt, m, store, rt.Logger)

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func TestHandlerGetState(t *testing.T) {
	rt := newTestRuntime(seededBooks(), newFakeGenerator(2), &fakeRenderer{})
	mux := newTestMux(rt, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/books/"+uuid.NewString()+"/workflow", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if !body.State.IsCompleted(wf.StepInputHandling) {
		t.Errorf("state = %+v, want input handling completed", body.State)
	}
	if body.Draft == nil || !body.Draft.HasRawData() {
		t.Error("draft missing seed input")
	}
}

func TestHandlerRunStep(t *testing.T) {
	store := seededBooks()
	rt := newTestRuntime(store, newFakeGenerator(2), &fakeRenderer{})
	mux := newTestMux(rt, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/books/"+uuid.NewString()+"/workflow/step", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var result StepResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if result.Step != wf.StepTitle {
		t.Errorf("Step = %q, want %q", result.Step, wf.StepTitle)
	}
}

func TestHandlerRunStepPreconditionConflict(t *testing.T) {
	store := newFakeBooks(wf.NewState(), &wf.Draft{})
	rt := newTestRuntime(store, newFakeGenerator(2), &fakeRenderer{})
	mux := newTestMux(rt, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/books/"+uuid.NewString()+"/workflow/step", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestHandlerInvalidID(t *testing.T) {
	rt := newTestRuntime(seededBooks(), newFakeGenerator(2), &fakeRenderer{})
	mux := newTestMux(rt, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/books/not-a-uuid/workflow", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerCancelWithoutRun(t *testing.T) {
	rt := newTestRuntime(seededBooks(), newFakeGenerator(2), &fakeRenderer{})
	mux := newTestMux(rt, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/books/"+uuid.NewString()+"/workflow/cancel", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerArtifact(t *testing.T) {
	key := "books/test/book.pdf"
	blob := &fakeStorage{blobs: map[string]string{key: "%PDF-1.7 data"}}

	st := wf.NewState()
	for _, step := range wf.Steps() {
		st.RecordCompletion(step)
	}
	raw := "data"
	store := newFakeBooks(st, &wf.Draft{RawData: &raw, ArtifactKey: &key})

	rt := newTestRuntime(store, newFakeGenerator(2), &fakeRenderer{})
	mux := newTestMux(rt, blob)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/books/"+uuid.NewString()+"/artifact", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	if rec.Body.String() != "%PDF-1.7 data" {
		t.Errorf("body = %q, want stored artifact", rec.Body.String())
	}
}

func TestHandlerArtifactMissing(t *testing.T) {
	rt := newTestRuntime(seededBooks(), newFakeGenerator(2), &fakeRenderer{})
	mux := newTestMux(rt, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/books/"+uuid.NewString()+"/artifact", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
