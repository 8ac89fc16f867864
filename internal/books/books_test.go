package books

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/inkwell-ai/inkwell/pkg/pagination"
	"github.com/inkwell-ai/inkwell/workflow"
)

func TestFiltersFromQuery(t *testing.T) {
	f := FiltersFromQuery(url.Values{"status": {"generating"}})
	if f.Status == nil || *f.Status != "generating" {
		t.Errorf("Status = %v, want generating", f.Status)
	}

	f = FiltersFromQuery(url.Values{})
	if f.Status != nil {
		t.Errorf("Status = %v, want nil", f.Status)
	}
}

func TestListCriteria(t *testing.T) {
	status := "draft"
	search := "climate"

	tests := []struct {
		name     string
		page     pagination.PageRequest
		filters  Filters
		want     string
		wantArgs int
	}{
		{
			"no criteria",
			pagination.PageRequest{},
			Filters{},
			"",
			0,
		},
		{
			"status only",
			pagination.PageRequest{},
			Filters{Status: &status},
			" WHERE status = $1",
			1,
		},
		{
			"search only",
			pagination.PageRequest{Search: &search},
			Filters{},
			" WHERE (topic ILIKE $1 OR title ILIKE $1)",
			1,
		},
		{
			"status and search",
			pagination.PageRequest{Search: &search},
			Filters{Status: &status},
			" WHERE status = $1 AND (topic ILIKE $2 OR title ILIKE $2)",
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := listCriteria(tt.page, tt.filters)
			if where != tt.want {
				t.Errorf("where = %q, want %q", where, tt.want)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		completed []workflow.Step
		want      string
	}{
		{
			"fresh instance",
			nil,
			StatusDraft,
		},
		{
			"input handling alone is still draft",
			[]workflow.Step{workflow.StepInputHandling},
			StatusDraft,
		},
		{
			"any generation step means generating",
			[]workflow.Step{workflow.StepInputHandling, workflow.StepTitle},
			StatusGenerating,
		},
		{
			"all steps complete",
			workflow.Steps(),
			StatusComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := workflow.NewState()
			for _, step := range tt.completed {
				st.RecordCompletion(step)
			}
			if got := deriveStatus(st); got != tt.want {
				t.Errorf("deriveStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrDuplicate, http.StatusConflict},
		{ErrInvalidInput, http.StatusBadRequest},
		{workflow.ErrGeneration, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
