package pagination_test

import (
	"net/url"
	"testing"

	"github.com/inkwell-ai/inkwell/pkg/pagination"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestPageRequestNormalize(t *testing.T) {
	cfg := defaultConfig()

	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{
			"zero values get defaults",
			pagination.PageRequest{},
			1,
			20,
		},
		{
			"negative page corrected",
			pagination.PageRequest{Page: -1, PageSize: 10},
			1,
			10,
		},
		{
			"page size clamped to max",
			pagination.PageRequest{Page: 1, PageSize: 500},
			1,
			100,
		},
		{
			"valid values preserved",
			pagination.PageRequest{Page: 3, PageSize: 50},
			3,
			50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(cfg)
			if tt.req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.req.Page, tt.wantPage)
			}
			if tt.req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", tt.req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 3, PageSize: 25}
	if got := req.Offset(); got != 50 {
		t.Errorf("Offset = %d, want 50", got)
	}
}

func TestFromQuery(t *testing.T) {
	values := url.Values{
		"page":      {"2"},
		"page_size": {"10"},
		"search":    {"climate"},
	}

	req := pagination.FromQuery(values, defaultConfig())
	if req.Page != 2 || req.PageSize != 10 {
		t.Errorf("request = %+v, want page 2 size 10", req)
	}
	if req.Search == nil || *req.Search != "climate" {
		t.Errorf("Search = %v, want climate", req.Search)
	}

	req = pagination.FromQuery(url.Values{}, defaultConfig())
	if req.Page != 1 || req.PageSize != 20 || req.Search != nil {
		t.Errorf("empty query request = %+v, want normalized defaults", req)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"even division", 100, 20, 5},
		{"remainder adds page", 101, 20, 6},
		{"empty result still one page", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{}, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
		})
	}
}

func TestNewPageResultNilData(t *testing.T) {
	result := pagination.NewPageResult[string](nil, 0, 1, 20)
	if result.Data == nil {
		t.Error("Data = nil, want empty slice")
	}
}
