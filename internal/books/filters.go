package books

import "net/url"

// Filters narrows book list queries.
type Filters struct {
	Status *string `json:"status,omitempty"`
}

// FiltersFromQuery parses filter criteria from URL query values.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	return f
}
