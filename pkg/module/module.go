package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/inkwell-ai/inkwell/pkg/middleware"
)

// Module is an HTTP handler that strips its prefix and delegates to an
// inner router with its own middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is empty, missing a leading slash, or multi-level;
// modules are mounted at startup, so a bad prefix is a programming error.
func New(prefix string, router http.Handler) *Module {
	switch {
	case prefix == "":
		panic(fmt.Errorf("module prefix cannot be empty"))
	case !strings.HasPrefix(prefix, "/"):
		panic(fmt.Errorf("module prefix must start with /: %s", prefix))
	case strings.Count(prefix, "/") != 1:
		panic(fmt.Errorf("module prefix must be single-level sub-path: %s", prefix))
	}

	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Handler returns the inner router wrapped with the module's middleware stack.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the module prefix from the request path and dispatches to
// the inner router. The request is cloned so the rewrite never leaks to
// other handlers sharing it.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	r := req.Clone(req.Context())
	r.URL.Path = innerPath(req.URL.Path, m.prefix)
	r.URL.RawPath = ""
	m.Handler().ServeHTTP(w, r)
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw middleware.Func) {
	m.middleware.Use(mw)
}

// innerPath strips the module prefix, leaving the path the inner router
// registered its patterns against.
func innerPath(fullPath, prefix string) string {
	path := strings.TrimPrefix(fullPath, prefix)
	if path == "" {
		return "/"
	}
	return path
}
