package api

import (
	"net/http"

	"github.com/inkwell-ai/inkwell/internal/workflow"
	"github.com/inkwell-ai/inkwell/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Books.Handler().Routes(),
	)

	workflowHandler := workflow.NewHandler(
		domain.Workflow,
		domain.Runs,
		runtime.Storage,
		runtime.Logger,
	)
	routes.Register(mux, workflowHandler.Routes())
}
