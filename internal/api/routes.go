package api

import (
	"net/http"

	"github.com/adityaanikam/AI-agent-project/internal/pipeline"
	"github.com/adityaanikam/AI-agent-project/pkg/routes"
)

func routeGroups(domain *Domain, runtime *Runtime) []routes.Group {
	var archive pipeline.Archive
	if runtime.Storage != nil {
		archive = runtime.Storage
	}

	return []routes.Group{
		domain.Records.Handler().Routes(),
		pipeline.NewHandler(domain.Scheduler, archive, runtime.Logger, runtime.MaxUploadSize).Routes(),
		newArchiveHandler(domain.Records, runtime.Storage, runtime.Logger).routes(),
	}
}

func registerRoutes(mux *http.ServeMux, groups []routes.Group) {
	routes.Register(mux, groups...)
}
