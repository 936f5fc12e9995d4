package api

import (
	"github.com/adityaanikam/AI-agent-project/internal/config"
	"github.com/adityaanikam/AI-agent-project/internal/pipeline"
	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/pkg/openapi"
	"github.com/adityaanikam/AI-agent-project/pkg/routes"
)

// Spec builds the OpenAPI document for the API module's routes.
func Spec(cfg *config.Config, runtime *Runtime, domain *Domain) *openapi.Spec {
	return newSpec(cfg, routeGroups(domain, runtime))
}

func newSpec(cfg *config.Config, groups []routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	for _, url := range cfg.API.OpenAPI.Servers {
		spec.AddServer(url)
	}

	spec.Components.AddSchemas(records.Schemas())
	spec.Components.AddSchemas(pipeline.Schemas())

	routes.Describe(spec, "", groups...)
	return spec
}
