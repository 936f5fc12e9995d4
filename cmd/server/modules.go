package main

import (
	"encoding/json"
	"net/http"

	"github.com/adityaanikam/AI-agent-project/internal/api"
	"github.com/adityaanikam/AI-agent-project/internal/config"
	"github.com/adityaanikam/AI-agent-project/internal/infrastructure"
	"github.com/adityaanikam/AI-agent-project/pkg/middleware"
	"github.com/adityaanikam/AI-agent-project/pkg/module"
	"github.com/adityaanikam/AI-agent-project/web/app"
	"github.com/adityaanikam/AI-agent-project/web/scalar"
)

type Modules struct {
	API    *module.Module
	App    *module.Module
	Scalar *module.Module
	Domain *api.Domain
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	runtime := api.NewRuntime(cfg, infra)

	domain, err := api.NewDomain(cfg, runtime)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule("/app", apiModule.Prefix())
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(infra.Logger))

	scalarModule := scalar.NewModule("/scalar", apiModule.Prefix()+"/openapi.json")
	scalarModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:    apiModule,
		App:    appModule,
		Scalar: scalarModule,
		Domain: domain,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
	router.Mount(m.Scalar)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", http.RedirectHandler("/app/", http.StatusFound))

	router.HandleNative("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))

	router.HandleNative("GET /readyz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{
				"status": "not ready",
				"checks": infra.Lifecycle.Checks(),
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	}))

	if infra.Metrics.Enabled() {
		router.HandleNative("GET "+cfg.Metrics.Path, infra.Metrics.Handler())
	}

	return router
}
