package ops

import (
	"encoding/json"
	"net/http"
	"time"

	"facilitydash/internal"
	"facilitydash/internal/dataset"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App serves health and profiling endpoints on a separate listener
type App struct {
	router  *chi.Mux
	cache   *dataset.Cache
	started time.Time
}

// NewApp creates the ops application
func NewApp(cache *dataset.Cache) *App {
	app := &App{
		router:  chi.NewRouter(),
		cache:   cache,
		started: time.Now(),
	}
	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Mount("/debug", middleware.Profiler())
}

// Handler exposes the router
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves the ops endpoints until the listener fails
func (a *App) Start(addr string) error {
	internal.DefaultLogger.Info("[Ops] Listening on http://%s (healthz, debug/pprof)", addr)
	return http.ListenAndServe(addr, a.router)
}

type healthResponse struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	CachedDatasets int    `json:"cached_datasets"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Uptime: time.Since(a.started).Round(time.Second).String(),
	}
	if a.cache != nil {
		resp.CachedDatasets = a.cache.Len()
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		internal.DefaultLogger.Error("[Ops] Failed to write health response: %v", err)
	}
}
