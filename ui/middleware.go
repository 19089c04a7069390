package ui

import (
	"io/fs"
	"net/http"

	"facilitydash/internal"
	"facilitydash/ui/middleware"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())

	staticFS, err := fs.Sub(s.embeddedFiles, "static")
	if err != nil {
		internal.DefaultLogger.Error("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	internal.DefaultLogger.Debug("[Static] Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
}
