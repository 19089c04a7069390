package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"facilitydash/domain/facility"
	"facilitydash/internal"
	"facilitydash/internal/config"
	"facilitydash/internal/dashboard"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// DatasetLoader yields the dataset a variant reads
type DatasetLoader interface {
	Load(ctx context.Context, v dashboard.Variant) (*facility.Dataset, error)
}

// Server represents the dashboard web server
type Server struct {
	router        *gin.Engine
	loader        DatasetLoader
	templates     *template.Template
	embeddedFiles fs.FS

	defaultVariant string
	tableRowLimit  int
}

// NewServer creates a new web server instance
func NewServer(cfg *config.Config, loader DatasetLoader) *Server {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	return &Server{
		router:         gin.Default(),
		loader:         loader,
		embeddedFiles:  embeddedFiles,
		defaultVariant: cfg.Dashboard.DefaultVariant,
		tableRowLimit:  cfg.Dashboard.TableRowLimit,
	}
}

// Initialize parses templates and registers middleware and routes
func (s *Server) Initialize() error {
	templatesFS, err := fs.Sub(s.embeddedFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	s.templates, err = template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	internal.DefaultLogger.Debug("[TemplateInit] Parsed templates: %s", s.templates.DefinedTemplates())

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	v := s.router.Group("/v/:variant")
	v.GET("", s.handleDashboard)
	v.GET("/view.json", s.handleViewJSON)
	v.GET("/charts/histogram.png", s.handleHistogramPNG)
	v.GET("/charts/pairplot.png", s.handlePairplotPNG)
	v.GET("/download/filtered_data.csv", s.handleDownloadCSV)
	v.GET("/download/filtered_data.xlsx", s.handleDownloadXLSX)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	internal.DefaultLogger.Info("Starting dashboard on http://%s", addr)
	return s.router.Run(addr)
}
