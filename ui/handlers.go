package ui

import (
	"fmt"
	"html/template"
	"net/http"

	"facilitydash/internal"
	"facilitydash/internal/charts"
	"facilitydash/internal/dashboard"
	"facilitydash/internal/errors"
	"facilitydash/ui/middleware"

	"github.com/gin-gonic/gin"
)

const (
	histogramWidth  = 800
	histogramHeight = 450
	pairplotCell    = 220
)

// pageData is what index.html renders
type pageData struct {
	View     dashboard.View
	Variants []dashboard.Variant
	// Query reproduces the applied filter for chart and download links
	Query     template.URL
	RequestID string
}

// handleIndex redirects to the default variant
func (s *Server) handleIndex(c *gin.Context) {
	target := "/v/" + s.defaultVariant
	if c.Request.URL.RawQuery != "" {
		target += "?" + c.Request.URL.RawQuery
	}
	c.Redirect(http.StatusFound, target)
}

// handleDashboard serves the HTML page
func (s *Server) handleDashboard(c *gin.Context) {
	view, ok := s.render(c)
	if !ok {
		return
	}
	s.renderTemplate(c, http.StatusOK, "index.html", pageData{
		View:      view,
		Variants:  dashboard.Variants(),
		Query:     appliedQuery(view),
		RequestID: c.GetString(middleware.RequestIDKey),
	})
}

// handleViewJSON serves the rendered view for scripted clients
func (s *Server) handleViewJSON(c *gin.Context) {
	view, ok := s.render(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

// handleHistogramPNG renders the Score histogram for the current filter
func (s *Server) handleHistogramPNG(c *gin.Context) {
	view, ok := s.renderPanels(c)
	if !ok {
		return
	}
	p, found := view.Panel(dashboard.PanelHistogram)
	if !found || p.Histogram == nil {
		s.respondError(c, errors.RenderError(dashboard.NoScoresMessage))
		return
	}
	img, err := charts.HistogramPNG(p.Histogram, histogramWidth, histogramHeight)
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to render histogram"))
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

// handlePairplotPNG renders the numeric pairplot for the current filter
func (s *Server) handlePairplotPNG(c *gin.Context) {
	view, ok := s.renderPanels(c)
	if !ok {
		return
	}
	p, found := view.Panel(dashboard.PanelPairplot)
	if !found {
		s.respondError(c, errors.NotFound("pairplot for variant "+view.Variant))
		return
	}
	if p.Error != "" {
		s.respondError(c, errors.RenderError(p.Error))
		return
	}
	img, err := charts.PairplotPNG(dashboard.PairGrid(view.Filtered), pairplotCell)
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to render pairplot"))
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

// handleDownloadCSV streams filtered_data.csv
func (s *Server) handleDownloadCSV(c *gin.Context) {
	view, ok := s.renderExport(c)
	if !ok {
		return
	}
	variant, _ := dashboard.Lookup(view.Variant)
	payload, err := dashboard.ExportCSV(view.Filtered, variant.Encoding)
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to build csv"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dashboard.ExportFileName))
	c.Data(http.StatusOK, "text/csv; charset="+variant.Charset(), payload)
}

// handleDownloadXLSX streams the same rows as a workbook
func (s *Server) handleDownloadXLSX(c *gin.Context) {
	view, ok := s.renderExport(c)
	if !ok {
		return
	}
	payload, err := dashboard.ExportXLSX(view.Filtered)
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to build workbook"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="filtered_data.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}

// render runs one dashboard cycle for the request
func (s *Server) render(c *gin.Context) (dashboard.View, bool) {
	name := c.Param("variant")
	variant, found := dashboard.Lookup(name)
	if !found {
		s.respondError(c, errors.NotFound("variant "+name))
		return dashboard.View{}, false
	}
	state, err := dashboard.ParseFilterState(c.Request.URL.Query())
	if err != nil {
		s.respondError(c, err)
		return dashboard.View{}, false
	}

	ds, loadErr := s.loader.Load(c.Request.Context(), variant)
	if loadErr != nil {
		internal.DefaultLogger.Warn("[Dashboard] %s: dataset unavailable: %v", variant.Name, loadErr)
	}
	return dashboard.Render(dashboard.Input{
		Variant:    variant,
		Dataset:    ds,
		LoadErr:    loadErr,
		Filter:     state,
		Export:     c.Query("export") == "1",
		TableLimit: s.tableRowLimit,
	}), true
}

// renderPanels is render for endpoints that need the filtered panels
func (s *Server) renderPanels(c *gin.Context) (dashboard.View, bool) {
	view, ok := s.render(c)
	if !ok {
		return view, false
	}
	if view.Failed() || view.Filtered == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors":     view.Errors,
			"request_id": c.GetString(middleware.RequestIDKey),
		})
		return view, false
	}
	return view, true
}

func (s *Server) renderExport(c *gin.Context) (dashboard.View, bool) {
	view, ok := s.renderPanels(c)
	if !ok {
		return view, false
	}
	if _, found := view.Panel(dashboard.PanelExportID); !found {
		s.respondError(c, errors.NotFound("export for variant "+view.Variant))
		return view, false
	}
	return view, true
}

// respondError maps an AppError code to an HTTP status
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	switch code {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeSchemaError, errors.CodeRenderError:
		status = http.StatusUnprocessableEntity
	case errors.CodeLoadError:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		internal.DefaultLogger.Error("[Handler] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":      err.Error(),
		"code":       code,
		"request_id": c.GetString(middleware.RequestIDKey),
	})
}

// appliedQuery encodes the filter the view actually used
func appliedQuery(v dashboard.View) template.URL {
	if v.Filter == nil {
		return ""
	}
	state := dashboard.FilterState{State: v.Filter.State}.WithBounds(v.Filter.Min, v.Filter.Max)
	return template.URL(state.Query().Encode())
}
