package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"facilitydash/internal"
	"facilitydash/internal/charts"
	"facilitydash/internal/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// Panel headings are markdown
		"markdown": func(md string) template.HTML {
			return template.HTML(markdown.ToHTML([]byte(md), nil, nil))
		},
		"figure": func(f *charts.Figure) template.JS {
			if f == nil {
				return template.JS("{}")
			}
			b, err := f.JSON()
			if err != nil {
				internal.DefaultLogger.Error("[TemplateFunc] Figure encoding failed: %v", err)
				return template.JS("{}")
			}
			return template.JS(b)
		},
		"dataURI": func(s string) template.URL {
			if !strings.HasPrefix(s, "data:file/csv;base64,") {
				return template.URL("#")
			}
			return template.URL(s)
		},
		"num": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		"isTable":  func(k dashboard.PanelKind) bool { return k == dashboard.PanelTable },
		"isImage":  func(k dashboard.PanelKind) bool { return k == dashboard.PanelImage },
		"isFigure": func(k dashboard.PanelKind) bool { return k == dashboard.PanelFigure },
		"isExport": func(k dashboard.PanelKind) bool { return k == dashboard.PanelExport },
	}
}

// renderTemplate renders to a buffer first so template errors never produce half a page
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		internal.DefaultLogger.Error("[Template] Error rendering %s: %v", templateName, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
