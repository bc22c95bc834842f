package api

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wikirag/internal/compare"
	"wikirag/internal/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Runner produces a comparison for a query. *compare.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, query string) *compare.Comparison
}

func loadTemplates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// SetupRouter wires the comparison page, the JSON API and the service routes
// under cfg.Server.Subpath.
func SetupRouter(cfg *config.Config, runner Runner) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(loadTemplates())

	subpath := strings.TrimRight(cfg.Server.Subpath, "/") // "" or e.g. "/wikirag"

	page := pageHandler(cfg, runner)
	if subpath != "" {
		r.GET(subpath, page)
		r.POST(subpath, page)
	}

	group := r.Group(subpath)
	{
		group.GET("/", page)
		group.POST("/", page)

		group.POST("/api/compare", compareHandler(runner))

		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}
