package api

import (
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wikirag/internal/compare"
	"wikirag/internal/config"
)

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GET /config
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// the API key is tagged json:"-"
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"wikipedia":     cfg.Wikipedia,
			"llm":           cfg.LLM,
			"default_query": cfg.DefaultQuery,
		})
	}
}

type compareRequest struct {
	Query string `form:"query" json:"query"`
}

type panelView struct {
	Title  string
	HTML   template.HTML
	Error  string
	Notice string
}

func newPanelView(p compare.Panel) panelView {
	v := panelView{Title: p.Title, Notice: p.Notice}
	if p.Failed() {
		v.Error = p.ErrorMessage()
		return v
	}
	v.HTML = renderMarkdown(p.Text)
	return v
}

// GET|POST / renders the form and, once a query is submitted, the three panels.
func pageHandler(cfg *config.Config, runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req compareRequest
		if err := c.ShouldBind(&req); err != nil {
			c.String(http.StatusBadRequest, "invalid form: %v", err)
			return
		}

		value := req.Query
		_, present := c.GetQuery("query")
		if !present && c.Request.Method == http.MethodGet {
			value = cfg.DefaultQuery
		}

		var panels []panelView
		if strings.TrimSpace(req.Query) != "" {
			result := runner.Run(c.Request.Context(), req.Query)
			for _, p := range result.Panels() {
				panels = append(panels, newPanelView(p))
			}
		}

		c.HTML(http.StatusOK, "index.html", gin.H{
			"subpath": strings.TrimRight(cfg.Server.Subpath, "/"),
			"query":   value,
			"panels":  panels,
		})
	}
}

type panelJSON struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Error  string `json:"error,omitempty"`
	Notice string `json:"notice,omitempty"`
}

type compareResponse struct {
	ID        string     `json:"id"`
	Query     string     `json:"query"`
	Submitted bool       `json:"submitted"`
	Wikipedia *panelJSON `json:"wikipedia,omitempty"`
	LLM       *panelJSON `json:"llm,omitempty"`
	Augmented *panelJSON `json:"augmented,omitempty"`
}

func toPanelJSON(p compare.Panel) *panelJSON {
	return &panelJSON{
		Title:  p.Title,
		Text:   p.Text,
		Error:  p.ErrorMessage(),
		Notice: p.Notice,
	}
}

// POST /api/compare
func compareHandler(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req compareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		result := runner.Run(c.Request.Context(), req.Query)
		resp := compareResponse{
			ID:        result.ID.String(),
			Query:     result.Query,
			Submitted: result.Submitted,
		}
		if result.Submitted {
			resp.Wikipedia = toPanelJSON(result.Wikipedia)
			resp.LLM = toPanelJSON(result.Direct)
			resp.Augmented = toPanelJSON(result.Augmented)
			log.Printf("[API] compare %s answered", result.ID)
		}
		c.JSON(http.StatusOK, resp)
	}
}
