package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-optimizer/internal/shared/server/respond"
)

type Handler struct {
	Catalog *Catalog
}

func NewHandler(c *Catalog) *Handler {
	if c == nil {
		c = Default()
	}
	return &Handler{Catalog: c}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/industries", h.industries)
	rg.GET("/templates/:industry", h.template)
}

func (h *Handler) industries(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, industry := range h.Catalog.Industries() {
		out = append(out, gin.H{
			"id":       industry,
			"keywords": h.Catalog.Keywords(industry),
		})
	}
	respond.OK(c, gin.H{"industries": out})
}

func (h *Handler) template(c *gin.Context) {
	tpl, ok := h.Catalog.Template(c.Param("industry"))
	if !ok {
		c.Header("X-Template-Fallback", "generic")
	}
	respond.JSON(c, http.StatusOK, tpl)
}
