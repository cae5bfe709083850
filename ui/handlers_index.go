package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleIndex renders the section named by ?page=, home by default
func (s *Server) handleIndex(c *gin.Context) {
	page, err := s.dash.Page(c.Request.Context(), c.Query("page"))
	if err != nil {
		s.log.Error("[Index] page %q: %v", c.Query("page"), err)
		c.String(http.StatusInternalServerError, "Falha ao montar a página.")
		return
	}
	c.Header("X-Render-ID", page.ID)
	s.renderTemplate(c, "index.html", page)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
