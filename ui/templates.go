package ui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.log.Error("Template error for %s: %v", templateName, err)
		s.log.Debug("Template data type: %T", data)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.log.Warn("Error writing template response: %v", err)
	}
}

// RenderPage writes the complete HTML of one section to w. Initialize must have run.
func (s *Server) RenderPage(ctx context.Context, w io.Writer, section string) error {
	page, err := s.dash.Page(ctx, section)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		return fmt.Errorf("render %s: %w", page.Section, err)
	}
	_, err = buf.WriteTo(w)
	return err
}
