package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gosurvey/internal"
	"gosurvey/internal/dashboard"
)

//go:embed templates/*.html templates/fragments/*.html static/css/*
var embeddedFiles embed.FS

// Server is the dashboard's web server
type Server struct {
	router     *gin.Engine
	dash       *dashboard.Dashboard
	templates  *template.Template
	files      fs.FS
	gatherer   prometheus.Gatherer
	log        *internal.Logger
	httpServer *http.Server
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithGatherer exposes gatherer on /metrics
func WithGatherer(g prometheus.Gatherer) ServerOption { return func(s *Server) { s.gatherer = g } }

// WithServerLogger sets the logger
func WithServerLogger(log *internal.Logger) ServerOption { return func(s *Server) { s.log = log } }

// NewServer creates a new web server instance
func NewServer(dash *dashboard.Dashboard, opts ...ServerOption) *Server {
	s := &Server{
		router: gin.New(),
		dash:   dash,
		files:  embeddedFiles,
		log:    internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize parses templates and sets up middleware and routes
func (s *Server) Initialize() error {
	funcMap := template.FuncMap{
		"add":   func(a, b int) int { return a + b },
		"upper": strings.ToUpper,
	}

	s.templates = template.New("").Funcs(funcMap)
	templatesFS, err := fs.Sub(s.files, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	files1, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to glob root templates: %w", err)
	}
	files2, err := fs.Glob(templatesFS, "fragments/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob fragment templates: %w", err)
	}
	files := append(files1, files2...)
	s.log.Debug("[TemplateInit] Found %d template files: %v", len(files), files)

	for _, file := range files {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := s.templates.New(file).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler { return s.router }

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	// Single page, section chosen with ?page=home|charts|about
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	if s.gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	// JSON API, served by its own chi router
	api := http.StripPrefix("/api", NewAPIRouter(s.dash, s.log))
	s.router.Any("/api/*path", gin.WrapH(api))
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("Starting survey dashboard on http://%s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
