// Package server exposes the pipeline over HTTP: an HTML search form, a
// JSON API and a workbook download.
package server

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"buscacnpj/pipeline"
	"buscacnpj/server/middleware"
)

// Runner is the slice of the pipeline the server uses.
type Runner interface {
	Run(ctx context.Context, tipo, cidade string) (*pipeline.Result, error)
}

// Server wires the Gin engine, the pipeline and the form template.
type Server struct {
	engine   *gin.Engine
	pipeline Runner
	logger   *slog.Logger
}

// New creates the HTTP server around a pipeline. logger may be nil.
func New(runner Runner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS())
	engine.Use(middleware.Logger(logger))
	engine.SetHTMLTemplate(template.Must(template.New("index").Parse(indexHTML)))

	s := &Server{
		engine:   engine,
		pipeline: runner,
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.POST("/buscar", s.handleSearchDownload)
	s.engine.POST("/api/search", s.handleSearchJSON)
	s.engine.GET("/health", s.handleHealth)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	s.logger.Info("servidor iniciado", "addr", addr)
	return s.engine.Run(addr)
}
