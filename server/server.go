// Package server provides HTTP server management and lifecycle handling for
// the harmonizer API. It includes server setup, middleware configuration,
// route management, and graceful shutdown capabilities with proper error
// handling and logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ryoungl/health-information-harmonizer/config"
	"github.com/ryoungl/health-information-harmonizer/data"
	"github.com/ryoungl/health-information-harmonizer/handlers"
	"github.com/ryoungl/health-information-harmonizer/health"
	"github.com/ryoungl/health-information-harmonizer/interfaces"
	"github.com/ryoungl/health-information-harmonizer/logging"
	"github.com/ryoungl/health-information-harmonizer/metrics"
	"github.com/ryoungl/health-information-harmonizer/validation"
)

// Server represents the HTTP server
type Server struct {
	server        *http.Server
	router        chi.Router
	dataContainer *data.DataContainer
	config        *config.Config
	model         interfaces.LanguageModel
	checker       interfaces.HealthChecker
	validator     interfaces.DataValidator
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, dataContainer *data.DataContainer, model interfaces.LanguageModel) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second, // /ask waits on the model backend
			IdleTimeout:  60 * time.Second,
		},
		router:        router,
		dataContainer: dataContainer,
		config:        cfg,
		model:         model,
		checker:       health.NewHealthChecker(dataContainer),
		validator:     validation.NewDataValidator(),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// Router exposes the configured handler, mainly for httptest
func (s *Server) Router() http.Handler {
	return s.router
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// API routes
	s.router.Get("/", handlers.Index(s.dataContainer))
	s.router.Post("/ask", handlers.AskQuestion(s.dataContainer, s.validator, s.model))
	s.router.Post("/match", handlers.MatchText(s.dataContainer, s.validator))
	s.router.Get("/drugs", handlers.ServeAllDrugs(s.dataContainer))
	s.router.Get("/drugs/page/{pageNumber}", handlers.ServePagedDrugs(s.dataContainer))
	s.router.Get("/drugs/name/{name}", handlers.ResolveDrug(s.dataContainer, s.validator))
	s.router.Get("/health", handlers.HealthCheck(s.dataContainer, s.checker))
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)

	// Documentation routes
	s.setupDocumentationRoutes()
}

// setupDocumentationRoutes configures documentation and static file routes
func (s *Server) setupDocumentationRoutes() {
	// Serve the OpenAPI document
	s.router.Get("/docs/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600") // 1 hour
		http.ServeFile(w, r, "docs/openapi.yaml")
	})

	s.router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/openapi.yaml", http.StatusMovedPermanently)
	})
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	// Wait a bit for any ongoing requests to complete
	logging.Info("Waiting for ongoing requests to complete...")
	time.Sleep(2 * time.Second)

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		fmt.Println("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			fmt.Println("Profiling server failed: ", err)
		}
	}()
}
