// Package http provides the HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-systems/exeat-workflow/internal/application/service"
	"github.com/campus-systems/exeat-workflow/internal/report"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config        ServerConfig
	httpServer    *http.Server
	router        *gin.Engine
	exeatService  service.ExeatService
	debtService   service.DebtService
	hostelService service.HostelService
	exporter      *report.RegisterExporter
	logger        Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	exeatService service.ExeatService,
	debtService service.DebtService,
	hostelService service.HostelService,
	exporter *report.RegisterExporter,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:        config,
		router:        router,
		exeatService:  exeatService,
		debtService:   debtService,
		hostelService: hostelService,
		exporter:      exporter,
		logger:        logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.exeatService, s.debtService, s.hostelService, s.exporter, s.logger)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	// API routes
	api := s.router.Group("/api")
	{
		// Exeat requests
		api.POST("/exeats", handlers.SubmitExeat)
		api.GET("/exeats", handlers.ListExeats)
		api.GET("/exeats/:id", handlers.GetExeat)
		api.GET("/exeats/ref/:reference", handlers.GetExeatByReference)
		api.GET("/exeats/:id/timeline", handlers.GetTimeline)

		// Decisions
		api.POST("/exeats/:id/approve", handlers.ApproveExeat)
		api.POST("/exeats/:id/reject", handlers.RejectExeat)
		api.POST("/exeats/:id/parent-consent", handlers.RecordParentConsent)
		api.POST("/exeats/:id/depart", handlers.MarkDeparted)
		api.POST("/exeats/:id/sign-in", handlers.SignIn)

		// Debts
		api.POST("/debts", handlers.CreateDebt)
		api.GET("/students/:studentId/debts", handlers.ListStudentDebts)
		api.POST("/debts/:id/clear", handlers.ClearDebt)

		// Hostel assignments
		api.PUT("/students/:studentId/hostel", handlers.AssignHostel)
		api.GET("/students/:studentId/hostel", handlers.GetHostelAssignment)
		api.DELETE("/students/:studentId/hostel", handlers.UnassignHostel)

		// Admin
		api.GET("/admin/stats", handlers.Stats)
		api.GET("/admin/register", handlers.ExportRegister)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
