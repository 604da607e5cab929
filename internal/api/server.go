package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sahos-screening-server/internal/domain"
	"github.com/sahos-screening-server/internal/middleware"
	"github.com/sahos-screening-server/internal/report"
	"github.com/sahos-screening-server/internal/service"
)

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	intake        *service.IntakeService
	printer       *report.Printer
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, logger *logrus.Logger, intake *service.IntakeService, printer *report.Printer) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigin))
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))

	server := &Server{
		configManager: configManager,
		logger:        logger,
		intake:        intake,
		printer:       printer,
		router:        router,
	}

	server.setupRoutes()

	return server
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/steps", s.handleListSteps)
		v1.GET("/options", s.handleListOptions)

		v1.GET("/questionnaires", s.handleListQuestionnaires)
		v1.GET("/questionnaires/:type", s.handleGetQuestionnaire)
		v1.POST("/questionnaires/:type/submit", s.handleSubmitQuestionnaire)

		v1.GET("/session", s.handleGetSession)
		v1.PATCH("/session/fields", s.handleUpdateFields)
		v1.DELETE("/session", s.handleResetSession)

		v1.POST("/steps/next", s.handleNextStep)
		v1.POST("/steps/previous", s.handlePreviousStep)
		v1.POST("/steps/goto/:step", s.handleGoToStep)

		v1.POST("/conclusion", s.handleGenerateConclusion)
		v1.GET("/report", s.handlePrintReport)
	}
}

// respondError writes err as an IntakeError payload with the matching status.
func (s *Server) respondError(c *gin.Context, err error) {
	code := domain.ErrorCode(err)
	status := statusForCode(code)
	message := domain.UserMessage(err)
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
		message = "request timed out"
	}

	var details string
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		details = verr.Field
	}

	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey)).Error("Request failed")
	}
	c.JSON(status, domain.NewIntakeError(code, message, details, c.GetString(middleware.RequestIDKey)))
}

func statusForCode(code string) int {
	switch code {
	case domain.ErrCodeValidation, domain.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeStepLocked:
		return http.StatusConflict
	case domain.ErrCodeNotConfirmed:
		return http.StatusPreconditionRequired
	default:
		return http.StatusInternalServerError
	}
}
