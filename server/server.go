package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ai_copywriter/generator"
	"ai_copywriter/publisher"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

// Options configures the HTTP layer.
type Options struct {
	AllowedOrigins []string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	VariantCount   int
}

type Server struct {
	agent   *generator.Agent
	store   *sessionStore
	logger  *zap.Logger
	opts    Options
	metrics *ginprometheus.Prometheus
}

func New(agent *generator.Agent, opts Options, logger *zap.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Minute
	}
	if opts.VariantCount <= 0 {
		opts.VariantCount = generator.DefaultVariantCount
	}
	p := ginprometheus.NewPrometheus("copywriter")
	// Route templates, not raw paths.
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		if route := c.FullPath(); route != "" {
			return route
		}
		return "unmatched"
	}
	return &Server{
		agent:   agent,
		store:   newStore(opts.SessionTTL),
		logger:  logger,
		opts:    opts,
		metrics: p,
	}, nil
}

// Routes builds the gin engine.
func (s *Server) Routes() http.Handler {
	router := gin.New()
	router.Use(ZapLogger(s.logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(s.opts.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = s.opts.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader, "Content-Disposition"}
	router.Use(cors.New(corsConfig))
	s.metrics.Use(router)

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.store.len()})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	api := router.Group("/api")
	api.GET("/options", s.handleOptions)
	api.POST("/generate/stream", s.handleGenerateStream)
	api.POST("/adapt", s.handleAdaptText)

	sessions := api.Group("/sessions")
	sessions.POST("", s.handleSessionCreate)
	sessions.GET("/:id", s.withSession(s.handleSessionGet))
	sessions.PUT("/:id", s.withSession(s.handleSessionUpdate))
	sessions.DELETE("/:id", s.handleSessionDelete)
	sessions.DELETE("/:id/draft", s.withSession(s.handleSessionClear))
	sessions.POST("/:id/variants", s.withSession(s.handleVariants))
	sessions.POST("/:id/critique", s.withSession(s.handleCritique))
	sessions.POST("/:id/adapt", s.withSession(s.handleSessionAdapt))
	sessions.GET("/:id/export", s.withSession(s.handleExport))

	return router
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errSessionNotFound = errors.New("session not found")

func (s *Server) handleServiceError(c *gin.Context, err error) {
	var status int
	var resp ErrorResponse
	switch {
	case errors.Is(err, errSessionNotFound):
		status, resp = http.StatusNotFound, ErrorResponse{Code: "not_found", Message: err.Error()}
	case errors.Is(err, generator.ErrInvalidSpec), errors.Is(err, generator.ErrSameCountry),
		errors.Is(err, generator.ErrEmptyCopy), errors.Is(err, publisher.ErrUnknownFormat):
		status, resp = http.StatusBadRequest, ErrorResponse{Code: "bad_request", Message: err.Error()}
	case errors.Is(err, generator.ErrNoDraft):
		status, resp = http.StatusConflict, ErrorResponse{Code: "no_draft", Message: err.Error()}
	case errors.Is(err, generator.ErrBusy):
		status, resp = http.StatusConflict, ErrorResponse{Code: "busy", Message: err.Error()}
	case errors.Is(err, generator.ErrMalformedVariants):
		status, resp = http.StatusBadGateway, ErrorResponse{Code: "malformed_response", Message: err.Error()}
	case errors.Is(err, generator.ErrCompletionFailed):
		status, resp = http.StatusBadGateway, ErrorResponse{Code: "completion_failed", Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		status, resp = http.StatusGatewayTimeout, ErrorResponse{Code: "timeout", Message: "request timed out"}
	default:
		s.logger.Error("unhandled error", zap.Error(err))
		status, resp = http.StatusInternalServerError, ErrorResponse{Code: "internal", Message: "an unexpected internal error occurred"}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

func (s *Server) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Message: err.Error()})
}

func (s *Server) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.opts.RequestTimeout)
}

type sessionHandler func(c *gin.Context, sess *generator.Session)

func (s *Server) withSession(h sessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.store.get(c.Param("id"))
		if !ok {
			s.handleServiceError(c, fmt.Errorf("%w: %s", errSessionNotFound, c.Param("id")))
			return
		}
		h(c, sess)
	}
}

func newSessionID() string {
	return uuid.NewString()
}
