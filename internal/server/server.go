package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kapu/youtube-summary-agent/internal/adapter"
	"github.com/kapu/youtube-summary-agent/internal/domain"
	agenterrors "github.com/kapu/youtube-summary-agent/pkg/errors"
	"go.uber.org/zap"
)

const apologyMessage = "I encountered an error while processing your request."

// AgentRequest is the transport contract. Query is interpreted verbatim as a
// playlist identifier; the only normalization applied is a whitespace strip.
// An empty query is not rejected here: it flows to the provider and surfaces
// through the failure boundary like any other bad identifier.
type AgentRequest struct {
	Query     string `json:"query"`
	UserID    string `json:"user_id" binding:"required"`
	RequestID string `json:"request_id" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

type AgentResponse struct {
	Response string  `json:"response"`
	Success  bool    `json:"success"`
	Error    *string `json:"error"`
}

// Processor runs the summarization pipeline for one playlist.
type Processor interface {
	Process(ctx context.Context, playlistID string) (*domain.AggregatedResult, error)
}

// ConversationStore appends turns keyed by session.
type ConversationStore interface {
	AppendTurn(ctx context.Context, sessionID string, role domain.Role, content string, data map[string]any) error
}

type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	pipeline    Processor
	formatter   *adapter.DigestFormatter
	store       ConversationStore
	bearerToken string
	logger      *zap.Logger
}

func NewServer(host string, port int, bearerToken string, pipeline Processor, formatter *adapter.DigestFormatter, store ConversationStore, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:      engine,
		pipeline:    pipeline,
		formatter:   formatter,
		store:       store,
		bearerToken: bearerToken,
		logger:      logger,
	}

	engine.Use(s.requestLogger())
	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api", s.requireBearerToken())
	api.POST("/youtube-summary-agent", s.handleAgentQuery)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: engine,
	}
	return s
}

// Engine exposes the router for httptest.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func (s *Server) requireBearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token != s.bearerToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleAgentQuery(c *gin.Context) {
	var req AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		verr := agenterrors.NewValidationError(fmt.Sprintf("Invalid request body: %v", err), "body", nil)
		detail := verr.Error()
		c.JSON(http.StatusBadRequest, AgentResponse{
			Response: apologyMessage,
			Success:  false,
			Error:    &detail,
		})
		return
	}

	c.JSON(http.StatusOK, s.process(c.Request.Context(), &req))
}

// process is the single top-level failure boundary. Every error raised by
// persistence, resolution, summarization or formatting lands here and becomes
// a structured failure response; nothing escapes past the endpoint.
func (s *Server) process(ctx context.Context, req *AgentRequest) AgentResponse {
	s.logger.Info("Processing request",
		zap.String("session_id", req.SessionID),
		zap.String("request_id", req.RequestID))

	if err := s.store.AppendTurn(ctx, req.SessionID, domain.RoleHuman, req.Query, nil); err != nil {
		return s.failure(req, fmt.Errorf("failed to store user message: %w", err))
	}

	playlistID := strings.TrimSpace(req.Query)

	result, err := s.pipeline.Process(ctx, playlistID)
	if err != nil {
		return s.failure(req, fmt.Errorf("failed to process playlist: %w", err))
	}

	digest, err := s.formatter.FormatDigest(result)
	if err != nil {
		return s.failure(req, err)
	}

	data := map[string]any{
		"video_title":       result.Title,
		"published_at":      result.PublishedAt,
		"video_description": result.Description,
	}
	if err := s.store.AppendTurn(ctx, req.SessionID, domain.RoleAI, digest, data); err != nil {
		return s.failure(req, fmt.Errorf("failed to store AI response: %w", err))
	}

	return AgentResponse{Response: digest, Success: true}
}

func (s *Server) failure(req *AgentRequest, err error) AgentResponse {
	s.logger.Error("Request failed",
		zap.String("session_id", req.SessionID),
		zap.String("request_id", req.RequestID),
		zap.Error(err))

	detail := fmt.Sprintf("Error processing request: %v", err)
	return AgentResponse{
		Response: apologyMessage,
		Success:  false,
		Error:    &detail,
	}
}
