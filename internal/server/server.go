package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	apperrors "github.com/stayscout/yt-reviews/internal/errors"
	"github.com/stayscout/yt-reviews/internal/model"
	"github.com/stayscout/yt-reviews/internal/service/rag"
)

const (
	defaultLangFilter = "en"
	defaultTopK       = 5
)

// Server exposes the question-answering API over HTTP
type Server struct {
	engine *gin.Engine
	rag    rag.Service
}

// New builds the HTTP server and registers its routes
func New(ragService rag.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestLogger(), recovery())

	s := &Server{engine: engine, rag: ragService}
	engine.POST("/ask", s.handleAsk)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return s
}

// Run blocks serving HTTP on the given address
func (s *Server) Run(addr string) error {
	log.Info().Str("addr", addr).Msg("starting HTTP server")
	return s.engine.Run(addr)
}

// handleAsk answers one question with a summary and citations
func (s *Server) handleAsk(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidArgument: malformed request body"})
		return
	}
	if req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidArgument: question is required"})
		return
	}
	if req.LangFilter == "" {
		req.LangFilter = defaultLangFilter
	}
	if req.TopK <= 0 {
		req.TopK = defaultTopK
	}

	result, err := s.rag.Ask(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

// errorMessage renders "Kind: message" without leaking internal causes
func errorMessage(err error) string {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.Code + ": " + appErr.Message
	}
	return apperrors.CodeInternal + ": " + err.Error()
}

// requestLogger logs one line per request
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}

// recovery maps panics to the generic error shape
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "Internal: unexpected server error"})
			}
		}()
		c.Next()
	}
}
