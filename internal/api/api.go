// Package api implements the HTTP API for the scoring service.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
)

// Scorer runs one scoring pass for a company input.
type Scorer interface {
	Run(ctx context.Context, input string) (*esg.Result, error)
}

// ScoreRequest is the body of POST /v1/score.
type ScoreRequest struct {
	// Company is a company name, a bare domain, or a full URL.
	Company string `json:"company" binding:"required"`
}

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(log logger.Interface, scorer Scorer) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.POST("/score", handleScore(log, scorer))

	return router
}

// handleScore runs the full pipeline for the requested company. Resolution
// failures map to 422: the input could not be turned into a crawlable site.
func handleScore(log logger.Interface, scorer Scorer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := scorer.Run(c.Request.Context(), req.Company)
		if err != nil {
			if errors.Is(err, esg.ErrResolution) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}

			log.Error("scoring run failed", "company", req.Company, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "scoring failed"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// loggingMiddleware logs each HTTP request with latency and status.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
