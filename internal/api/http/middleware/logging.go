package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/ipgeo-server/internal/logger"
)

// Logging logs HTTP requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, route, duration and status for each request.
func (l *Logging) Handle(c *gin.Context) {
	start := time.Now()

	l.logger.Debug("HTTP request started",
		"method", c.Request.Method,
		"path", c.Request.URL.Path)

	c.Next()

	duration := time.Since(start)
	status := c.Writer.Status()

	l.logger.Info("HTTP request completed",
		"method", c.Request.Method,
		"route", c.FullPath(),
		"duration_ms", duration.Milliseconds(),
		"status", status,
		"client_ip", c.ClientIP())

	if status >= 500 {
		l.logger.Error("HTTP request failed",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", status)
	}
}
