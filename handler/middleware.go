package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/Aashish23092/agent-ranking-parser/logger"
	"github.com/Aashish23092/agent-ranking-parser/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger attaches a request ID and a request-scoped logger to every request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		reqLogger := logger.L.With(slog.String("requestID", requestID))
		c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), reqLogger))

		start := time.Now()
		c.Next()

		reqLogger.Info("request completed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

// RequireSession rejects requests without a valid bearer token when the password gate is on
func RequireSession(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if err := sessions.Validate(token); err != nil {
			sendError(c, http.StatusUnauthorized, "AUTH_REQUIRED", "A valid session token is required", err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// sendError sends a structured error response
func sendError(c *gin.Context, statusCode int, code, message string, err error) {
	log := logger.FromContext(c.Request.Context())
	errorMsg := message
	if err != nil {
		log.Warn(message, "error", err, "status", statusCode)
		if statusCode < http.StatusInternalServerError {
			errorMsg = err.Error()
		}
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}
