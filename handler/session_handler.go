package handler

import (
	"errors"
	"net/http"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/Aashish23092/agent-ranking-parser/service"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// CreateSession handles the POST /session endpoint
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Password is required", err)
		return
	}

	session, err := h.sessions.Login(c.ClientIP(), req.Password)
	switch {
	case errors.Is(err, dto.ErrRateLimited):
		sendError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many login attempts", err)
		return
	case errors.Is(err, dto.ErrInvalidPassword):
		sendError(c, http.StatusUnauthorized, "INVALID_PASSWORD", "Invalid password", err)
		return
	case err != nil:
		sendError(c, http.StatusInternalServerError, "SESSION_FAILED", "Failed to create session", err)
		return
	}

	c.JSON(http.StatusOK, session)
}
