package handler

import (
	"net/http"

	"github.com/Aashish23092/agent-ranking-parser/service"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every API route. Uploads sit behind the session gate.
func NewRouter(rankings *RankingHandler, sessions *service.SessionService, maxMultipartMemory int64) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	if maxMultipartMemory > 0 {
		router.MaxMultipartMemory = maxMultipartMemory
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "healthy",
			"service":       "Agent Ranking PDF Parser",
			"auth_required": sessions.Enabled(),
		})
	})

	sessionHandler := NewSessionHandler(sessions)

	api := router.Group("/api/v1")
	{
		api.POST("/session", sessionHandler.CreateSession)

		ranked := api.Group("/rankings", RequireSession(sessions))
		{
			ranked.POST("", rankings.RankDocuments)
			ranked.POST("/export", rankings.ExportDocument)
		}
	}

	return router
}
