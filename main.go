package main

import (
	"os"

	"github.com/Aashish23092/agent-ranking-parser/config"
	"github.com/Aashish23092/agent-ranking-parser/handler"
	"github.com/Aashish23092/agent-ranking-parser/logger"
	"github.com/Aashish23092/agent-ranking-parser/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()
	logger.InitLogger(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	// Initialize PDF processor and service layer
	pdfProcessor := service.NewPDFProcessor()
	exportService := service.NewExportService(logger.L)
	if cfg.PDFFontFile != "" {
		ttf, err := os.ReadFile(cfg.PDFFontFile)
		if err != nil {
			logger.L.Error("Failed to read PDF_FONT_FILE, using built-in fonts", "path", cfg.PDFFontFile, "error", err)
		}
		exportService.WithPDFFont(ttf)
	}
	rankingService := service.NewRankingService(pdfProcessor, exportService)
	sessionService := service.NewSessionService(service.SessionConfig{
		Password:        cfg.AppPassword,
		PasswordHash:    cfg.AppPasswordHash,
		Secret:          cfg.SessionSecret,
		TTL:             cfg.SessionTTL,
		LoginsPerMinute: cfg.LoginRatePerMinute,
	})
	if !sessionService.Enabled() {
		logger.L.Warn("APP_PASSWORD not set, uploads are not password protected")
	}

	// Initialize handler layer
	rankingHandler := handler.NewRankingHandler(rankingService, cfg.MaxFiles, cfg.MaxFileSize)
	router := handler.NewRouter(rankingHandler, sessionService, 32<<20)

	// Start server
	logger.L.Info("Starting Agent Ranking PDF Parser", "port", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.L.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
