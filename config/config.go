package config

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	LogLevel   string
	GinMode    string

	// Password gate. With neither set the gate is disabled.
	AppPassword     string
	AppPasswordHash string

	SessionSecret string
	SessionTTL    time.Duration

	MaxFileSize        int64
	MaxFiles           int
	LoginRatePerMinute int

	// Optional TrueType font for PDF exports, for scripts the built-in fonts lack
	PDFFontFile string
}

// AuthEnabled reports whether uploads require a session token
func (c *Config) AuthEnabled() bool {
	return c.AppPassword != "" || c.AppPasswordHash != ""
}

// LoadConfig reads settings from the environment, seeded from a .env file when present
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Error loading .env file, relying on OS environment", "error", err)
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		GinMode:            getEnv("GIN_MODE", "release"),
		AppPassword:        os.Getenv("APP_PASSWORD"),
		AppPasswordHash:    os.Getenv("APP_PASSWORD_HASH"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		SessionTTL:         getEnvDuration("SESSION_TTL", 12*time.Hour),
		MaxFileSize:        int64(getEnvInt("MAX_FILE_SIZE_MB", 10)) * 1024 * 1024,
		MaxFiles:           getEnvInt("MAX_FILES", 20),
		LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
		PDFFontFile:        os.Getenv("PDF_FONT_FILE"),
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = randomSecret()
		if cfg.AuthEnabled() {
			slog.Warn("SESSION_SECRET not set, sessions will not survive a restart")
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("config: cannot read random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)
}
