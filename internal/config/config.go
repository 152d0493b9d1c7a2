package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// LMSBaseURL is the upstream learning-platform API this service
	// proxies player actions to. All persistence lives there.
	LMSBaseURL string
	LMSTimeout time.Duration

	// RedisURL is optional; when empty the course-structure cache is
	// disabled and every player session loads the tree from the LMS.
	RedisURL       string
	StructCacheTTL time.Duration

	JWTSecret string

	// PlayerIdleTTL controls how long an untouched player session is
	// retained in memory before eviction.
	PlayerIdleTTL time.Duration

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		LMSBaseURL:     getEnv("LMS_BASE_URL", "http://localhost:9000/api/v1"),
		LMSTimeout:     time.Duration(getEnvInt("LMS_TIMEOUT_SECONDS", 15)) * time.Second,
		RedisURL:       getEnv("REDIS_URL", ""),
		StructCacheTTL: time.Duration(getEnvInt("STRUCT_CACHE_TTL_MINUTES", 10)) * time.Minute,
		JWTSecret:      getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		PlayerIdleTTL:  time.Duration(getEnvInt("PLAYER_IDLE_TTL_MINUTES", 120)) * time.Minute,
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
