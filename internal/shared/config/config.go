package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	LocalStoreDir   string
	DatabaseURL     string
	Env             string

	LLMProvider    string
	LLMModel       string
	OpenAIAPIKey   string
	LLMTimeout     time.Duration
	LLMMaxAttempts int

	MaxSummarizeBytes int64
	MaxUploadBytes    int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),

		LLMProvider:    getEnv("LLM_PROVIDER", "openai"),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		LLMTimeout:     getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		LLMMaxAttempts: getEnvInt("LLM_MAX_ATTEMPTS", 3),

		MaxSummarizeBytes: getEnvInt64("MAX_SUMMARIZE_BYTES", 5<<20),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
