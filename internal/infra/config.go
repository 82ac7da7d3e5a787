package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	ViduAPIKey          string
	ViduBaseURL         string
	ViduRequestTimeout  time.Duration
	ViduPollInterval    time.Duration
	ViduPollMaxAttempts int

	MaxRefinementIterations int
	AssetBasePath           string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4.1-nano"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		ViduAPIKey:          os.Getenv("VIDU_API_KEY"),
		ViduBaseURL:         getEnv("VIDU_API_BASE_URL", "https://api.wavespeed.ai/api/v3"),
		ViduRequestTimeout:  time.Second * time.Duration(getEnvInt("VIDU_REQUEST_TIMEOUT_SECONDS", 120)),
		ViduPollInterval:    time.Second * time.Duration(getEnvInt("VIDU_POLL_INTERVAL_SECONDS", 2)),
		ViduPollMaxAttempts: getEnvInt("VIDU_POLL_MAX_ATTEMPTS", 300),

		MaxRefinementIterations: getEnvInt("MAX_REFINEMENT_ITERATIONS", 3),
		AssetBasePath:           getEnv("ASSET_BASE_PATH", "video_assets"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 900)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	if cfg.ViduAPIKey == "" {
		return nil, fmt.Errorf("VIDU_API_KEY is required")
	}

	if cfg.MaxRefinementIterations < 1 {
		return nil, fmt.Errorf("MAX_REFINEMENT_ITERATIONS must be at least 1")
	}

	if cfg.ViduPollMaxAttempts < 1 {
		return nil, fmt.Errorf("VIDU_POLL_MAX_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
