// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	MaxHistory int
	SessionTTL time.Duration
	AdviceTopK int

	LLM LLMConfig
	STT STTConfig
}

// LLMConfig selects the generative-reply provider.
type LLMConfig struct {
	Provider string // "disabled" or "gemini"
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// STTConfig selects the speech-to-text provider.
type STTConfig struct {
	Provider string // "disabled" or "openai"
	APIKey   string
	Model    string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/nexuscoach.db"),
		MaxHistory:  getEnvInt("MAX_HISTORY", 20),
		SessionTTL:  time.Duration(getEnvInt("SESSION_TTL_SECONDS", 21600)) * time.Second,
		AdviceTopK:  getEnvInt("ADVICE_TOP_K", 3),
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", "disabled"),
			APIKey:   getEnv("GEMINI_API_KEY", ""),
			Model:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout:  time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		STT: STTConfig{
			Provider: getEnv("STT_PROVIDER", "disabled"),
			APIKey:   getEnv("OPENAI_API_KEY", ""),
			Model:    getEnv("WHISPER_MODEL", "whisper-1"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.MaxHistory <= 0 {
		return fmt.Errorf("MAX_HISTORY must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_SECONDS must be > 0")
	}
	if c.AdviceTopK <= 0 {
		return fmt.Errorf("ADVICE_TOP_K must be > 0")
	}
	switch c.LLM.Provider {
	case "disabled", "gemini":
	default:
		return fmt.Errorf("LLM_PROVIDER must be disabled or gemini, got %q", c.LLM.Provider)
	}
	switch c.STT.Provider {
	case "disabled", "openai":
	default:
		return fmt.Errorf("STT_PROVIDER must be disabled or openai, got %q", c.STT.Provider)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
