package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	YouTube  YouTubeConfig
	Summary  SummaryConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	BearerToken string
}

type YouTubeConfig struct {
	APIKey string
}

// SummaryConfig selects the summarization provider. Provider is "openai" or
// "gemini"; Model overrides the provider default when set.
type SummaryConfig struct {
	Provider     string
	OpenAIAPIKey string
	GeminiAPIKey string
	Model        string
}

// RedisConfig is optional; an empty Host disables the summary cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvInt("SERVER_PORT", 8001),
			BearerToken: getEnv("API_BEARER_TOKEN", ""),
		},
		YouTube: YouTubeConfig{
			APIKey: getEnv("YOUTUBE_API_KEY", ""),
		},
		Summary: SummaryConfig{
			Provider:     getEnv("SUMMARY_PROVIDER", "openai"),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("SUMMARY_MODEL", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "agent"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.BearerToken == "" {
		return fmt.Errorf("API_BEARER_TOKEN is required")
	}
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}
	switch c.Summary.Provider {
	case "openai":
		if c.Summary.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when SUMMARY_PROVIDER is openai")
		}
	case "gemini":
		if c.Summary.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when SUMMARY_PROVIDER is gemini")
		}
	default:
		return fmt.Errorf("unknown SUMMARY_PROVIDER %q (want openai or gemini)", c.Summary.Provider)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
