package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type S3Config struct {
	Region   string
	Bucket   string
	Endpoint string // optional, for S3-compatible stores
}

type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	JWTSecret  string
	SessionTTL time.Duration

	// Event bus backend: "channel" (in-process) or "kafka" (device/cluster wide)
	EventBusBackend string
	KafkaBrokers    []string

	S3            S3Config
	MaxUploadSize int64 // bytes
}

// LoadConfig reads configuration from the environment, with .env support for
// local development. Missing required values are an error at startup, not at
// first use.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		Port:            getEnv("PORT", "8080"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		SessionTTL:      getDurationEnv("SESSION_TTL", 24*time.Hour),
		EventBusBackend: getEnv("EVENT_BUS_BACKEND", "channel"),
		S3: S3Config{
			Region:   getEnv("S3_REGION", "us-east-1"),
			Bucket:   os.Getenv("S3_BUCKET"),
			Endpoint: os.Getenv("S3_ENDPOINT"),
		},
		MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 10<<20),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.EventBusBackend != "channel" && cfg.EventBusBackend != "kafka" {
		return nil, fmt.Errorf("EVENT_BUS_BACKEND must be 'channel' or 'kafka', got %q", cfg.EventBusBackend)
	}
	if cfg.EventBusBackend == "kafka" && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required when EVENT_BUS_BACKEND is 'kafka'")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
