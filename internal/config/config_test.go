package config

import (
	"log/slog"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/lms_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %s, want 8080", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("environment = %s", cfg.Environment)
	}
	if cfg.EventBusBackend != "channel" {
		t.Errorf("event bus backend = %s, want channel", cfg.EventBusBackend)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("session ttl = %s, want 24h", cfg.SessionTTL)
	}
	if cfg.MaxUploadSize != 10<<20 {
		t.Errorf("max upload size = %d", cfg.MaxUploadSize)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"database url", "DATABASE_URL"},
		{"redis url", "REDIS_URL"},
		{"jwt secret", "JWT_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.omit, "")
			if _, err := LoadConfig(); err == nil {
				t.Errorf("expected error with %s unset", tt.omit)
			}
		})
	}
}

func TestLoadConfig_EventBusBackend(t *testing.T) {
	t.Run("invalid backend", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("EVENT_BUS_BACKEND", "rabbitmq")
		if _, err := LoadConfig(); err == nil {
			t.Error("expected error for unknown backend")
		}
	})

	t.Run("kafka without brokers", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("EVENT_BUS_BACKEND", "kafka")
		if _, err := LoadConfig(); err == nil {
			t.Error("expected error for kafka with no brokers")
		}
	})

	t.Run("kafka with brokers", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("EVENT_BUS_BACKEND", "kafka")
		t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if len(cfg.KafkaBrokers) != 2 {
			t.Errorf("brokers = %v", cfg.KafkaBrokers)
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"garbage", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
