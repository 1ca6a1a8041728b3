package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	BackendURL      string
	BackendTimeout  time.Duration
	NatsURL         string
	DatabaseURL     string
	TranscriptsPath string
	LogLevel        string
}

func Load() Config {
	return Config{
		Port:            envInt("COUNSEL_PORT", 8800),
		BackendURL:      envStr("BACKEND_URL", "http://localhost:8000"),
		BackendTimeout:  time.Duration(envInt("BACKEND_TIMEOUT_MS", 30000)) * time.Millisecond,
		NatsURL:         envStr("NATS_URL", ""),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		TranscriptsPath: envStr("TRANSCRIPTS_PATH", "data/transcripts.json"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
