package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPHost string
	HTTPPort string

	JGrantsBaseURL string
	APITimeout     time.Duration

	DataDir    string
	ReloadCron string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPHost:       envOrDefault("HTTP_HOST", "127.0.0.1"),
		HTTPPort:       envOrDefault("HTTP_PORT", "5000"),
		JGrantsBaseURL: envOrDefault("JGRANTS_BASE_URL", "https://api.jgrants-portal.go.jp/exp/v1/public"),
		DataDir:        envOrDefault("DATA_DIR", "data"),
		ReloadCron:     envOrDefault("RELOAD_CRON", "*/10 * * * *"),
	}

	timeout, err := envOrDuration("API_TIMEOUT", 15*time.Second)
	if err != nil {
		return cfg, err
	}
	cfg.APITimeout = timeout

	return cfg, nil
}

func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.HTTPHost, c.HTTPPort)
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envOrDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
