package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all tool settings, populated from environment variables.
// Command-line flags on the setup and serve binaries override the
// corresponding fields after Load.
type Config struct {
	Host  string
	Port  int
	Debug bool

	LogLevel  string
	LogFormat string

	// Dataset retrieval.
	DownloadTimeout time.Duration

	// Runtime environment provisioning.
	VenvDir          string
	PythonExec       string
	RequirementsFile string

	// Dataset-ready notifications (optional, off by default).
	NotifyEnabled bool
	KafkaBrokers  []string
	KafkaTopic    string

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	port, err := parseIntEnv("PORT", 5000, 1, 65535)
	if err != nil {
		return nil, err
	}

	downloadTimeout, err := parseDurationEnv("DOWNLOAD_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:  envOrDefault("HOST", "0.0.0.0"),
		Port:  port,
		Debug: os.Getenv("DEBUG") == "true",

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),

		DownloadTimeout: downloadTimeout,

		VenvDir:          envOrDefault("VENV_DIR", "venv"),
		PythonExec:       envOrDefault("PYTHON", "python3"),
		RequirementsFile: envOrDefault("REQUIREMENTS_FILE", "requirements.txt"),

		NotifyEnabled: os.Getenv("NOTIFY_ENABLED") == "true",
		KafkaBrokers:  parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:    envOrDefault("KAFKA_DATASET_TOPIC", "dataset-events"),

		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}
	if cfg.NotifyEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("NOTIFY_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.NotifyEnabled && cfg.KafkaTopic == "" {
		return nil, fmt.Errorf("NOTIFY_ENABLED is true but KAFKA_DATASET_TOPIC is empty")
	}
	if cfg.VenvDir == "" {
		return nil, fmt.Errorf("VENV_DIR must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseIntEnv(key string, def, min, max int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, s)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, min, max, n)
	}
	return n, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, s)
	}
	return d, nil
}
