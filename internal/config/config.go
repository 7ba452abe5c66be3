package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Model artifact bundle (features.json, scaler.json, classifier.json).
	ModelDir string

	// Catalog polling.
	USGSBaseURL    string
	USGSTimeout    time.Duration
	PollInterval   time.Duration
	PollWindow     time.Duration
	MinMagnitude   float64
	AlertThreshold float64
	AutoRefresh    bool

	// Alert publishing (feature-flagged).
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaAlertTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	usgsTimeout, err := parseDuration("USGS_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	pollInterval, err := parseDuration("POLL_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	pollWindow, err := parseDuration("POLL_WINDOW", time.Hour)
	if err != nil {
		return nil, err
	}
	minMagnitude, err := parseFloat("MIN_MAGNITUDE", 5.0)
	if err != nil {
		return nil, err
	}
	alertThreshold, err := parseFloat("ALERT_THRESHOLD", 0.3)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ModelDir: envOrDefault("MODEL_DIR", "models/tsunami"),

		USGSBaseURL:    envOrDefault("USGS_BASE_URL", "https://earthquake.usgs.gov"),
		USGSTimeout:    usgsTimeout,
		PollInterval:   pollInterval,
		PollWindow:     pollWindow,
		MinMagnitude:   minMagnitude,
		AlertThreshold: alertThreshold,
		AutoRefresh:    parseBool("AUTO_REFRESH", true),

		KafkaEnabled:    parseBool("KAFKA_ENABLED", false),
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "tsunami-alerts"),
	}

	if cfg.USGSBaseURL == "" {
		return nil, errors.New("USGS_BASE_URL is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, errors.New("POLL_INTERVAL must be positive")
	}
	if cfg.PollWindow <= 0 {
		return nil, errors.New("POLL_WINDOW must be positive")
	}
	if cfg.AlertThreshold < 0 || cfg.AlertThreshold > 1 {
		return nil, errors.New("ALERT_THRESHOLD must be within [0, 1]")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaAlertTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_ALERT_TOPIC is empty")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return f, nil
}

func parseBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	return s == "true" || s == "1"
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
