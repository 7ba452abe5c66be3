package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "models/tsunami", cfg.ModelDir)
	assert.Equal(t, "https://earthquake.usgs.gov", cfg.USGSBaseURL)
	assert.Equal(t, 10*time.Second, cfg.USGSTimeout)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, time.Hour, cfg.PollWindow)
	assert.Equal(t, 5.0, cfg.MinMagnitude)
	assert.Equal(t, 0.3, cfg.AlertThreshold)
	assert.True(t, cfg.AutoRefresh)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "tsunami-alerts", cfg.KafkaAlertTopic)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9191")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("MODEL_DIR", "/opt/models/v3")
	t.Setenv("USGS_BASE_URL", "http://localhost:8089")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("POLL_WINDOW", "6h")
	t.Setenv("MIN_MAGNITUDE", "6.5")
	t.Setenv("ALERT_THRESHOLD", "0.5")
	t.Setenv("AUTO_REFRESH", "false")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("KAFKA_ALERT_TOPIC", "alerts.tsunami.v1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9191", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "/opt/models/v3", cfg.ModelDir)
	assert.Equal(t, "http://localhost:8089", cfg.USGSBaseURL)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 6*time.Hour, cfg.PollWindow)
	assert.Equal(t, 6.5, cfg.MinMagnitude)
	assert.Equal(t, 0.5, cfg.AlertThreshold)
	assert.False(t, cfg.AutoRefresh)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "alerts.tsunami.v1", cfg.KafkaAlertTopic)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparseable poll interval", "POLL_INTERVAL", "sometimes"},
		{"negative poll interval", "POLL_INTERVAL", "-1m"},
		{"unparseable poll window", "POLL_WINDOW", "1 hour"},
		{"unparseable timeout", "USGS_TIMEOUT", "fast"},
		{"unparseable magnitude", "MIN_MAGNITUDE", "big"},
		{"unparseable threshold", "ALERT_THRESHOLD", "half"},
		{"threshold above one", "ALERT_THRESHOLD", "1.5"},
		{"threshold below zero", "ALERT_THRESHOLD", "-0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadKafkaValidation(t *testing.T) {
	t.Run("enabled with empty brokers", func(t *testing.T) {
		t.Setenv("KAFKA_ENABLED", "true")
		t.Setenv("KAFKA_BROKERS", " , ")

		_, err := Load()
		assert.ErrorContains(t, err, "KAFKA_BROKERS")
	})

	t.Run("disabled skips broker validation", func(t *testing.T) {
		t.Setenv("KAFKA_ENABLED", "false")
		t.Setenv("KAFKA_BROKERS", " , ")

		_, err := Load()
		assert.NoError(t, err)
	})
}
