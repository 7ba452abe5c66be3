//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/quakewatch/tsunami-monitor/internal/adapter/kafka"
	"github.com/quakewatch/tsunami-monitor/internal/config"
	"github.com/quakewatch/tsunami-monitor/internal/domain"
	"github.com/quakewatch/tsunami-monitor/internal/observability"
)

const testAlertTopic = "test-tsunami-alerts"

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID(fmt.Sprintf("test-cluster-%d", time.Now().UnixNano())),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve broker address")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a topic through the cluster controller so the writer
// does not rely on auto-creation.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestAlertPublishRoundTrip verifies that kafka.Writer publishes the alert
// subset of a poll cycle with the expected key, headers, and payload.
func TestAlertPublishRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertTopic)

	cfg := &config.Config{
		KafkaEnabled:    true,
		KafkaBrokers:    []string{broker},
		KafkaAlertTopic: testAlertTopic,
	}
	logger := observability.NewLogger(&config.Config{LogLevel: "error", LogFormat: "text"})

	writer := kafka.NewWriter(cfg, logger)
	defer writer.Close()

	assessedAt := time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC)
	alerts := []domain.RiskAssessment{
		{
			Event: domain.RawEvent{
				ID:        "us7000big",
				Time:      time.Date(2024, 5, 10, 5, 30, 0, 0, time.UTC),
				Magnitude: 8.2,
				DepthKM:   18.0,
				Latitude:  38.1,
				Longitude: 142.3,
				Place:     "off the east coast of Honshu, Japan",
			},
			Probability: 0.88,
			Tier:        domain.Tier{Label: "Very High", Color: "#ef4444", Emblem: "🔴"},
			AssessedAt:  assessedAt,
		},
		{
			Event: domain.RawEvent{
				ID:        "us7000edge",
				Time:      time.Date(2024, 5, 10, 5, 45, 0, 0, time.UTC),
				Magnitude: 6.9,
				DepthKM:   40.0,
				Latitude:  3.3,
				Longitude: 96.0,
				Place:     "southern Sumatra, Indonesia",
			},
			Probability: 0.41,
			Tier:        domain.Tier{Label: "Moderate", Color: "#f59e0b", Emblem: "🟡"},
			AssessedAt:  assessedAt,
		},
	}

	require.NoError(t, writer.PublishAlerts(ctx, alerts))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{broker},
		Topic:   testAlertTopic,
		GroupID: fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
	})
	defer consumer.Close()

	for _, want := range alerts {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from alert topic")

		assert.Equal(t, want.Event.ID, string(msg.Key))

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, want.Tier.Label, headers["risk_tier"])
		assert.Equal(t, assessedAt.Format(time.RFC3339), headers["assessed_at"])

		var got domain.RiskAssessment
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, want, got)
	}
}
