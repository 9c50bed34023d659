// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

//go:build integration

package topicappender_test

import (
	"context"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/xmidt-org/topicappender"
)

const (
	messageConsumeWait = 10 * time.Second
)

// setupKafka starts Kafka using testcontainers and returns the broker
// address. Cleanup is registered automatically.
func setupKafka(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Use confluent-local, which is designed for testcontainers. The
	// version tag matters: testcontainers validates it for KRaft mode.
	kafkaContainer, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.8.0",
		kafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "Failed to start Kafka container")

	t.Cleanup(func() {
		t.Log("Stopping Kafka container...")
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate Kafka container: %v", err)
		}
	})

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "Failed to get Kafka brokers")
	require.NotEmpty(t, brokers, "No Kafka brokers available")

	broker := brokers[0]
	t.Logf("Kafka broker available at: %s", broker)

	require.NoError(t, waitForKafka(ctx, t, broker))

	return broker
}

// waitForKafka attempts to connect to the broker until it responds or a
// timeout elapses.
func waitForKafka(ctx context.Context, t *testing.T, broker string) error {
	t.Helper()

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		client, err := kgo.NewClient(
			kgo.SeedBrokers(broker),
			kgo.RequestTimeoutOverhead(5*time.Second),
		)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := client.Ping(pingCtx)
			cancel()
			client.Close()

			if err == nil {
				t.Log("Kafka is ready!")
				return nil
			}
			t.Logf("Kafka not ready yet: %v", err)
		}

		time.Sleep(1 * time.Second)
	}

	return context.DeadlineExceeded
}

// newTestAppender builds an appender whose directory binds the symbolic
// names to the test broker and the given topic.
func newTestAppender(t *testing.T, broker, topic string) *topicappender.Appender {
	t.Helper()

	resolver := topicappender.NewStaticResolver()
	resolver.Bind("cf/test", &topicappender.KafkaConnectionFactory{
		Brokers:                []string{broker},
		AllowAutoTopicCreation: true,
		CleanupTimeout:         5 * time.Second,
	})
	resolver.Bind("topic/test", topicappender.Topic{Name: topic})

	return &topicappender.Appender{
		ConnectionFactoryName: "cf/test",
		TopicName:             "topic/test",
		Resolver:              resolver,
		StartTimeout:          30 * time.Second,
	}
}

// consumeRecords consumes records from a Kafka topic with a timeout,
// returning everything received before the timeout.
func consumeRecords(t *testing.T, broker, topic string, timeout time.Duration) []*kgo.Record {
	t.Helper()

	client, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err, "Failed to create Kafka consumer")
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var records []*kgo.Record
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		fetches := client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			break
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			t.Logf("Fetch error on %s[%d]: %v", topic, partition, err)
		})

		fetches.EachRecord(func(r *kgo.Record) {
			records = append(records, r)
		})

		// Once something arrives, allow a moment for stragglers.
		if len(records) > 0 {
			time.Sleep(500 * time.Millisecond)
			fetches = client.PollFetches(ctx)
			fetches.EachRecord(func(r *kgo.Record) {
				records = append(records, r)
			})
			break
		}

		time.Sleep(100 * time.Millisecond)
	}

	return records
}

// decodeEvent decodes a JSON-encoded logging event from a Kafka record.
func decodeEvent(t *testing.T, record *kgo.Record) *topicappender.Event {
	t.Helper()

	var event topicappender.Event
	err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(record.Value, &event)
	require.NoError(t, err, "Failed to decode logging event")

	return &event
}

// verifyEvent verifies that a Kafka record carries the expected logging
// event.
func verifyEvent(t *testing.T, record *kgo.Record, expected *topicappender.Event) {
	t.Helper()

	actual := decodeEvent(t, record)

	require.Equal(t, expected.Level, actual.Level, "Level mismatch")
	require.Equal(t, expected.Logger, actual.Logger, "Logger mismatch")
	require.Equal(t, expected.Message, actual.Message, "Message mismatch")
	require.Equal(t, expected.Fields, actual.Fields, "Fields mismatch")

	// The partition key is the logger name, so a logger's events stay
	// ordered.
	require.Equal(t, expected.Logger, string(record.Key), "Partition key should match Logger")
}

// newTestEvent creates a logging event for testing.
func newTestEvent(logger, message string) *topicappender.Event {
	return &topicappender.Event{
		Time:    time.Now().UTC(),
		Level:   topicappender.LevelInfo,
		Logger:  logger,
		Message: message,
		Fields:  map[string]string{"env": "integration"},
	}
}
