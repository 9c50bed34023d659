// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDirectoryYAML = `
connection_factories:
  - name: cf/logging
    brokers:
      - localhost:9092
      - localhost:9093
    request_timeout: 30s
    cleanup_timeout: 5s
    max_retries: 3
    linger: 50ms
    compression: snappy
    acks: all
    allow_auto_topic_creation: true
topics:
  - name: topic/logging
    topic: app-logs
  - name: topic/audit
    topic: audit-events
`

func TestParseDirectory(t *testing.T) {
	t.Parallel()

	t.Run("parses a full document", func(t *testing.T) {
		t.Parallel()
		resolver, err := ParseDirectory([]byte(validDirectoryYAML))
		require.NoError(t, err)

		dir, err := resolver.Open()
		require.NoError(t, err)
		defer dir.Close()

		factory, err := resolveConnectionFactory(dir, "cf/logging")
		require.NoError(t, err)

		kf, ok := factory.(*KafkaConnectionFactory)
		require.True(t, ok)
		assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, kf.Brokers)
		assert.Equal(t, 30*time.Second, kf.RequestTimeout)
		assert.Equal(t, 5*time.Second, kf.CleanupTimeout)
		assert.Equal(t, 3, kf.MaxRetries)
		assert.Equal(t, 50*time.Millisecond, kf.Linger)
		assert.Equal(t, CompressionSnappy, kf.CompressionCodec)
		assert.Equal(t, AcksAll, kf.Acks)
		assert.True(t, kf.AllowAutoTopicCreation)

		topic, err := resolveTopic(dir, "topic/logging")
		require.NoError(t, err)
		assert.Equal(t, "app-logs", topic.Name)

		topic, err = resolveTopic(dir, "topic/audit")
		require.NoError(t, err)
		assert.Equal(t, "audit-events", topic.Name)
	})

	t.Run("defaults are zero values", func(t *testing.T) {
		t.Parallel()
		resolver, err := ParseDirectory([]byte(`
connection_factories:
  - name: cf/logging
    brokers: ["localhost:9092"]
`))
		require.NoError(t, err)

		dir, err := resolver.Open()
		require.NoError(t, err)
		defer dir.Close()

		factory, err := resolveConnectionFactory(dir, "cf/logging")
		require.NoError(t, err)

		kf := factory.(*KafkaConnectionFactory)
		assert.Zero(t, kf.RequestTimeout)
		assert.Zero(t, kf.MaxRetries)
		assert.Empty(t, kf.CompressionCodec)
		assert.Empty(t, kf.Acks)
		assert.False(t, kf.AllowAutoTopicCreation)
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()
		_, err := ParseDirectory([]byte("topics: [[[["))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			yaml string
		}{
			{
				name: "factory without brokers",
				yaml: `
connection_factories:
  - name: cf/logging
`,
			},
			{
				name: "factory without name",
				yaml: `
connection_factories:
  - brokers: ["localhost:9092"]
`,
			},
			{
				name: "factory with empty broker",
				yaml: `
connection_factories:
  - name: cf/logging
    brokers: [""]
`,
			},
			{
				name: "topic without topic",
				yaml: `
topics:
  - name: topic/logging
`,
			},
			{
				name: "bad duration",
				yaml: `
connection_factories:
  - name: cf/logging
    brokers: ["localhost:9092"]
    request_timeout: soon
`,
			},
			{
				name: "negative duration",
				yaml: `
connection_factories:
  - name: cf/logging
    brokers: ["localhost:9092"]
    linger: -5s
`,
			},
			{
				name: "bad compression",
				yaml: `
connection_factories:
  - name: cf/logging
    brokers: ["localhost:9092"]
    compression: brotli
`,
			},
			{
				name: "bad acks",
				yaml: `
connection_factories:
  - name: cf/logging
    brokers: ["localhost:9092"]
    acks: most
`,
			},
			{
				name: "duplicate names",
				yaml: `
connection_factories:
  - name: shared
    brokers: ["localhost:9092"]
topics:
  - name: shared
    topic: app-logs
`,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				_, err := ParseDirectory([]byte(tt.yaml))
				assert.ErrorIs(t, err, ErrValidation)
			})
		}
	})
}

func TestLoadDirectory(t *testing.T) {
	t.Parallel()

	t.Run("loads from a file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "directory.yaml")
		require.NoError(t, os.WriteFile(path, []byte(validDirectoryYAML), 0o600))

		resolver, err := LoadDirectory(path)
		require.NoError(t, err)

		dir, err := resolver.Open()
		require.NoError(t, err)
		defer dir.Close()

		_, err = resolveTopic(dir, "topic/logging")
		assert.NoError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadDirectory(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
