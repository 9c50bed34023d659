// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
)

// kafkaClient is an interface for the franz-go client methods the Kafka
// connection factory needs. It allows mocking the client for testing while
// using the real kgo.Client in production.
type kafkaClient interface {
	// TryProduce attempts to produce a record without blocking if the
	// buffer is full (fire-and-forget).
	TryProduce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))

	// ProduceSync produces records synchronously and waits for broker
	// acknowledgment.
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults

	// Ping checks broker connectivity.
	Ping(ctx context.Context) error

	// Flush flushes all buffered records and waits for them to be sent.
	Flush(ctx context.Context) error

	// Close closes the client and releases resources.
	Close()
}

// Verify that *kgo.Client implements kafkaClient interface at compile time.
var _ kafkaClient = (*kgo.Client)(nil)
