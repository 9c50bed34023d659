// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
)

// clientFactory is a function that creates a Kafka client from options.
// This allows dependency injection for testing.
type clientFactory func(opts ...kgo.Opt) (kafkaClient, error)

// defaultClientFactory is the production client factory that uses franz-go.
func defaultClientFactory(opts ...kgo.Opt) (kafkaClient, error) {
	return kgo.NewClient(opts...)
}

// Verify the Kafka types satisfy the broker interfaces at compile time.
var (
	_ ConnectionFactory = (*KafkaConnectionFactory)(nil)
	_ Connection        = (*kafkaConnection)(nil)
	_ Session           = (*kafkaSession)(nil)
	_ Publisher         = (*kafkaPublisher)(nil)
)

// KafkaConnectionFactory creates broker connections backed by Apache Kafka.
// It is the handle a symbolic connection-factory name resolves to when the
// directory describes a Kafka cluster.
//
// All fields are set before the factory is bound into a resolver and are
// immutable afterward.
type KafkaConnectionFactory struct {
	// Brokers is the list of Kafka broker addresses.
	// Required. Each address must be in "host:port" format.
	Brokers []string

	// TLS configures TLS encryption.
	// Optional. If nil, plaintext connections are used.
	TLS *tls.Config

	// RequestTimeout sets the maximum time to wait for broker responses.
	// Default: 0 (no timeout).
	RequestTimeout time.Duration

	// CleanupTimeout bounds how long Close waits for buffered messages to
	// flush. Default: 0 (no timeout).
	CleanupTimeout time.Duration

	// MaxRetries controls retry behavior on broker failures.
	// <=0: no retries, fail immediately (default).
	MaxRetries int

	// Linger sets the producer batching delay.
	// Default: 0 (no lingering).
	Linger time.Duration

	// CompressionCodec specifies the batch compression algorithm.
	// Valid: "snappy", "gzip", "lz4", "zstd", "none" or empty.
	CompressionCodec Compression

	// Acks controls broker acknowledgments.
	// Valid: "all", "leader", "none" or empty.
	Acks Acks

	// AllowAutoTopicCreation enables automatic topic creation when
	// publishing to non-existent topics.
	// Default: false (prevents typos from creating topics).
	AllowAutoTopicCreation bool

	// Logger is passed through to the Kafka client.
	// Optional. If nil, the client does not log.
	Logger kgo.Logger

	// clientFactory is for internal use only (testing hook).
	clientFactory clientFactory
}

// Connect implements ConnectionFactory. When creds is non-nil the
// connection authenticates with SASL/PLAIN; otherwise it is anonymous.
// The Kafka client dials lazily, so broker reachability is verified by
// Connection.Start, not here.
func (f *KafkaConnectionFactory) Connect(_ context.Context, creds *Credentials) (Connection, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	factory := f.clientFactory
	if factory == nil {
		factory = defaultClientFactory
	}

	client, err := factory(f.toKgoOpts(creds)...)
	if err != nil {
		return nil, errors.Join(ErrConnect, fmt.Errorf("failed to create Kafka client: %w", err))
	}

	return &kafkaConnection{
		client:         client,
		cleanupTimeout: f.CleanupTimeout,
	}, nil
}

// validate validates the factory's configuration.
func (f *KafkaConnectionFactory) validate() error {
	if len(f.Brokers) == 0 {
		return errors.Join(ErrValidation, fmt.Errorf("brokers list is required"))
	}

	for i, broker := range f.Brokers {
		if broker == "" {
			return errors.Join(ErrValidation, fmt.Errorf("broker %d is empty", i))
		}
	}

	if err := validateCompression(f.CompressionCodec); err != nil {
		return err
	}

	return validateAcks(f.Acks)
}

// toKgoOpts converts the factory's configuration to franz-go client options.
func (f *KafkaConnectionFactory) toKgoOpts(creds *Credentials) []kgo.Opt {
	opts := []kgo.Opt{
		kgo.SeedBrokers(f.Brokers...),
	}

	if f.Logger != nil {
		opts = append(opts, kgo.WithLogger(f.Logger))
	}

	if f.AllowAutoTopicCreation {
		opts = append(opts, kgo.AllowAutoTopicCreation())
	}

	if creds != nil {
		mech := plain.Auth{
			User: creds.Username,
			Pass: creds.Password,
		}.AsMechanism()
		opts = append(opts, kgo.SASL(mech))
	}

	if f.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(f.TLS))
	}

	if f.RequestTimeout > 0 {
		opts = append(opts, kgo.RequestTimeoutOverhead(f.RequestTimeout))
	}

	if f.MaxRetries > 0 {
		opts = append(opts, kgo.RequestRetries(f.MaxRetries))
	}

	if f.Linger > 0 {
		opts = append(opts, kgo.ProducerLinger(f.Linger))
	}

	switch f.CompressionCodec {
	case CompressionSnappy:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.SnappyCompression()))
	case CompressionGzip:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.GzipCompression()))
	case CompressionLz4:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.Lz4Compression()))
	case CompressionZstd:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.ZstdCompression()))
	case CompressionNone:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.NoCompression()))
	}

	switch f.Acks {
	case AcksAll:
		opts = append(opts, kgo.RequiredAcks(kgo.AllISRAcks()))
	case AcksLeader:
		opts = append(opts, kgo.RequiredAcks(kgo.LeaderAck()))
	case AcksNone:
		opts = append(opts, kgo.RequiredAcks(kgo.NoAck()))
	}

	return opts
}

// kafkaConnection owns a Kafka client. Sessions and publishers created
// from it share the client; closing the connection closes them all.
type kafkaConnection struct {
	client         kafkaClient
	cleanupTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

func (c *kafkaConnection) CreateSession(transacted bool, ackMode AckMode) (Session, error) {
	if transacted {
		return nil, errors.Join(ErrValidation, fmt.Errorf("transacted sessions are not supported"))
	}
	if err := validateAckMode(ackMode); err != nil {
		return nil, err
	}

	return &kafkaSession{
		client:         c.client,
		ackMode:        ackMode,
		cleanupTimeout: c.cleanupTimeout,
	}, nil
}

// Start verifies broker reachability. The client itself dials lazily, so
// this is where a dead or unreachable cluster first surfaces.
func (c *kafkaConnection) Start(ctx context.Context) error {
	if err := c.client.Ping(ctx); err != nil {
		return errors.Join(ErrConnect, err)
	}
	return nil
}

// Close flushes buffered records and closes the client. Safe to call more
// than once.
func (c *kafkaConnection) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	ctx, cancel := deadlineFor(ctx, c.cleanupTimeout)
	defer cancel()

	err := c.client.Flush(ctx)
	c.client.Close()

	if err != nil {
		return errors.Join(ErrRelease, fmt.Errorf("flush incomplete during close: %w", err))
	}
	return nil
}

// kafkaSession is a publishing context on a kafkaConnection. The underlying
// client belongs to the connection; the session only flushes it on close.
type kafkaSession struct {
	client         kafkaClient
	ackMode        AckMode
	cleanupTimeout time.Duration
}

func (s *kafkaSession) CreatePublisher(topic Topic) (Publisher, error) {
	if topic.Name == "" {
		return nil, errors.Join(ErrValidation, fmt.Errorf("topic name is empty"))
	}

	return &kafkaPublisher{
		client:  s.client,
		topic:   topic.Name,
		ackMode: s.ackMode,
	}, nil
}

func (s *kafkaSession) Close(ctx context.Context) error {
	ctx, cancel := deadlineFor(ctx, s.cleanupTimeout)
	defer cancel()

	if err := s.client.Flush(ctx); err != nil {
		return errors.Join(ErrRelease, fmt.Errorf("flush incomplete during close: %w", err))
	}
	return nil
}

// kafkaPublisher publishes messages to a single Kafka topic.
type kafkaPublisher struct {
	client  kafkaClient
	topic   string
	ackMode AckMode
}

func (p *kafkaPublisher) Publish(ctx context.Context, msg *Message) error {
	if msg == nil {
		return errors.Join(ErrPublish, errors.New("nil message"))
	}

	record := &kgo.Record{
		Topic:   p.topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: recordHeaders(msg.Headers),
	}

	if p.ackMode == AckModeNone {
		// Fire-and-forget: delivery is never confirmed.
		p.client.TryProduce(ctx, record, nil)
		return nil
	}

	results := p.client.ProduceSync(ctx, record)
	if err := results.FirstErr(); err != nil {
		return errors.Join(ErrPublish, fmt.Errorf("broker rejected message: %w", err))
	}
	return nil
}

// recordHeaders converts message headers to franz-go record headers.
func recordHeaders(headers []MessageHeader) []kgo.RecordHeader {
	if len(headers) == 0 {
		return nil
	}

	out := make([]kgo.RecordHeader, 0, len(headers))
	for _, h := range headers {
		out = append(out, kgo.RecordHeader{Key: h.Key, Value: h.Value})
	}
	return out
}

// deadlineFor applies timeout only when the caller's context does not
// already carry a deadline.
func deadlineFor(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		if _, has := ctx.Deadline(); !has {
			return context.WithTimeout(ctx, timeout)
		}
	}
	return ctx, func() {}
}
