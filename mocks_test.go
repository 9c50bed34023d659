// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/twmb/franz-go/pkg/kgo"
)

// mockResolver is a mock implementation of Resolver for testing.
type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Open() (ResolverContext, error) {
	args := m.Called()
	if ctx := args.Get(0); ctx != nil {
		return ctx.(ResolverContext), args.Error(1)
	}
	return nil, args.Error(1)
}

// mockResolverContext is a mock implementation of ResolverContext.
type mockResolverContext struct {
	mock.Mock
}

func (m *mockResolverContext) Resolve(name string) (any, error) {
	args := m.Called(name)
	return args.Get(0), args.Error(1)
}

func (m *mockResolverContext) Close() error {
	args := m.Called()
	return args.Error(0)
}

// mockConnectionFactory is a mock implementation of ConnectionFactory.
type mockConnectionFactory struct {
	mock.Mock
}

func (m *mockConnectionFactory) Connect(ctx context.Context, creds *Credentials) (Connection, error) {
	args := m.Called(ctx, creds)
	if conn := args.Get(0); conn != nil {
		return conn.(Connection), args.Error(1)
	}
	return nil, args.Error(1)
}

// mockConnection is a mock implementation of Connection.
type mockConnection struct {
	mock.Mock
}

func (m *mockConnection) CreateSession(transacted bool, ackMode AckMode) (Session, error) {
	args := m.Called(transacted, ackMode)
	if session := args.Get(0); session != nil {
		return session.(Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConnection) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockConnection) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// mockSession is a mock implementation of Session.
type mockSession struct {
	mock.Mock
}

func (m *mockSession) CreatePublisher(topic Topic) (Publisher, error) {
	args := m.Called(topic)
	if publisher := args.Get(0); publisher != nil {
		return publisher.(Publisher), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSession) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// mockPublisher is a mock implementation of Publisher.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// mockKafkaClient is a mock implementation of kafkaClient for testing the
// Kafka connection factory without a broker.
type mockKafkaClient struct {
	mock.Mock
}

func (m *mockKafkaClient) TryProduce(ctx context.Context, r *kgo.Record, cb func(*kgo.Record, error)) {
	m.Called(ctx, r, cb)
}

func (m *mockKafkaClient) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (m *mockKafkaClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockKafkaClient) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockKafkaClient) Close() {
	m.Called()
}
