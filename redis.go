// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Directory entry kinds stored in Redis.
const (
	entryKindConnectionFactory = "connection_factory"
	entryKindTopic             = "topic"
)

// directoryEntry is the JSON document stored under each directory key.
type directoryEntry struct {
	// Kind discriminates the entry: "connection_factory" or "topic".
	Kind string `json:"kind"`

	// ConnectionFactory is present iff Kind is "connection_factory".
	ConnectionFactory *ConnectionFactoryConfig `json:"connection_factory,omitempty"`

	// Topic is the broker topic name, present iff Kind is "topic".
	Topic string `json:"topic,omitempty"`
}

// RedisResolver resolves symbolic names against a Redis-backed directory.
// Each name is a string key (KeyPrefix + name) holding a JSON directoryEntry
// describing either a Kafka connection factory or a topic, so bindings can
// be administered centrally and shared by many applications.
//
// Open establishes a client and verifies reachability; the returned context
// owns the client and must be closed after resolution.
type RedisResolver struct {
	// Addr is the Redis server address in "host:port" format. Required.
	Addr string

	// Username and Password authenticate the Redis connection. Optional.
	Username string
	Password string

	// DB selects the Redis logical database. Default: 0.
	DB int

	// KeyPrefix namespaces the directory keys.
	// Default: "topicappender:".
	KeyPrefix string

	// RequestTimeout bounds each directory operation.
	// Default: 0 (no timeout).
	RequestTimeout time.Duration
}

const defaultKeyPrefix = "topicappender:"

var _ Resolver = (*RedisResolver)(nil)

// Open implements Resolver.
func (r *RedisResolver) Open() (ResolverContext, error) {
	if r.Addr == "" {
		return nil, errors.Join(ErrValidation, fmt.Errorf("redis address is required"))
	}

	client := redis.NewClient(&redis.Options{
		Addr:     r.Addr,
		Username: r.Username,
		Password: r.Password,
		DB:       r.DB,
	})

	ctx, cancel := deadlineFor(context.Background(), r.RequestTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Join(ErrLookup, fmt.Errorf("directory unavailable: %w", err))
	}

	prefix := r.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &redisContext{
		client:  client,
		prefix:  prefix,
		timeout: r.RequestTimeout,
	}, nil
}

// redisContext is a single resolution session against the Redis directory.
type redisContext struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func (c *redisContext) Resolve(name string) (any, error) {
	ctx, cancel := deadlineFor(context.Background(), c.timeout)
	defer cancel()

	value, err := c.client.Get(ctx, c.prefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, errors.Join(ErrLookup, fmt.Errorf("name %q is not bound", name))
	}
	if err != nil {
		return nil, errors.Join(ErrLookup, fmt.Errorf("resolving name %q: %w", name, err))
	}

	var entry directoryEntry
	if err := json.Unmarshal([]byte(value), &entry); err != nil {
		return nil, errors.Join(ErrLookup,
			fmt.Errorf("name %q holds a malformed directory entry: %w", name, err))
	}

	switch entry.Kind {
	case entryKindConnectionFactory:
		if entry.ConnectionFactory == nil {
			return nil, errors.Join(ErrLookup,
				fmt.Errorf("name %q is a connection factory entry with no configuration", name))
		}
		return entry.ConnectionFactory.build()

	case entryKindTopic:
		if entry.Topic == "" {
			return nil, errors.Join(ErrLookup,
				fmt.Errorf("name %q is a topic entry with no topic", name))
		}
		return Topic{Name: entry.Topic}, nil

	default:
		return nil, errors.Join(ErrLookup,
			fmt.Errorf("name %q has unknown entry kind %q", name, entry.Kind))
	}
}

func (c *redisContext) Close() error {
	return c.client.Close()
}
