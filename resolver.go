// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"errors"
	"fmt"
	"sync"
)

// Resolver is a directory service mapping symbolic configuration names to
// live resource handles. The appender opens a context, resolves its
// connection-factory and topic names through it, and closes it again; the
// context is not retained past Start.
type Resolver interface {
	Open() (ResolverContext, error)
}

// ResolverContext is a single resolution session obtained from a Resolver.
type ResolverContext interface {
	// Resolve looks up a symbolic name. Connection-factory names resolve
	// to a ConnectionFactory; topic names resolve to a Topic.
	Resolve(name string) (any, error)

	// Close releases the context.
	Close() error
}

// StaticResolver is an in-memory directory. Handles are bound
// programmatically, typically from a parsed directory document
// (see ParseDirectory) or directly in tests.
//
// StaticResolver is safe for concurrent use.
type StaticResolver struct {
	mu      sync.RWMutex
	entries map[string]any
}

var _ Resolver = (*StaticResolver)(nil)

// NewStaticResolver returns an empty StaticResolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		entries: make(map[string]any),
	}
}

// Bind associates a handle with a symbolic name, replacing any prior
// binding for that name.
func (r *StaticResolver) Bind(name string, handle any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = handle
}

// Open implements Resolver.
func (r *StaticResolver) Open() (ResolverContext, error) {
	return &staticContext{resolver: r}, nil
}

// staticContext resolves against the StaticResolver's current bindings.
type staticContext struct {
	resolver *StaticResolver
}

func (c *staticContext) Resolve(name string) (any, error) {
	c.resolver.mu.RLock()
	handle, ok := c.resolver.entries[name]
	c.resolver.mu.RUnlock()

	if !ok {
		return nil, errors.Join(ErrLookup, fmt.Errorf("name %q is not bound", name))
	}
	return handle, nil
}

func (c *staticContext) Close() error {
	return nil
}

// resolveConnectionFactory resolves name and asserts the handle is a
// ConnectionFactory.
func resolveConnectionFactory(dir ResolverContext, name string) (ConnectionFactory, error) {
	handle, err := dir.Resolve(name)
	if err != nil {
		return nil, errors.Join(ErrLookup, err)
	}

	factory, ok := handle.(ConnectionFactory)
	if !ok {
		return nil, errors.Join(ErrLookup,
			fmt.Errorf("name %q resolved to %T, not a connection factory", name, handle))
	}
	return factory, nil
}

// resolveTopic resolves name and asserts the handle is a Topic.
func resolveTopic(dir ResolverContext, name string) (Topic, error) {
	handle, err := dir.Resolve(name)
	if err != nil {
		return Topic{}, errors.Join(ErrLookup, err)
	}

	topic, ok := handle.(Topic)
	if !ok {
		return Topic{}, errors.Join(ErrLookup,
			fmt.Errorf("name %q resolved to %T, not a topic", name, handle))
	}
	return topic, nil
}
