// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"context"
	"errors"
	"fmt"
)

// Credentials carries the optional username and password used when opening
// a connection. A nil *Credentials connects anonymously.
type Credentials struct {
	Username string
	Password string
}

// Topic is a resolved publish/subscribe destination handle.
type Topic struct {
	// Name is the broker-side topic name.
	Name string
}

// MessageHeader is a single key/value pair attached to a published message.
type MessageHeader struct {
	Key   string
	Value []byte
}

// Message is the opaque container handed to a Publisher. The appender fills
// it from a serialized Event; the transport decides how key, value, and
// headers map onto its own record format.
type Message struct {
	// Key selects the partition or ordering domain, if the transport has one.
	Key []byte

	// Value is the serialized event payload.
	Value []byte

	// Headers are transport-level metadata attached to the message.
	Headers []MessageHeader
}

// ConnectionFactory creates connections to a message broker. Factories are
// what symbolic connection-factory names resolve to.
type ConnectionFactory interface {
	// Connect opens a connection to the broker, authenticating with creds
	// when non-nil.
	Connect(ctx context.Context, creds *Credentials) (Connection, error)
}

// Connection is an open link to a message broker.
type Connection interface {
	// CreateSession creates a publishing session on this connection.
	// Transacted sessions are negotiated with the broker; ackMode controls
	// delivery confirmation for messages published through the session.
	CreateSession(transacted bool, ackMode AckMode) (Session, error)

	// Start begins message flow on the connection. Publishers created
	// before Start may buffer but must not deliver.
	Start(ctx context.Context) error

	// Close releases the connection and everything created from it.
	Close(ctx context.Context) error
}

// Session is a single-threaded publishing context within a Connection.
type Session interface {
	// CreatePublisher creates a publisher bound to the given topic.
	CreatePublisher(topic Topic) (Publisher, error)

	// Close releases the session. Publishers created from the session are
	// released transitively and have no independent close.
	Close(ctx context.Context) error
}

// Publisher publishes messages to the topic it was created for.
type Publisher interface {
	Publish(ctx context.Context, msg *Message) error
}

// AckMode controls how message delivery is confirmed for a session.
type AckMode string

const (
	// AckModeAuto confirms each publish with the broker before returning.
	AckModeAuto AckMode = "auto"

	// AckModeClient leaves confirmation to the caller's transport settings.
	AckModeClient AckMode = "client"

	// AckModeNone publishes fire-and-forget with no confirmation.
	AckModeNone AckMode = "none"
)

// validateAckMode validates the AckMode enum value. Empty is treated
// as AckModeAuto.
func validateAckMode(mode AckMode) error {
	switch mode {
	case AckModeAuto, AckModeClient, AckModeNone, "":
		return nil
	}
	return errors.Join(ErrValidation,
		fmt.Errorf("ack mode '%s' is invalid: must be 'auto', 'client', 'none' or empty", mode))
}
