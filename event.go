// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Level is the severity of a logging event.
type Level string

const (
	LevelTrace Level = "TRACE"
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Event is a fully-formed logging event handed to the appender by the
// logging front-end. Severity filtering has already happened upstream;
// the appender only serializes and publishes.
type Event struct {
	// Time is when the event occurred.
	Time time.Time `json:"time"`

	// Level is the severity of the event.
	Level Level `json:"level,omitempty"`

	// Logger is the name of the logger that produced the event.
	Logger string `json:"logger,omitempty"`

	// Message is the rendered log message.
	Message string `json:"message"`

	// Fields carries additional structured context.
	Fields map[string]string `json:"fields,omitempty"`
}

// message serializes the event into the opaque container published to the
// topic. The logger name doubles as the message key so events from the
// same logger land on the same partition, in order.
func (e *Event) message() (*Message, error) {
	if e == nil {
		return nil, errors.Join(ErrEncoding, errors.New("nil event"))
	}

	encoded, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Join(ErrEncoding, err)
	}

	headers := make([]MessageHeader, 0, 2)
	if e.Level != "" {
		headers = append(headers, MessageHeader{Key: "level", Value: []byte(e.Level)})
	}
	if e.Logger != "" {
		headers = append(headers, MessageHeader{Key: "logger", Value: []byte(e.Logger)})
	}

	return &Message{
		Key:     []byte(e.Logger),
		Value:   encoded,
		Headers: headers,
	}, nil
}
