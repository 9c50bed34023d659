// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DirectoryConfig is a declarative directory document: the symbolic names
// an Appender is configured with, mapped to the connection factories and
// topics they stand for. Loaded from YAML (see LoadDirectory) or stored as
// JSON entries in an external directory service (see RedisResolver).
type DirectoryConfig struct {
	ConnectionFactories []ConnectionFactoryConfig `yaml:"connection_factories" json:"connection_factories" validate:"dive"`
	Topics              []TopicConfig             `yaml:"topics" json:"topics" validate:"dive"`
}

// ConnectionFactoryConfig describes one Kafka connection factory binding.
// Durations are strings in Go duration syntax, e.g. "30s".
type ConnectionFactoryConfig struct {
	Name                   string      `yaml:"name" json:"name" validate:"required"`
	Brokers                []string    `yaml:"brokers" json:"brokers" validate:"required,min=1,dive,required"`
	RequestTimeout         string      `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty"`
	CleanupTimeout         string      `yaml:"cleanup_timeout,omitempty" json:"cleanup_timeout,omitempty"`
	MaxRetries             int         `yaml:"max_retries,omitempty" json:"max_retries,omitempty" validate:"gte=0"`
	Linger                 string      `yaml:"linger,omitempty" json:"linger,omitempty"`
	Compression            Compression `yaml:"compression,omitempty" json:"compression,omitempty"`
	Acks                   Acks        `yaml:"acks,omitempty" json:"acks,omitempty"`
	AllowAutoTopicCreation bool        `yaml:"allow_auto_topic_creation,omitempty" json:"allow_auto_topic_creation,omitempty"`
}

// TopicConfig binds a symbolic name to a broker topic.
type TopicConfig struct {
	Name  string `yaml:"name" json:"name" validate:"required"`
	Topic string `yaml:"topic" json:"topic" validate:"required"`
}

// LoadDirectory reads a YAML directory document from path and builds a
// StaticResolver holding its bindings.
func LoadDirectory(path string) (*StaticResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file '%s': %w", path, err)
	}

	resolver, err := ParseDirectory(data)
	if err != nil {
		return nil, fmt.Errorf("directory file '%s': %w", path, err)
	}
	return resolver, nil
}

// ParseDirectory parses a YAML directory document and builds a
// StaticResolver holding its bindings.
func ParseDirectory(data []byte) (*StaticResolver, error) {
	var cfg DirectoryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Join(ErrValidation, fmt.Errorf("error parsing directory document: %w", err))
	}

	return cfg.Resolver()
}

// Resolver validates the directory document and builds a StaticResolver
// from its bindings.
func (cfg *DirectoryConfig) Resolver() (*StaticResolver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	resolver := NewStaticResolver()
	bound := make(map[string]struct{})

	for i := range cfg.ConnectionFactories {
		fc := &cfg.ConnectionFactories[i]
		if _, dup := bound[fc.Name]; dup {
			return nil, errors.Join(ErrValidation,
				fmt.Errorf("name %q is bound more than once", fc.Name))
		}
		bound[fc.Name] = struct{}{}

		factory, err := fc.build()
		if err != nil {
			return nil, err
		}
		resolver.Bind(fc.Name, factory)
	}

	for _, tc := range cfg.Topics {
		if _, dup := bound[tc.Name]; dup {
			return nil, errors.Join(ErrValidation,
				fmt.Errorf("name %q is bound more than once", tc.Name))
		}
		bound[tc.Name] = struct{}{}

		resolver.Bind(tc.Name, Topic{Name: tc.Topic})
	}

	return resolver, nil
}

// validate runs struct validation over the document.
func (cfg *DirectoryConfig) validate() error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return errors.Join(ErrValidation, err)
	}
	return nil
}

// build constructs the KafkaConnectionFactory this config entry describes.
func (fc *ConnectionFactoryConfig) build() (*KafkaConnectionFactory, error) {
	requestTimeout, err := parseOptionalDuration("request_timeout", fc.RequestTimeout)
	if err != nil {
		return nil, err
	}
	cleanupTimeout, err := parseOptionalDuration("cleanup_timeout", fc.CleanupTimeout)
	if err != nil {
		return nil, err
	}
	linger, err := parseOptionalDuration("linger", fc.Linger)
	if err != nil {
		return nil, err
	}

	factory := &KafkaConnectionFactory{
		Brokers:                fc.Brokers,
		RequestTimeout:         requestTimeout,
		CleanupTimeout:         cleanupTimeout,
		MaxRetries:             fc.MaxRetries,
		Linger:                 linger,
		CompressionCodec:       fc.Compression,
		Acks:                   fc.Acks,
		AllowAutoTopicCreation: fc.AllowAutoTopicCreation,
	}

	if err := factory.validate(); err != nil {
		return nil, fmt.Errorf("connection factory %q: %w", fc.Name, err)
	}
	return factory, nil
}

// parseOptionalDuration parses a duration string, treating empty as zero.
func parseOptionalDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Join(ErrValidation,
			fmt.Errorf("invalid %s '%s': %w", field, value, err))
	}
	if d < 0 {
		return 0, errors.Join(ErrValidation,
			fmt.Errorf("%s must not be negative, got '%s'", field, value))
	}
	return d, nil
}
