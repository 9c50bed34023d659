// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package topicappender publishes application logging events to a
// publish/subscribe topic, so log consumers can receive events
// asynchronously over a message bus instead of (or in addition to) local
// log files.
//
// # Overview
//
// The appender reaches its broker indirectly: the connection factory and
// the topic are configured as symbolic names, resolved through a directory
// Resolver when the appender starts. The library ships three resolvers:
// an in-memory StaticResolver, a YAML-backed directory document
// (LoadDirectory), and a Redis-backed RedisResolver. The bundled
// connection factory speaks Kafka via franz-go. Applications with other brokers
// implement the small ConnectionFactory/Connection/Session/Publisher
// interfaces and bind their own factory.
//
// The heart of the package is the appender's lifecycle and
// fault-containment policy. An appender moves one way through
// Stopped -> Started -> Closed: Start acquires the connection, session,
// and publisher atomically (all or none), and Stop releases them
// permanently. While started, every publish failure increments a
// consecutive-failure count that any success resets; more than three
// consecutive failures trip a circuit breaker that closes the appender
// for good, on the presumption that the broker is dead and continuing
// would only amplify errors. Recovery is deliberate: build a new appender.
//
// # Quick Start
//
// Bind the broker under symbolic names and point an Appender at them:
//
//	resolver := topicappender.NewStaticResolver()
//	resolver.Bind("cf/logging", &topicappender.KafkaConnectionFactory{
//	    Brokers: []string{"localhost:9092"},
//	})
//	resolver.Bind("topic/logging", topicappender.Topic{Name: "app-logs"})
//
//	appender := &topicappender.Appender{
//	    ConnectionFactoryName: "cf/logging",
//	    TopicName:             "topic/logging",
//	    Resolver:              resolver,
//	}
//	appender.Start()
//	defer appender.Stop(context.Background())
//
//	appender.Append(context.Background(), &topicappender.Event{
//	    Time:    time.Now(),
//	    Level:   topicappender.LevelInfo,
//	    Logger:  "app.http",
//	    Message: "listener started",
//	})
//
// # Error Containment
//
// No failure inside the appender ever reaches the logging front-end:
// Start, Append, and Stop complete without returning errors. An appender
// that is not started silently drops events. Failures are delivered to
// report listeners instead:
//
//	appender.InitialReportListeners = []func(*topicappender.ReportEvent){
//	    func(e *topicappender.ReportEvent) {
//	        if e.Error != nil {
//	            metrics.ErrorCounter.WithLabelValues(e.Op, e.Topic, e.ErrorKind).Inc()
//	        }
//	    },
//	}
//
// # Directory Resolution
//
// Symbolic names decouple the appender's configuration from broker
// details. The same appender configuration can resolve against a YAML
// file in one environment and a shared Redis directory in another:
//
//	resolver, err := topicappender.LoadDirectory("/etc/app/directory.yaml")
//
//	resolver := &topicappender.RedisResolver{
//	    Addr: "localhost:6379",
//	}
//
// # Thread Safety
//
// The Appender type is safe for concurrent use by multiple goroutines.
// Any goroutine may call Append concurrently with any other, and Stop may
// be called concurrently with in-flight Append calls; exactly one caller
// performs the resource release.
package topicappender
