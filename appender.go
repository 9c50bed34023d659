// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/xmidt-org/eventor"
)

// successiveFailureLimit is the number of consecutive publish failures the
// appender tolerates. The breaker trips when the count exceeds the limit,
// so the fourth consecutive failure closes the appender.
const successiveFailureLimit = 3

// Report operation labels.
const (
	OpStart  = "start"
	OpAppend = "append"
	OpStop   = "stop"
)

// ReportEvent describes an appender operation for registered listeners.
// Listeners are the appender's error-reporter sink: every failure in Start,
// Append, and Stop is reported here instead of being returned to the
// caller. Successful publishes are reported too, with a nil Error.
type ReportEvent struct {
	// Op is the operation being reported: "start", "append", or "stop".
	Op string

	// Message is a human-readable description of what happened.
	Message string

	// Topic is the appender's symbolic topic name.
	Topic string

	// Error is the failure that occurred (nil for successful publishes).
	Error error

	// ErrorKind is the error classification (empty for success).
	// Values: "lookup_error", "connect_error", "publish_error",
	// "release_error", "encoding_error", "validation_error".
	ErrorKind string

	// Duration is the time taken by the reported operation.
	Duration time.Duration
}

// Appender publishes logging events to a pub/sub topic. The broker is
// reached indirectly: symbolic names are resolved through a directory
// Resolver into a connection factory and a topic handle, and the appender
// owns the resulting connection, session, and publisher for its lifetime.
//
// The lifecycle is one-way: Stopped -> Started -> Closed. Start acquires
// all resources or none; Stop releases them and is permanent. A started
// appender that suffers more than three consecutive publish failures
// presumes the broker is dead and stops itself rather than failing on
// every subsequent call.
//
// Appender is a passive object: it runs no goroutine of its own and never
// returns an error to the logging front-end. All failures go to the report
// listeners and the logger. Any goroutine may call Append concurrently
// with any other, and Stop may be called concurrently with in-flight
// Append calls.
type Appender struct {
	// --- STATIC CONFIGURATION (set before Start, immutable after) ---

	// ConnectionFactoryName is the symbolic name resolved to a
	// ConnectionFactory. Required.
	ConnectionFactoryName string

	// TopicName is the symbolic name resolved to a Topic. Required.
	TopicName string

	// Username and Password are the optional broker credentials. The
	// connection authenticates iff Username is non-empty.
	Username string
	Password string

	// Resolver is the directory service used to resolve the symbolic
	// names. Required.
	Resolver Resolver

	// StartTimeout bounds resource acquisition during Start.
	// Default: 0 (no timeout).
	StartTimeout time.Duration

	// Logger is the logger instance (same interface as franz-go).
	// Optional. If nil, a no-op logger is used.
	Logger kgo.Logger

	// InitialReportListeners are listeners registered when Start is first
	// called. For dynamic listener management use AddReportListener.
	// Optional.
	InitialReportListeners []func(*ReportEvent)

	// --- INTERNAL FIELDS (not for user configuration) ---

	// logger is the actively used logger (never nil after Start).
	logger kgo.Logger

	// mu guards state, the three resource handles, and failureCount as
	// one atomic unit.
	mu sync.Mutex

	// state is the lifecycle state. Transitions only ever move forward:
	// Stopped -> Started -> Closed.
	state State

	// conn, session, and publisher are all non-nil iff state is
	// StateStarted. There is no observable partial-resource state.
	conn      Connection
	session   Session
	publisher Publisher

	// failureCount counts consecutive publish failures since the last
	// success. Meaningful only while started.
	failureCount int

	// reportListeners broadcasts ReportEvents.
	reportListeners eventor.Eventor[func(*ReportEvent)]

	// registerInitialListenersOnce ensures InitialReportListeners are
	// registered exactly once.
	registerInitialListenersOnce sync.Once
}

// AddReportListener adds a listener for appender operation reports. The
// returned function removes the listener again.
//
// Listeners are called from whatever goroutine triggered the report and
// must be non-blocking; nothing a listener does propagates back into the
// appender or its caller.
func (a *Appender) AddReportListener(fn func(*ReportEvent)) func() {
	return a.reportListeners.Add(fn)
}

// Start resolves the configured names and acquires the connection, session,
// and publisher. It either fully succeeds, leaving the appender started, or
// fully fails, leaving it stopped with no resources retained. Calling Start
// on a started or closed appender is a no-op.
//
// Start never returns an error; failures are reported to the listeners and
// logger, and the appender simply stays stopped.
func (a *Appender) Start() {
	a.mu.Lock()

	if a.state != StateStopped {
		a.mu.Unlock()
		return
	}

	logger := a.Logger
	if logger == nil {
		logger = &nopLogger{}
	}
	a.logger = logger

	a.registerInitialListenersOnce.Do(func() {
		for _, listener := range a.InitialReportListeners {
			a.reportListeners.Add(listener)
		}
	})

	start := time.Now()
	message := "invalid appender configuration"

	err := a.validate()
	if err == nil {
		message = "could not start topic appender"

		var conn Connection
		var session Session
		var publisher Publisher
		conn, session, publisher, err = a.acquire()
		if err == nil {
			a.conn = conn
			a.session = session
			a.publisher = publisher
			a.failureCount = 0
			a.state = StateStarted
		}
	}
	a.mu.Unlock()

	if err != nil {
		a.report(OpStart, message, start, err)
		return
	}

	a.logger.Log(kgo.LogLevelInfo, "topic appender started", "topic", a.TopicName)
}

// validate checks the configuration required before Start can succeed.
func (a *Appender) validate() error {
	if a.Resolver == nil {
		return errors.Join(ErrValidation, fmt.Errorf("a resolver is required"))
	}
	if a.ConnectionFactoryName == "" {
		return errors.Join(ErrValidation, fmt.Errorf("connection factory name is required"))
	}
	if a.TopicName == "" {
		return errors.Join(ErrValidation, fmt.Errorf("topic name is required"))
	}
	return nil
}

// acquire resolves the symbolic names and builds the full resource chain.
// It returns either all three handles or an error with nothing retained;
// on a mid-chain failure the handles acquired so far are closed best-effort
// before returning.
func (a *Appender) acquire() (Connection, Session, Publisher, error) {
	ctx := context.Background()
	if a.StartTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.StartTimeout)
		defer cancel()
	}

	dir, err := a.Resolver.Open()
	if err != nil {
		return nil, nil, nil, errors.Join(ErrLookup, err)
	}
	// The directory context is only needed during resolution.
	defer dir.Close()

	factory, err := resolveConnectionFactory(dir, a.ConnectionFactoryName)
	if err != nil {
		return nil, nil, nil, err
	}

	var creds *Credentials
	if a.Username != "" {
		creds = &Credentials{Username: a.Username, Password: a.Password}
	}

	conn, err := factory.Connect(ctx, creds)
	if err != nil {
		return nil, nil, nil, errors.Join(ErrConnect, err)
	}

	session, err := conn.CreateSession(false, AckModeAuto)
	if err != nil {
		conn.Close(ctx)
		return nil, nil, nil, errors.Join(ErrConnect, err)
	}

	topic, err := resolveTopic(dir, a.TopicName)
	if err != nil {
		session.Close(ctx)
		conn.Close(ctx)
		return nil, nil, nil, err
	}

	publisher, err := session.CreatePublisher(topic)
	if err != nil {
		session.Close(ctx)
		conn.Close(ctx)
		return nil, nil, nil, errors.Join(ErrConnect, err)
	}

	if err := conn.Start(ctx); err != nil {
		session.Close(ctx)
		conn.Close(ctx)
		return nil, nil, nil, errors.Join(ErrConnect, err)
	}

	return conn, session, publisher, nil
}

// Append serializes the event and publishes it to the topic. An appender
// that is not started silently drops the event; a logging subsystem
// failure must never disturb the host application.
//
// A successful publish resets the consecutive-failure count. A failed
// publish increments it and is reported; once the count exceeds the limit
// the appender stops itself permanently.
func (a *Appender) Append(ctx context.Context, event *Event) {
	start := time.Now()

	a.mu.Lock()
	if a.state != StateStarted {
		a.mu.Unlock()
		return
	}
	publisher := a.publisher
	a.mu.Unlock()

	msg, err := event.message()
	if err == nil {
		err = publisher.Publish(ctx, msg)
	}
	if err != nil {
		// Serialization failures arrive classified; anything else from the
		// publisher is a publish failure unless it says otherwise.
		var ke *kindError
		if !errors.As(err, &ke) {
			err = errors.Join(ErrPublish, err)
		}
	}

	a.mu.Lock()
	if a.state != StateStarted {
		// A concurrent Stop won the race; the outcome no longer matters.
		a.mu.Unlock()
		return
	}

	if err == nil {
		a.failureCount = 0
		a.mu.Unlock()
		a.dispatch(&ReportEvent{Op: OpAppend, Topic: a.TopicName}, start, nil)
		return
	}

	a.failureCount++
	failures := a.failureCount
	a.mu.Unlock()

	a.report(OpAppend, "could not publish logging event", start, err)

	if failures > successiveFailureLimit {
		a.logger.Log(kgo.LogLevelWarn,
			"disabling topic appender after repeated publish failures",
			"failures", failures, "topic", a.TopicName)
		a.Stop(ctx)
	}
}

// Stop permanently closes the appender, releasing the session and
// connection. It is idempotent and safe to call concurrently with Append
// and with itself: the state flips to Closed first, under the lock, so no
// new Append can pick up a handle that is being torn down, and exactly one
// caller performs the release sequence.
//
// Each resource is released independently; a failure releasing one is
// reported and does not prevent releasing the other.
func (a *Appender) Stop(ctx context.Context) {
	start := time.Now()

	a.mu.Lock()
	if a.state != StateStarted {
		a.mu.Unlock()
		return
	}

	// Flip the state before touching any resource.
	a.state = StateClosed

	conn, session := a.conn, a.session
	a.conn = nil
	a.session = nil
	a.publisher = nil
	a.mu.Unlock()

	if err := session.Close(ctx); err != nil {
		a.report(OpStop, "could not close session", start, errors.Join(ErrRelease, err))
	}
	if err := conn.Close(ctx); err != nil {
		a.report(OpStop, "could not close connection", start, errors.Join(ErrRelease, err))
	}

	a.logger.Log(kgo.LogLevelInfo, "topic appender stopped", "topic", a.TopicName)
}

// State returns the appender's lifecycle state.
func (a *Appender) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// FailureCount returns the number of consecutive publish failures since
// the last success.
func (a *Appender) FailureCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failureCount
}

// Connection returns the connection handle. Non-nil only while started.
func (a *Appender) Connection() Connection {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conn
}

// Session returns the session handle. Non-nil only while started.
func (a *Appender) Session() Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Publisher returns the publisher handle. Non-nil only while started.
func (a *Appender) Publisher() Publisher {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.publisher
}

// report logs a failure and dispatches it to the listeners.
func (a *Appender) report(op, message string, since time.Time, err error) {
	a.loggerOrNop().Log(kgo.LogLevelError, message,
		"op", op, "topic", a.TopicName, "error", err.Error())
	a.dispatch(&ReportEvent{Op: op, Message: message, Topic: a.TopicName}, since, err)
}

// dispatch delivers a ReportEvent to all registered listeners.
func (a *Appender) dispatch(event *ReportEvent, since time.Time, err error) {
	if err != nil {
		event.Error = err
		event.ErrorKind = errorKind(err)
	}
	event.Duration = time.Since(since)

	a.reportListeners.Visit(func(listener func(*ReportEvent)) {
		listener(event)
	})
}

// loggerOrNop returns the active logger, falling back to a nop logger when
// Start has never run.
func (a *Appender) loggerOrNop() kgo.Logger {
	if a.logger != nil {
		return a.logger
	}
	return &nopLogger{}
}
