// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

// State represents the lifecycle state of an Appender.
type State int

const (
	// StateStopped is the initial state. The appender holds no broker
	// resources and may be started.
	StateStopped State = iota

	// StateStarted indicates the appender holds a live connection, session,
	// and publisher, and accepts events.
	StateStarted

	// StateClosed is terminal. A closed appender holds no resources,
	// silently drops events, and cannot be restarted.
	StateClosed
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarted:
		return "Started"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
