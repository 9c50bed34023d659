// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"errors"
	"fmt"
)

// Acks specifies the Kafka broker acknowledgment requirement for the
// connection factory.
type Acks string

const (
	// AcksAll requires all ISR replicas to acknowledge (strongest durability).
	AcksAll Acks = "all"

	// AcksLeader requires only the leader replica to acknowledge.
	AcksLeader Acks = "leader"

	// AcksNone requires no acknowledgment.
	AcksNone Acks = "none"
)

// validateAcks validates the Acks enum value. Empty means the client
// default.
func validateAcks(acks Acks) error {
	switch acks {
	case AcksAll, AcksLeader, AcksNone, "":
		return nil
	}
	return errors.Join(ErrValidation,
		fmt.Errorf("acks '%s' is invalid: must be 'all', 'leader', 'none' or empty", acks))
}
