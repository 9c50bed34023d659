// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import (
	"errors"
	"fmt"
)

// Compression specifies the message batch compression algorithm.
type Compression string

const (
	// CompressionSnappy uses Snappy compression (good balance, recommended).
	CompressionSnappy Compression = "snappy"

	// CompressionGzip uses Gzip compression.
	CompressionGzip Compression = "gzip"

	// CompressionLz4 uses LZ4 compression.
	CompressionLz4 Compression = "lz4"

	// CompressionZstd uses Zstandard compression.
	CompressionZstd Compression = "zstd"

	// CompressionNone disables compression.
	CompressionNone Compression = "none"
)

// validateCompression validates the Compression enum value. Empty means
// no compression.
func validateCompression(codec Compression) error {
	switch codec {
	case CompressionSnappy, CompressionGzip, CompressionLz4, CompressionZstd, CompressionNone, "":
		return nil
	}
	return errors.Join(ErrValidation,
		fmt.Errorf("compression codec '%s' is invalid: must be 'snappy', 'gzip', 'lz4', 'zstd', 'none' or empty", codec))
}
