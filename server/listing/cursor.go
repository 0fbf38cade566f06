// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package listing

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/mediakit/renderd/server/types"
)

// Cursors are base64 of "{kind}:{nextIndex}". The encoding is opaque
// to clients and preserved verbatim for compatibility with existing
// consumers.

// EncodeCursor builds the continuation token for a listing kind.
func EncodeCursor(kind string, nextIndex int) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%d", kind, nextIndex)))
}

// DecodeCursor validates a token against the expected listing kind and
// returns the start index it carries.
func DecodeCursor(token, wantKind string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("malformed cursor: %w", types.ErrInvalidKey)
	}

	kind, idx, ok := strings.Cut(string(raw), ":")
	if !ok {
		return 0, fmt.Errorf("malformed cursor: %w", types.ErrInvalidKey)
	}

	if kind != wantKind {
		return 0, fmt.Errorf("cursor kind %q does not match listing %q: %w", kind, wantKind, types.ErrInvalidKey)
	}

	start, err := strconv.Atoi(idx)
	if err != nil || start < 0 {
		return 0, fmt.Errorf("malformed cursor index %q: %w", idx, types.ErrInvalidKey)
	}

	return start, nil
}
