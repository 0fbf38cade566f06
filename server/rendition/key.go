// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

// Package rendition implements the derivative cache: key derivation,
// image generation and the fetch-or-create orchestration around the
// object store.
package rendition

import (
	"fmt"
	"strings"

	"github.com/mediakit/renderd/server/types"
)

// assetExtensions are the base-asset suffixes a key must carry.
var assetExtensions = []string{".jpg", ".jpeg", ".png"}

// DeriveKey maps a base asset key and a rendition width to the storage
// key of that rendition by splicing the width in front of the
// extension: "articles/123.jpg" + 300 -> "articles/123-300.jpg".
// Injective per base key, and never equal to the base key itself.
func DeriveKey(baseKey string, width int) (string, error) {
	if width <= 0 {
		return "", fmt.Errorf("width must be positive, got %d: %w", width, types.ErrInvalidKey)
	}

	ext := assetExtension(baseKey)
	if ext == "" {
		return "", fmt.Errorf("key %q has no known asset extension: %w", baseKey, types.ErrInvalidKey)
	}

	stem := strings.TrimSuffix(baseKey, ext)
	if stem == "" {
		return "", fmt.Errorf("key %q has an empty stem: %w", baseKey, types.ErrInvalidKey)
	}

	return fmt.Sprintf("%s-%d%s", stem, width, ext), nil
}

func assetExtension(key string) string {
	for _, ext := range assetExtensions {
		if strings.HasSuffix(key, ext) {
			return ext
		}
	}

	return ""
}
