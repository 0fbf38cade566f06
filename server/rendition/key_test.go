// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package rendition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediakit/renderd/server/types"
)

func TestDeriveKey(t *testing.T) {
	key, err := DeriveKey("articles/123.jpg", 300)
	require.NoError(t, err)
	assert.Equal(t, "articles/123-300.jpg", key)

	key, err = DeriveKey("articles/cover.jpeg", 1024)
	require.NoError(t, err)
	assert.Equal(t, "articles/cover-1024.jpeg", key)

	key, err = DeriveKey("logos/site.png", 64)
	require.NoError(t, err)
	assert.Equal(t, "logos/site-64.png", key)
}

func TestDeriveKeyInjective(t *testing.T) {
	base := "articles/123.jpg"
	seen := make(map[string]int)

	for _, width := range []int{1, 2, 30, 300, 3000} {
		key, err := DeriveKey(base, width)
		require.NoError(t, err)

		if prev, dup := seen[key]; dup {
			t.Fatalf("widths %d and %d both derive %q", prev, width, key)
		}

		seen[key] = width
		assert.NotEqual(t, base, key, "derived key must differ from base")
	}
}

func TestDeriveKeyInvalid(t *testing.T) {
	cases := []struct {
		name  string
		base  string
		width int
	}{
		{"no extension", "articles/123", 300},
		{"unknown extension", "articles/123.gif", 300},
		{"empty key", "", 300},
		{"extension only", ".jpg", 300},
		{"zero width", "articles/123.jpg", 0},
		{"negative width", "articles/123.jpg", -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DeriveKey(tc.base, tc.width)
			assert.ErrorIs(t, err, types.ErrInvalidKey)
		})
	}
}

func TestDeriveKeyOfDerivedKey(t *testing.T) {
	// A key that already looks like a derivative is still a valid base
	// key; the splice must not collide with the original.
	key, err := DeriveKey("articles/123-300.jpg", 200)
	require.NoError(t, err)
	assert.Equal(t, "articles/123-300-200.jpg", key)
}
