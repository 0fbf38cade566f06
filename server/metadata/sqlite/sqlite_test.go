// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediakit/renderd/server/types"
)

func newTestLookup(t *testing.T, articles ...Article) types.MetadataLookup {
	t.Helper()

	lk, err := New(Config{Path: filepath.Join(t.TempDir(), "metadata.db")})
	require.NoError(t, err, "failed to open lookup")

	for _, a := range articles {
		require.NoError(t, lk.(*lookup).db.Create(&a).Error)
	}

	return lk
}

func TestResolveBaseKey(t *testing.T) {
	lk := newTestLookup(t,
		Article{ID: "123", ImageKey: "articles/123.jpg"},
		Article{ID: "456", ImageKey: "articles/456.png"},
	)

	key, err := lk.ResolveBaseKey(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "articles/123.jpg", key)

	key, err = lk.ResolveBaseKey(context.Background(), "456")
	require.NoError(t, err)
	assert.Equal(t, "articles/456.png", key)
}

func TestResolveBaseKeyUnknown(t *testing.T) {
	lk := newTestLookup(t, Article{ID: "123", ImageKey: "articles/123.jpg"})

	_, err := lk.ResolveBaseKey(context.Background(), "999")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestResolveBaseKeyEmptyImage(t *testing.T) {
	lk := newTestLookup(t, Article{ID: "123"})

	_, err := lk.ResolveBaseKey(context.Background(), "123")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
