// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides in-memory fakes for store and lookup
// collaborators, with call counters for read-through assertions.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/mediakit/renderd/server/types"
)

// FakeStore is an in-memory ObjectStore. Safe for concurrent use.
type FakeStore struct {
	mu    sync.Mutex
	blobs map[string]*types.Blob

	GetCalls int
	PutCalls int

	// GetErr and PutErr, when set, force the corresponding operation
	// to fail. GetErr does not apply to keys absent from the store;
	// those always fail with ErrNotFound.
	GetErr error
	PutErr error
}

var _ types.ObjectStore = (*FakeStore)(nil)

func NewFakeStore() *FakeStore {
	return &FakeStore{blobs: make(map[string]*types.Blob)}
}

// Seed stores a blob without touching call counters.
func (s *FakeStore) Seed(key string, blob *types.Blob) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = cloneBlob(blob)
}

func (s *FakeStore) Get(ctx context.Context, key string) (*types.Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.GetCalls++

	if s.GetErr != nil {
		return nil, s.GetErr
	}

	blob, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %q: %w", key, types.ErrNotFound)
	}

	return cloneBlob(blob), nil
}

func (s *FakeStore) Put(ctx context.Context, key string, blob *types.Blob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.PutCalls++

	if s.PutErr != nil {
		return s.PutErr
	}

	s.blobs[key] = cloneBlob(blob)

	return nil
}

// Has reports whether a key is present, without counting as a Get.
func (s *FakeStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.blobs[key]

	return ok
}

// Stored returns the stored blob for assertions, without counting as a
// Get. Returns nil when absent.
func (s *FakeStore) Stored(key string) *types.Blob {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneBlob(s.blobs[key])
}

func cloneBlob(blob *types.Blob) *types.Blob {
	if blob == nil {
		return nil
	}

	clone := &types.Blob{
		Data:        append([]byte(nil), blob.Data...),
		ContentType: blob.ContentType,
	}

	if blob.Attributes != nil {
		clone.Attributes = make(map[string]string, len(blob.Attributes))
		for k, v := range blob.Attributes {
			clone.Attributes[k] = v
		}
	}

	return clone
}

// FakeLookup is an in-memory MetadataLookup.
type FakeLookup struct {
	mu      sync.Mutex
	entries map[string]string

	ResolveCalls int

	// Err, when set, forces ResolveBaseKey to fail.
	Err error
}

var _ types.MetadataLookup = (*FakeLookup)(nil)

func NewFakeLookup(entries map[string]string) *FakeLookup {
	if entries == nil {
		entries = make(map[string]string)
	}

	return &FakeLookup{entries: entries}
}

func (l *FakeLookup) ResolveBaseKey(ctx context.Context, contentID string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ResolveCalls++

	if l.Err != nil {
		return "", l.Err
	}

	key, ok := l.entries[contentID]
	if !ok {
		return "", fmt.Errorf("content %q: %w", contentID, types.ErrNotFound)
	}

	return key, nil
}
