// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

//nolint:wrapcheck
package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ipfs/go-datastore"

	"github.com/mediakit/renderd/server/types"
	"github.com/mediakit/renderd/utils/logging"
)

var logger = logging.Logger("store/cache")

type store struct {
	cache  datastore.Datastore
	source types.ObjectStore
}

type cachedBlob struct {
	Data        []byte            `json:"data"`
	ContentType string            `json:"content_type,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Wrap puts a read-through datastore cache in front of source. Cache
// faults never fail the request; they fall back to the source.
func Wrap(source types.ObjectStore, cache datastore.Datastore) types.ObjectStore {
	if cache == nil {
		return source
	}

	return &store{
		cache:  cache,
		source: source,
	}
}

func (s *store) Get(ctx context.Context, key string) (*types.Blob, error) {
	// read cache
	if blob, ok := s.cacheRead(ctx, key); ok {
		return blob, nil
	}

	// fetch from source
	blob, err := s.source.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// write cache
	s.cacheWrite(ctx, key, blob)

	return blob, nil
}

func (s *store) Put(ctx context.Context, key string, blob *types.Blob) error {
	// write through
	if err := s.source.Put(ctx, key, blob); err != nil {
		return err
	}

	s.cacheWrite(ctx, key, blob)

	return nil
}

func (s *store) cacheRead(ctx context.Context, key string) (*types.Blob, bool) {
	data, err := s.cache.Get(ctx, cacheKey(key))
	if err != nil {
		if !errors.Is(err, datastore.ErrNotFound) {
			logger.Warn("Cache read failed", "key", key, "error", err)
		}

		return nil, false
	}

	cached := &cachedBlob{}
	if err := json.Unmarshal(data, cached); err != nil {
		logger.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		_ = s.cache.Delete(ctx, cacheKey(key))

		return nil, false
	}

	return &types.Blob{
		Data:        cached.Data,
		ContentType: cached.ContentType,
		Attributes:  cached.Attributes,
	}, true
}

func (s *store) cacheWrite(ctx context.Context, key string, blob *types.Blob) {
	data, err := json.Marshal(&cachedBlob{
		Data:        blob.Data,
		ContentType: blob.ContentType,
		Attributes:  blob.Attributes,
	})
	if err != nil {
		logger.Warn("Cache encode failed", "key", key, "error", err)

		return
	}

	if err := s.cache.Put(ctx, cacheKey(key), data); err != nil {
		logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

func cacheKey(key string) datastore.Key {
	return datastore.NewKey("blob/" + key)
}
