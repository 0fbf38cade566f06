// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

// Package listing serves ranked and recency-ordered article id pages
// from Redis with opaque cursor pagination.
package listing

import (
	"context"
	"fmt"

	"github.com/mediakit/renderd/server/types"
	"github.com/mediakit/renderd/utils/logging"
)

const (
	// maxPageSize caps result sets server-side regardless of the
	// requested limit.
	maxPageSize = 50

	// Listing kinds, also the cursor namespace.
	KindRecent  = "recent"
	KindPopular = "popular"

	recentKey  = "articles:recent"
	popularKey = "articles:popular"
)

var logger = logging.Logger("listing")

// Config holds listing service settings.
type Config struct {
	Addr      string `json:"addr,omitempty"       mapstructure:"addr"`
	Password  string `json:"password,omitempty"   mapstructure:"password"`
	DB        int    `json:"db,omitempty"         mapstructure:"db"`
	KeyPrefix string `json:"key_prefix,omitempty" mapstructure:"key_prefix"`
}

// Page is one window of article ids. NextToken is empty when the page
// was short, i.e. there is nothing more to fetch.
type Page struct {
	IDs       []string `json:"ids"`
	NextToken string   `json:"next_token,omitempty"`
}

// Service reads the recent list and the popularity ranking maintained
// in Redis by the ingestion pipeline. Read-only.
type Service struct {
	client    redisClient
	keyPrefix string
}

// New connects to Redis and returns the listing service.
func New(cfg Config) (*Service, error) {
	client, err := newGoRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return newService(client, cfg.KeyPrefix), nil
}

// newService is used by tests to substitute the client.
func newService(client redisClient, keyPrefix string) *Service {
	return &Service{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// ListRecent returns article ids in publication order, newest first.
func (s *Service) ListRecent(ctx context.Context, start, limit int) (*Page, error) {
	return s.list(ctx, KindRecent, start, limit)
}

// ListPopular returns article ids by popularity score, highest first.
func (s *Service) ListPopular(ctx context.Context, start, limit int) (*Page, error) {
	return s.list(ctx, KindPopular, start, limit)
}

func (s *Service) list(ctx context.Context, kind string, start, limit int) (*Page, error) {
	if start < 0 {
		start = 0
	}

	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	stop := int64(start + limit - 1)

	var (
		ids []string
		err error
	)

	switch kind {
	case KindRecent:
		ids, err = s.client.LRange(ctx, s.keyPrefix+recentKey, int64(start), stop)
	case KindPopular:
		ids, err = s.client.ZRevRange(ctx, s.keyPrefix+popularKey, int64(start), stop)
	default:
		return nil, fmt.Errorf("unknown listing kind %q: %w", kind, types.ErrInvalidKey)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list %s articles: %w: %w", kind, types.ErrUnavailable, err)
	}

	logger.Debug("Listed articles", "kind", kind, "start", start, "count", len(ids))

	page := &Page{IDs: ids}

	// A full page means there may be more; a short page ends the scan.
	if len(ids) == limit {
		page.NextToken = EncodeCursor(kind, start+len(ids))
	}

	return page, nil
}

// Close releases the underlying Redis connections.
func (s *Service) Close() error {
	return s.client.Close()
}
