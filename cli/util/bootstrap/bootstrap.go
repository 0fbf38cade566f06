// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

// Package bootstrap assembles the rendition pipeline from loaded
// configuration, shared by the CLI commands.
package bootstrap

import (
	"fmt"

	"github.com/mediakit/renderd/server/config"
	"github.com/mediakit/renderd/server/datastore"
	"github.com/mediakit/renderd/server/metadata/sqlite"
	"github.com/mediakit/renderd/server/rendition"
	"github.com/mediakit/renderd/server/store/cache"
	"github.com/mediakit/renderd/server/store/localfs"
	"github.com/mediakit/renderd/server/store/oci"
	"github.com/mediakit/renderd/server/types"
)

// Orchestrator builds the derivative cache orchestrator with the
// configured store, cache and metadata lookup.
func Orchestrator(cfg *config.Config) (*rendition.Orchestrator, error) {
	store, err := Store(cfg)
	if err != nil {
		return nil, err
	}

	lookup, err := sqlite.New(sqlite.Config{Path: cfg.Metadata.SQLitePath})
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata lookup: %w", err)
	}

	return rendition.NewOrchestrator(store, lookup, rendition.NewEngine(), cfg.DefaultWidth), nil
}

// Store builds the configured object store backend, wrapped in a
// datastore read cache when one is configured.
func Store(cfg *config.Config) (types.ObjectStore, error) {
	var (
		store types.ObjectStore
		err   error
	)

	switch cfg.Store.Provider {
	case "localfs":
		store, err = localfs.New(cfg.Store.LocalFS)
	case "oci":
		store, err = oci.New(cfg.Store.OCI)
	default:
		return nil, fmt.Errorf("unknown store provider %q", cfg.Store.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s store: %w", cfg.Store.Provider, err)
	}

	if cfg.Store.CacheDir == "" {
		return store, nil
	}

	cacheDS, err := datastore.New(datastore.WithFsProvider(cfg.Store.CacheDir))
	if err != nil {
		return nil, fmt.Errorf("failed to create cache datastore: %w", err)
	}

	return cache.Wrap(store, cacheDS), nil
}
