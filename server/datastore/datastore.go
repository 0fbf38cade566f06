// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

// Package datastore constructs the key-value datastore used for blob
// caching: in-memory by default, badger-backed when given a directory.
package datastore

import (
	"fmt"

	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	badger "github.com/ipfs/go-ds-badger"
)

type options struct {
	fsDir string
}

type Option func(*options)

// WithFsProvider persists the datastore to the given directory using
// badger.
func WithFsProvider(dir string) Option {
	return func(o *options) {
		o.fsDir = dir
	}
}

// New returns a thread-safe datastore.
func New(opts ...Option) (ds.Datastore, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.fsDir != "" {
		store, err := badger.NewDatastore(o.fsDir, &badger.DefaultOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger datastore: %w", err)
		}

		return store, nil
	}

	return dssync.MutexWrap(ds.NewMapDatastore()), nil
}
