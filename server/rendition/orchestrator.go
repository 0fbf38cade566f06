// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package rendition

import (
	"context"
	"errors"
	"fmt"

	"github.com/mediakit/renderd/server/types"
	"github.com/mediakit/renderd/utils/logging"
)

var logger = logging.Logger("rendition/orchestrator")

// Request identifies the rendition to serve. Exactly one of ContentID
// or BaseKey must be set; BaseKey skips metadata resolution (the
// direct-key path). A zero Width selects the configured default.
type Request struct {
	ContentID string
	BaseKey   string
	Width     int
}

// Orchestrator implements the cache-aside derivative pipeline: read
// the derivative, or on miss fetch the source, generate, write back
// and serve. It is stateless beyond its injected collaborators and
// safe for concurrent use.
//
// There is deliberately no single-flight de-duplication: concurrent
// first requests for the same rendition may each generate it. That is
// safe because generation is deterministic and Put overwrites.
type Orchestrator struct {
	store        types.ObjectStore
	lookup       types.MetadataLookup
	engine       types.Generator
	defaultWidth int
}

func NewOrchestrator(store types.ObjectStore, lookup types.MetadataLookup, engine types.Generator, defaultWidth int) *Orchestrator {
	return &Orchestrator{
		store:        store,
		lookup:       lookup,
		engine:       engine,
		defaultWidth: defaultWidth,
	}
}

// FetchOrCreate returns the requested rendition, generating and
// persisting it first when absent. A failed write-back after a
// successful generation is logged and the rendition is still served.
func (o *Orchestrator) FetchOrCreate(ctx context.Context, req Request) (*types.Blob, error) {
	width := req.Width
	if width == 0 {
		width = o.defaultWidth
	}

	baseKey := req.BaseKey
	if baseKey == "" {
		if req.ContentID == "" {
			return nil, fmt.Errorf("request needs a content id or a base key: %w", types.ErrInvalidKey)
		}

		resolved, err := o.lookup.ResolveBaseKey(ctx, req.ContentID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve content %q: %w", req.ContentID, err)
		}

		baseKey = resolved
	}

	key, err := DeriveKey(baseKey, width)
	if err != nil {
		return nil, err
	}

	blob, err := o.store.Get(ctx, key)
	if err == nil {
		logger.Debug("Derivative cache hit", "key", key)

		return blob, nil
	}

	if !errors.Is(err, types.ErrNotFound) {
		return nil, fmt.Errorf("failed to read derivative %q: %w", key, err)
	}

	logger.Debug("Derivative cache miss", "key", key, "width", width)

	source, err := o.store.Get(ctx, baseKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read base asset %q: %w", baseKey, err)
	}

	data, err := o.engine.Generate(source.Data, width)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %dpx rendition of %q: %w", width, baseKey, err)
	}

	blob = &types.Blob{
		Data:        data,
		ContentType: types.ContentTypeJPEG,
		Attributes: map[string]string{
			types.AttrContentID: req.ContentID,
			types.AttrBaseKey:   baseKey,
		},
	}

	// Best-effort write-back: generation succeeded, so the response is
	// served even when cache population fails.
	if err := o.store.Put(ctx, key, blob); err != nil {
		logger.Error("Failed to persist derivative", "key", key, "error", err)
	} else {
		logger.Info("Derivative generated", "key", key, "width", width, "size", len(data))
	}

	return blob, nil
}
