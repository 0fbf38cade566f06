// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mediakit/renderd/server/rendition"
	"github.com/mediakit/renderd/server/types"
)

// RenditionAPI is the orchestrator surface the controller needs.
type RenditionAPI interface {
	FetchOrCreate(ctx context.Context, req rendition.Request) (*types.Blob, error)
}

// RenditionController serves rendition bytes.
type RenditionController struct {
	orchestrator RenditionAPI
	cacheControl string
}

func NewRenditionController(orchestrator RenditionAPI, cacheControl string) *RenditionController {
	return &RenditionController{
		orchestrator: orchestrator,
		cacheControl: cacheControl,
	}
}

// GetByContentID serves /v1/renditions/{contentID}?width=N.
func (c *RenditionController) GetByContentID(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, rendition.Request{ContentID: mux.Vars(r)["contentID"]})
}

// GetByKey serves /v1/renditions/key/{key}?width=N, the direct-key
// path that skips metadata resolution.
func (c *RenditionController) GetByKey(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, rendition.Request{BaseKey: mux.Vars(r)["key"]})
}

func (c *RenditionController) serve(w http.ResponseWriter, r *http.Request, req rendition.Request) {
	width, err := parseWidth(r)
	if err != nil {
		writeError(w, err)

		return
	}

	req.Width = width

	blob, err := c.orchestrator.FetchOrCreate(r.Context(), req)
	if err != nil {
		writeError(w, err)

		return
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = types.ContentTypeJPEG
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))

	// Cache-control applies to successful responses only; errors must
	// never be cached as renditions.
	if c.cacheControl != "" {
		w.Header().Set("Cache-Control", c.cacheControl)
	}

	if _, err := w.Write(blob.Data); err != nil {
		logger.Debug("Failed to write response body", "error", err)
	}
}

// parseWidth reads the optional width query parameter. Zero means the
// configured default applies downstream.
func parseWidth(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("width")
	if raw == "" {
		return 0, nil
	}

	width, err := strconv.Atoi(raw)
	if err != nil || width <= 0 {
		return 0, fmt.Errorf("width %q must be a positive integer: %w", raw, types.ErrInvalidKey)
	}

	return width, nil
}
