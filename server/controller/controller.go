// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

// Package controller exposes the rendition and listing services over
// HTTP.
package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mediakit/renderd/server/types"
	"github.com/mediakit/renderd/utils/logging"
)

const requestIDHeader = "X-Request-Id"

var logger = logging.Logger("controller")

// Router wires all handlers. listing may be nil when the listing
// collaborator is not configured; its routes are then not mounted.
func Router(rendition *RenditionController, listing *ListingController) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestMiddleware)

	router.HandleFunc("/v1/renditions/key/{key:.+}", rendition.GetByKey).Methods(http.MethodGet)
	router.HandleFunc("/v1/renditions/{contentID}", rendition.GetByContentID).Methods(http.MethodGet)

	if listing != nil {
		router.HandleFunc("/v1/articles/recent", listing.GetRecent).Methods(http.MethodGet)
		router.HandleFunc("/v1/articles/popular", listing.GetPopular).Methods(http.MethodGet)
	}

	return router
}

// requestMiddleware assigns a request id and logs each request.
func requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		logger.Debug("Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"requestID", requestID,
			"duration", time.Since(start))
	})
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError serves a structured failure: status by error kind, JSON
// body, no binary payload and no cache-control header.
func writeError(w http.ResponseWriter, err error) {
	status := types.HTTPStatus(err)

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "status", status, "error", err)
	} else {
		logger.Debug("Request rejected", "status", status, "error", err)
	}

	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
