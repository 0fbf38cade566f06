// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mediakit/renderd/server/listing"
	"github.com/mediakit/renderd/server/types"
)

// ListingAPI is the listing surface the controller needs.
type ListingAPI interface {
	ListRecent(ctx context.Context, start, limit int) (*listing.Page, error)
	ListPopular(ctx context.Context, start, limit int) (*listing.Page, error)
}

// ListingController serves article id pages.
type ListingController struct {
	listing ListingAPI
}

func NewListingController(svc ListingAPI) *ListingController {
	return &ListingController{listing: svc}
}

// GetRecent serves /v1/articles/recent?limit=N with either ?start=N or
// an opaque ?token= continuation.
func (c *ListingController) GetRecent(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, listing.KindRecent, c.listing.ListRecent)
}

// GetPopular serves /v1/articles/popular, same query contract.
func (c *ListingController) GetPopular(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, listing.KindPopular, c.listing.ListPopular)
}

func (c *ListingController) serve(w http.ResponseWriter, r *http.Request, kind string,
	list func(context.Context, int, int) (*listing.Page, error),
) {
	start, limit, err := parsePageParams(r, kind)
	if err != nil {
		writeError(w, err)

		return
	}

	page, err := list(r.Context(), start, limit)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, page)
}

func parsePageParams(r *http.Request, kind string) (start, limit int, err error) {
	query := r.URL.Query()

	if token := query.Get("token"); token != "" {
		start, err = listing.DecodeCursor(token, kind)
		if err != nil {
			return 0, 0, err
		}
	} else if raw := query.Get("start"); raw != "" {
		start, err = strconv.Atoi(raw)
		if err != nil || start < 0 {
			return 0, 0, fmt.Errorf("start %q must be a non-negative integer: %w", raw, types.ErrInvalidKey)
		}
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("limit %q must be a non-negative integer: %w", raw, types.ErrInvalidKey)
		}
	}

	return start, limit, nil
}
