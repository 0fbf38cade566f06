// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediakit/renderd/server/listing"
	"github.com/mediakit/renderd/server/types"
)

type stubListing struct {
	lastKind  string
	lastStart int
	lastLimit int

	page *listing.Page
	err  error
}

func (s *stubListing) ListRecent(ctx context.Context, start, limit int) (*listing.Page, error) {
	s.lastKind, s.lastStart, s.lastLimit = listing.KindRecent, start, limit

	return s.page, s.err
}

func (s *stubListing) ListPopular(ctx context.Context, start, limit int) (*listing.Page, error) {
	s.lastKind, s.lastStart, s.lastLimit = listing.KindPopular, start, limit

	return s.page, s.err
}

func newListingServer(t *testing.T, svc *stubListing) *httptest.Server {
	t.Helper()

	orch := &stubOrchestrator{blob: &types.Blob{Data: []byte("x")}}
	router := Router(NewRenditionController(orch, ""), NewListingController(svc))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

func decodePage(t *testing.T, resp *http.Response) *listing.Page {
	t.Helper()

	page := &listing.Page{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(page))

	return page
}

func TestGetRecent(t *testing.T) {
	svc := &stubListing{page: &listing.Page{
		IDs:       []string{"1", "2", "3"},
		NextToken: listing.EncodeCursor(listing.KindRecent, 3),
	}}
	srv := newListingServer(t, svc)

	resp := get(t, srv.URL+"/v1/articles/recent?limit=3")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, listing.KindRecent, svc.lastKind)
	assert.Equal(t, 0, svc.lastStart)
	assert.Equal(t, 3, svc.lastLimit)

	page := decodePage(t, resp)
	assert.Equal(t, []string{"1", "2", "3"}, page.IDs)
	assert.NotEmpty(t, page.NextToken)
}

func TestGetPopularWithToken(t *testing.T) {
	svc := &stubListing{page: &listing.Page{IDs: []string{"9"}}}
	srv := newListingServer(t, svc)

	token := listing.EncodeCursor(listing.KindPopular, 50)
	resp := get(t, srv.URL+"/v1/articles/popular?token="+token)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, listing.KindPopular, svc.lastKind)
	assert.Equal(t, 50, svc.lastStart)
}

func TestTokenKindMismatchRejected(t *testing.T) {
	svc := &stubListing{page: &listing.Page{}}
	srv := newListingServer(t, svc)

	// A recent cursor cannot continue a popular listing.
	token := listing.EncodeCursor(listing.KindRecent, 50)
	resp := get(t, srv.URL+"/v1/articles/popular?token="+token)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, svc.lastKind, "mismatched cursor never reaches the service")
}

func TestListingUnavailable(t *testing.T) {
	svc := &stubListing{err: fmt.Errorf("redis down: %w", types.ErrUnavailable)}
	srv := newListingServer(t, svc)

	resp := get(t, srv.URL+"/v1/articles/recent")

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestListingRoutesNotMountedWhenNil(t *testing.T) {
	orch := &stubOrchestrator{blob: &types.Blob{Data: []byte("x")}}
	router := Router(NewRenditionController(orch, ""), nil)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	resp := get(t, srv.URL+"/v1/articles/recent")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBadStartRejected(t *testing.T) {
	svc := &stubListing{page: &listing.Page{}}
	srv := newListingServer(t, svc)

	resp := get(t, srv.URL+"/v1/articles/recent?start=-1")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
