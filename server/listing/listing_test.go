// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package listing

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediakit/renderd/server/types"
)

// mockRedisClient serves fixed slices, recording the ranges requested.
type mockRedisClient struct {
	lists map[string][]string
	zsets map[string][]string

	err error
}

func newMockRedisClient() *mockRedisClient {
	return &mockRedisClient{
		lists: make(map[string][]string),
		zsets: make(map[string][]string),
	}
}

func window(items []string, start, stop int64) []string {
	if start >= int64(len(items)) {
		return nil
	}

	if stop >= int64(len(items)) {
		stop = int64(len(items)) - 1
	}

	return items[start : stop+1]
}

func (m *mockRedisClient) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}

	return window(m.lists[key], start, stop), nil
}

func (m *mockRedisClient) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}

	return window(m.zsets[key], start, stop), nil
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return m.err }
func (m *mockRedisClient) Close() error                   { return nil }

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}

	return out
}

func TestListRecent(t *testing.T) {
	client := newMockRedisClient()
	client.lists["renderd:articles:recent"] = ids(10)
	svc := newService(client, "renderd:")

	page, err := svc.ListRecent(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, page.IDs)
	assert.NotEmpty(t, page.NextToken)

	// Follow the cursor.
	start, err := DecodeCursor(page.NextToken, KindRecent)
	require.NoError(t, err)
	assert.Equal(t, 5, start)

	page, err = svc.ListRecent(context.Background(), start, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"6", "7", "8", "9", "10"}, page.IDs)
}

func TestListPopularUsesRanking(t *testing.T) {
	client := newMockRedisClient()
	client.zsets["renderd:articles:popular"] = []string{"42", "7", "13"}
	svc := newService(client, "renderd:")

	page, err := svc.ListPopular(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"42", "7", "13"}, page.IDs)
	// Short page: no continuation.
	assert.Empty(t, page.NextToken)
}

func TestListCapsLimit(t *testing.T) {
	client := newMockRedisClient()
	client.lists["articles:recent"] = ids(80)
	svc := newService(client, "")

	// The cap applies regardless of the requested limit.
	page, err := svc.ListRecent(context.Background(), 0, 1000)
	require.NoError(t, err)
	assert.Len(t, page.IDs, 50)

	start, err := DecodeCursor(page.NextToken, KindRecent)
	require.NoError(t, err)
	assert.Equal(t, 50, start)

	page, err = svc.ListRecent(context.Background(), start, 0)
	require.NoError(t, err)
	assert.Len(t, page.IDs, 30)
	assert.Empty(t, page.NextToken)
}

func TestListUnavailable(t *testing.T) {
	client := newMockRedisClient()
	client.err = fmt.Errorf("connection reset")
	svc := newService(client, "")

	_, err := svc.ListRecent(context.Background(), 0, 10)
	assert.ErrorIs(t, err, types.ErrUnavailable)
}

func TestCursorRoundTrip(t *testing.T) {
	token := EncodeCursor(KindPopular, 50)

	start, err := DecodeCursor(token, KindPopular)
	require.NoError(t, err)
	assert.Equal(t, 50, start)
}

func TestCursorKindMismatch(t *testing.T) {
	token := EncodeCursor(KindRecent, 50)

	_, err := DecodeCursor(token, KindPopular)
	assert.ErrorIs(t, err, types.ErrInvalidKey)
}

func TestCursorMalformed(t *testing.T) {
	for _, token := range []string{"not base64!!!", "", EncodeCursor("recent", 0)[:3]} {
		_, err := DecodeCursor(token, KindRecent)
		assert.ErrorIs(t, err, types.ErrInvalidKey, "token %q", token)
	}

	// Valid base64, bogus payload.
	_, err := DecodeCursor("cmVjZW50", KindRecent) // "recent", no index
	assert.ErrorIs(t, err, types.ErrInvalidKey)
}
