// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/mediakit/renderd/server/store/localfs/config"
	"github.com/mediakit/renderd/server/types"
	"github.com/mediakit/renderd/utils/logging"
)

// metaSuffix names the sidecar file carrying content type and
// attributes for a blob. Object keys always end in an asset extension,
// so a sidecar can never collide with a blob key.
const metaSuffix = ".meta.json"

var logger = logging.Logger("store/localfs")

type blobMeta struct {
	ContentType string            `json:"content_type,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

type store struct {
	fs afero.Fs
}

// New returns an object store rooted at cfg.Dir on the local
// filesystem.
func New(cfg config.Config) (types.ObjectStore, error) {
	if cfg.Dir == "" {
		return nil, errors.New("localfs store requires a directory")
	}

	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store root: %w", err)
	}

	logger.Debug("Created localfs store", "dir", cfg.Dir)

	return &store{
		fs: afero.NewBasePathFs(osFs, cfg.Dir),
	}, nil
}

// newWithFs is used by tests to run against an in-memory filesystem.
func newWithFs(fs afero.Fs) types.ObjectStore {
	return &store{fs: fs}
}

func (s *store) Get(ctx context.Context, key string) (*types.Blob, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, key)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("blob %q: %w", key, types.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to read blob %q: %w: %w", key, types.ErrUnavailable, err)
	}

	blob := &types.Blob{Data: data}

	// The sidecar is best-effort on read: a blob without one is served
	// with no content type and the caller decides.
	metaBytes, err := afero.ReadFile(s.fs, key+metaSuffix)
	if err == nil {
		var meta blobMeta
		if err := json.Unmarshal(metaBytes, &meta); err == nil {
			blob.ContentType = meta.ContentType
			blob.Attributes = meta.Attributes
		}
	}

	return blob, nil
}

func (s *store) Put(ctx context.Context, key string, blob *types.Blob) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if blob == nil {
		return fmt.Errorf("nil blob for key %q: %w", key, types.ErrInvalidKey)
	}

	if dir := path.Dir(key); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %q: %w: %w", dir, types.ErrUnavailable, err)
		}
	}

	metaBytes, err := json.Marshal(blobMeta{
		ContentType: blob.ContentType,
		Attributes:  blob.Attributes,
	})
	if err != nil {
		return fmt.Errorf("failed to encode metadata for %q: %w", key, err)
	}

	if err := afero.WriteFile(s.fs, key, blob.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %q: %w: %w", key, types.ErrUnavailable, err)
	}

	if err := afero.WriteFile(s.fs, key+metaSuffix, metaBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata for %q: %w: %w", key, types.ErrUnavailable, err)
	}

	logger.Debug("Stored blob", "key", key, "size", len(blob.Data))

	return nil
}

func validateKey(key string) error {
	if key == "" || strings.Contains(key, "..") || path.IsAbs(key) {
		return fmt.Errorf("key %q: %w", key, types.ErrInvalidKey)
	}

	return nil
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, os.ErrNotExist)
}
