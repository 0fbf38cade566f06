// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

//nolint:wrapcheck
package oci

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	ocilayout "oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/errdef"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"

	ociconfig "github.com/mediakit/renderd/server/store/oci/config"
	"github.com/mediakit/renderd/server/types"
	"github.com/mediakit/renderd/utils/logging"
)

const (
	// manifestKeyStorageKey carries the logical storage key on the
	// manifest, since the tag itself is a digest of it.
	manifestKeyStorageKey = "com.mediakit.renderd.key"

	// manifestKeyContentType carries the blob's serving content type.
	manifestKeyContentType = "com.mediakit.renderd.content-type"

	// attrAnnotationPrefix namespaces blob attributes inside manifest
	// annotations.
	attrAnnotationPrefix = "com.mediakit.renderd.attr."
)

var logger = logging.Logger("store/oci")

type store struct {
	repo   oras.GraphTarget
	config ociconfig.Config
}

// New returns an object store backed by an OCI registry, or by a local
// OCI image layout when cfg.LocalDir is set.
func New(cfg ociconfig.Config) (types.ObjectStore, error) {
	logger.Debug("Creating OCI store with config", "config", cfg)

	// if local dir used, return client for that local path.
	// allows mounting of data via volumes
	if repoPath := cfg.LocalDir; repoPath != "" {
		repo, err := ocilayout.New(repoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create local repo: %w", err)
		}

		return &store{
			repo:   repo,
			config: cfg,
		}, nil
	}

	// create remote client
	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", cfg.RegistryAddress, cfg.RepositoryName))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote repo: %w", err)
	}

	// configure client to remote
	repo.PlainHTTP = cfg.Insecure
	repo.Client = &auth.Client{
		Client: retry.DefaultClient,
		Header: http.Header{
			"User-Agent": {"renderd"},
		},
		Cache: auth.DefaultCache,
		Credential: auth.StaticCredential(
			cfg.RegistryAddress,
			auth.Credential{
				Username:     cfg.Username,
				Password:     cfg.Password,
				RefreshToken: cfg.RefreshToken,
				AccessToken:  cfg.AccessToken,
			},
		),
	}

	return &store{
		repo:   repo,
		config: cfg,
	}, nil
}

// Put pushes the blob as a layer, packs a manifest around it and tags
// the manifest under a digest of the storage key. Re-tagging an
// existing key moves the tag, which gives the overwrite semantics
// callers rely on.
func (s *store) Put(ctx context.Context, key string, blob *types.Blob) error {
	if key == "" || blob == nil {
		return fmt.Errorf("key and blob are required: %w", types.ErrInvalidKey)
	}

	mediaType := blob.ContentType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	layerDesc, err := oras.PushBytes(ctx, s.repo, mediaType, blob.Data)
	if err != nil {
		return fmt.Errorf("failed to push blob %q: %w: %w", key, types.ErrUnavailable, err)
	}

	annotations := map[string]string{
		manifestKeyStorageKey:  key,
		manifestKeyContentType: mediaType,
	}
	for k, v := range blob.Attributes {
		annotations[attrAnnotationPrefix+k] = v
	}

	manifestDesc, err := oras.PackManifest(ctx, s.repo, oras.PackManifestVersion1_1, ocispec.MediaTypeImageManifest,
		oras.PackManifestOptions{
			ManifestAnnotations: annotations,
			Layers: []ocispec.Descriptor{
				layerDesc,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to pack manifest for %q: %w: %w", key, types.ErrUnavailable, err)
	}

	if _, err := oras.Tag(ctx, s.repo, manifestDesc.Digest.String(), tagForKey(key)); err != nil {
		return fmt.Errorf("failed to tag %q: %w: %w", key, types.ErrUnavailable, err)
	}

	logger.Debug("Stored blob", "key", key, "tag", tagForKey(key), "size", len(blob.Data))

	return nil
}

func (s *store) Get(ctx context.Context, key string) (*types.Blob, error) {
	if key == "" {
		return nil, fmt.Errorf("key is required: %w", types.ErrInvalidKey)
	}

	manifestDesc, err := s.repo.Resolve(ctx, tagForKey(key))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("blob %q: %w", key, types.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to resolve %q: %w: %w", key, types.ErrUnavailable, err)
	}

	manifestBytes, err := content.FetchAll(ctx, s.repo, manifestDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest for %q: %w: %w", key, types.ErrUnavailable, err)
	}

	var manifest ocispec.Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest for %q: %w", key, err)
	}

	if len(manifest.Layers) == 0 {
		return nil, fmt.Errorf("manifest for %q has no layers", key)
	}

	if len(manifest.Layers) > 1 {
		logger.Warn("Manifest has multiple layers, using first layer",
			"key", key,
			"layerCount", len(manifest.Layers))
	}

	blobDesc := manifest.Layers[0]

	data, err := content.FetchAll(ctx, s.repo, blobDesc)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("blob %q: %w", key, types.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to fetch blob %q: %w: %w", key, types.ErrUnavailable, err)
	}

	blob := &types.Blob{
		Data:        data,
		ContentType: manifest.Annotations[manifestKeyContentType],
	}

	for k, v := range manifest.Annotations {
		if attr, ok := strings.CutPrefix(k, attrAnnotationPrefix); ok {
			if blob.Attributes == nil {
				blob.Attributes = make(map[string]string)
			}

			blob.Attributes[attr] = v
		}
	}

	logger.Debug("Fetched blob", "key", key, "size", len(data))

	return blob, nil
}

// tagForKey maps a path-like storage key to a valid OCI tag. Keys can
// contain characters tags cannot, so the tag is the hex sha256 of the
// key: deterministic and collision-resistant.
func tagForKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

func isNotFound(err error) bool {
	return errors.Is(err, errdef.ErrNotFound)
}
