// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	localfsconfig "github.com/mediakit/renderd/server/store/localfs/config"
	ociconfig "github.com/mediakit/renderd/server/store/oci/config"
)

const (
	DefaultEnvPrefix = "RENDERD"

	DefaultListenAddress = "0.0.0.0:8080"
	DefaultWidth         = 320
	DefaultCacheControl  = "public, max-age=31536000, immutable"
	DefaultStoreProvider = "localfs"
	DefaultStoreDir      = "/var/lib/renderd/store"
	DefaultMetadataPath  = "/var/lib/renderd/metadata.db"
	DefaultListingPrefix = "renderd:"
)

type Config struct {
	// ListenAddress is the HTTP bind address.
	ListenAddress string `json:"listen_address,omitempty" mapstructure:"listen_address"`

	// DefaultWidth is the rendition width applied when a request does
	// not specify one. Must be positive.
	DefaultWidth int `json:"default_width,omitempty" mapstructure:"default_width"`

	// CacheControl is sent verbatim on successful rendition responses.
	CacheControl string `json:"cache_control,omitempty" mapstructure:"cache_control"`

	Store    StoreConfig    `json:"store,omitempty"    mapstructure:"store"`
	Metadata MetadataConfig `json:"metadata,omitempty" mapstructure:"metadata"`
	Listing  ListingConfig  `json:"listing,omitempty"  mapstructure:"listing"`
}

type StoreConfig struct {
	// Provider selects the object store backend: localfs or oci.
	Provider string `json:"provider,omitempty" mapstructure:"provider"`

	// CacheDir, when set, puts a datastore-backed read cache in front
	// of the selected backend.
	CacheDir string `json:"cache_dir,omitempty" mapstructure:"cache_dir"`

	LocalFS localfsconfig.Config `json:"localfs,omitempty" mapstructure:"localfs"`
	OCI     ociconfig.Config     `json:"oci,omitempty"     mapstructure:"oci"`
}

type MetadataConfig struct {
	// SQLitePath is the article metadata database file.
	SQLitePath string `json:"sqlite_path,omitempty" mapstructure:"sqlite_path"`
}

type ListingConfig struct {
	// Addr is the Redis address backing the article listings. When
	// empty the listing endpoints are not served.
	Addr      string `json:"addr,omitempty"       mapstructure:"addr"`
	Password  string `json:"password,omitempty"   mapstructure:"password"`
	DB        int    `json:"db,omitempty"         mapstructure:"db"`
	KeyPrefix string `json:"key_prefix,omitempty" mapstructure:"key_prefix"`
}

func LoadConfig() (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	_ = v.BindEnv("listen_address")
	v.SetDefault("listen_address", DefaultListenAddress)

	_ = v.BindEnv("default_width")
	v.SetDefault("default_width", DefaultWidth)

	_ = v.BindEnv("cache_control")
	v.SetDefault("cache_control", DefaultCacheControl)

	// Object store configuration
	_ = v.BindEnv("store.provider")
	v.SetDefault("store.provider", DefaultStoreProvider)

	_ = v.BindEnv("store.cache_dir")
	v.SetDefault("store.cache_dir", "")

	_ = v.BindEnv("store.localfs.dir")
	v.SetDefault("store.localfs.dir", DefaultStoreDir)

	_ = v.BindEnv("store.oci.local_dir")
	_ = v.BindEnv("store.oci.registry_address")
	_ = v.BindEnv("store.oci.repository_name")
	_ = v.BindEnv("store.oci.insecure")
	_ = v.BindEnv("store.oci.username")
	_ = v.BindEnv("store.oci.password")
	_ = v.BindEnv("store.oci.access_token")
	_ = v.BindEnv("store.oci.refresh_token")

	// Metadata lookup configuration
	_ = v.BindEnv("metadata.sqlite_path")
	v.SetDefault("metadata.sqlite_path", DefaultMetadataPath)

	// Listing collaborator configuration
	_ = v.BindEnv("listing.addr")
	v.SetDefault("listing.addr", "")

	_ = v.BindEnv("listing.password")
	_ = v.BindEnv("listing.db")

	_ = v.BindEnv("listing.key_prefix")
	v.SetDefault("listing.key_prefix", DefaultListingPrefix)

	// Load configuration into struct
	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	config := &Config{}
	if err := v.Unmarshal(config, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if config.DefaultWidth <= 0 {
		return nil, fmt.Errorf("default width must be positive, got %d", config.DefaultWidth)
	}

	return config, nil
}
