// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package config

// Config holds OCI store settings. When LocalDir is set, blobs are
// kept in a local OCI image layout and the registry settings are
// ignored; this also allows mounting data via volumes.
type Config struct {
	LocalDir        string `json:"local_dir,omitempty"        mapstructure:"local_dir"`
	RegistryAddress string `json:"registry_address,omitempty" mapstructure:"registry_address"`
	RepositoryName  string `json:"repository_name,omitempty"  mapstructure:"repository_name"`

	AuthConfig `json:"auth_config,omitempty" mapstructure:",squash"`
}

// AuthConfig holds registry authentication settings.
type AuthConfig struct {
	Insecure     bool   `json:"insecure,omitempty"      mapstructure:"insecure"`
	Username     string `json:"username,omitempty"      mapstructure:"username"`
	Password     string `json:"password,omitempty"      mapstructure:"password"`
	AccessToken  string `json:"access_token,omitempty"  mapstructure:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty" mapstructure:"refresh_token"`
}
