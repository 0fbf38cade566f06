// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package config

// Config holds localfs store settings.
type Config struct {
	// Dir is the root directory holding stored blobs. Keys are
	// interpreted as paths relative to it.
	Dir string `json:"dir,omitempty" mapstructure:"dir"`
}
