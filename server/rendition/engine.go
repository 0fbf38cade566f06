// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package rendition

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/mediakit/renderd/server/types"
)

// jpegQuality is the fixed re-encode quality for all renditions.
const jpegQuality = 85

// Engine scales source images to a requested width and re-encodes them
// as JPEG. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	quality int
}

var _ types.Generator = (*Engine)(nil)

func NewEngine() *Engine {
	return &Engine{quality: jpegQuality}
}

// Generate decodes src, scales it to the requested width preserving
// aspect ratio, and re-encodes it as JPEG. Deterministic: identical
// inputs produce identical bytes.
func (e *Engine) Generate(src []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %d: %w", width, types.ErrGeneration)
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode source: %w: %w", types.ErrGeneration, err)
	}

	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(e.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode rendition: %w: %w", types.ErrGeneration, err)
	}

	return buf.Bytes(), nil
}
