// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package rendition

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediakit/renderd/server/types"
)

// testJPEG encodes a width x height gradient so resizing has real
// pixel content to work with.
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))

	return buf.Bytes()
}

func TestGenerateScalesToWidth(t *testing.T) {
	engine := NewEngine()
	src := testJPEG(t, 640, 480)

	out, err := engine.Generate(src, 300)
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 300, decoded.Bounds().Dx())
	// Aspect preserved: 640x480 at width 300 gives height 225.
	assert.Equal(t, 225, decoded.Bounds().Dy())
}

func TestGenerateDeterministic(t *testing.T) {
	engine := NewEngine()
	src := testJPEG(t, 640, 480)

	first, err := engine.Generate(src, 300)
	require.NoError(t, err)

	second, err := engine.Generate(src, 300)
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeated generation must be byte-identical")
}

func TestGenerateBadSource(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Generate([]byte("not an image"), 300)
	assert.ErrorIs(t, err, types.ErrGeneration)

	_, err = engine.Generate(nil, 300)
	assert.ErrorIs(t, err, types.ErrGeneration)
}

func TestGenerateBadWidth(t *testing.T) {
	engine := NewEngine()
	src := testJPEG(t, 64, 64)

	_, err := engine.Generate(src, 0)
	assert.ErrorIs(t, err, types.ErrGeneration)

	_, err = engine.Generate(src, -10)
	assert.ErrorIs(t, err, types.ErrGeneration)
}

func TestGenerateConcurrent(t *testing.T) {
	engine := NewEngine()
	src := testJPEG(t, 320, 240)

	reference, err := engine.Generate(src, 100)
	require.NoError(t, err)

	done := make(chan []byte, 8)
	for i := 0; i < 8; i++ {
		go func() {
			out, err := engine.Generate(src, 100)
			assert.NoError(t, err)
			done <- out
		}()
	}

	for i := 0; i < 8; i++ {
		assert.Equal(t, reference, <-done)
	}
}
