// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			im.SetRGBA(x, y, color.RGBA{uint8(30 * x), uint8(40 * y), uint8(x * y), 255})
		}
	}
	return im
}

func TestExtToFormat(t *testing.T) {
	tests := map[string]Formats{
		".png": PNG, "jpg": JPEG, ".JPEG": JPEG, "gif": GIF,
		".tif": TIFF, "tiff": TIFF, ".bmp": BMP, "webp": WebP,
	}
	for ext, want := range tests {
		got, err := ExtToFormat(ext)
		require.NoError(t, err, ext)
		assert.Equal(t, want, got, ext)
	}
	_, err := ExtToFormat("")
	assert.Error(t, err)
	_, err = ExtToFormat(".xyz")
	assert.Error(t, err)
	assert.Equal(t, "TIFF", TIFF.String())
	assert.Equal(t, "Formats(42)", Formats(42).String())
}

func TestSaveOpen(t *testing.T) {
	im := testImage()
	dir := t.TempDir()
	for _, ext := range []string{".png", ".bmp", ".tiff"} {
		fn := filepath.Join(dir, "test"+ext)
		require.NoError(t, Save(im, fn))
		got, f, err := Open(fn)
		require.NoError(t, err)
		want, _ := ExtToFormat(ext)
		assert.Equal(t, want, f)
		_, same := CompareImages(im, got, 0)
		assert.True(t, same, ext)
	}
	assert.Error(t, Save(im, filepath.Join(dir, "test.xyz")))
}

// flatImage is a single color, which JPEG reproduces closely,
// unlike the sharp edges of testImage.
func flatImage() *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, 16, 16))
	draw.Draw(im, im.Bounds(), image.NewUniform(color.RGBA{100, 150, 200, 255}), image.Point{}, draw.Src)
	return im
}

func TestWriteRead(t *testing.T) {
	im := flatImage()
	var buf bytes.Buffer
	require.NoError(t, Write(im, &buf, JPEG))
	got, f, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, JPEG, f)
	at, same := CompareImages(im, got, 8)
	assert.True(t, same, "differs at %v", at)
	assert.Error(t, Write(im, &buf, WebP))
}

func TestAsRGBA(t *testing.T) {
	im := testImage()
	assert.Same(t, im, AsRGBA(im))
	assert.Nil(t, AsRGBA(nil))

	gray := AsGray(im)
	assert.Equal(t, im.Bounds(), gray.Bounds())
	assert.Same(t, gray, AsGray(gray))
	back := AsRGBA(gray)
	assert.NotSame(t, im, back)
	c := back.RGBAAt(3, 2)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
}

func TestDiffImage(t *testing.T) {
	a := testImage()
	b := CloneAsRGBA(a)
	b.SetRGBA(1, 1, color.RGBA{0, 0, 0, 255})
	pt, same := CompareImages(a, b, 0)
	assert.False(t, same)
	assert.Equal(t, image.Pt(1, 1), pt)

	d := DiffImage(a, b).(*image.RGBA)
	assert.Equal(t, color.RGBA{30, 40, 1, 255}, d.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, d.RGBAAt(2, 2))
	assert.True(t, CompareColors(color.RGBA{10, 10, 10, 10}, color.RGBA{12, 8, 10, 10}, 2))
	assert.False(t, CompareColors(color.RGBA{10, 10, 10, 10}, color.RGBA{13, 8, 10, 10}, 2))
}

// closeWriter records writes and returns err from Close.
type closeWriter struct {
	bytes.Buffer
	err    error
	closed bool
}

func (w *closeWriter) Close() error {
	w.closed = true
	return w.err
}

func TestWriteClose(t *testing.T) {
	im := testImage()

	w := &closeWriter{}
	require.NoError(t, writeClose(im, w, PNG))
	assert.True(t, w.closed)
	got, f, err := Read(&w.Buffer)
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	_, same := CompareImages(im, got, 0)
	assert.True(t, same)

	w = &closeWriter{err: io.ErrClosedPipe}
	assert.ErrorIs(t, writeClose(im, w, PNG), io.ErrClosedPipe)
	assert.True(t, w.closed)

	// the write error is returned ahead of the close error
	w = &closeWriter{err: io.ErrClosedPipe}
	err = writeClose(im, w, WebP)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, io.ErrClosedPipe)
	assert.True(t, w.closed)
}
