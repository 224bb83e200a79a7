// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package imagex reads and writes image files and has helpers
// for converting and comparing images.
package imagex

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/vcompute/base/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Formats are the supported image encoding / decoding formats
type Formats int32

// The supported image encoding formats
const (
	None Formats = iota
	PNG
	JPEG
	GIF
	TIFF
	BMP
	WebP
)

// JPEGQuality is the quality used when writing JPEG images.
var JPEGQuality = 90

type format struct {
	name string

	// file extensions, the first being the one image.Decode reports
	exts []string

	// nil for formats that can only be read
	encode func(w io.Writer, im image.Image) error
}

var formats = [...]format{
	None: {name: "None"},
	PNG:  {"PNG", []string{"png"}, png.Encode},
	JPEG: {"JPEG", []string{"jpeg", "jpg"}, func(w io.Writer, im image.Image) error {
		return jpeg.Encode(w, im, &jpeg.Options{Quality: JPEGQuality})
	}},
	GIF:  {"GIF", []string{"gif"}, func(w io.Writer, im image.Image) error { return gif.Encode(w, im, nil) }},
	TIFF: {"TIFF", []string{"tiff", "tif"}, func(w io.Writer, im image.Image) error { return tiff.Encode(w, im, nil) }},
	BMP:  {"BMP", []string{"bmp"}, bmp.Encode},
	WebP: {name: "WebP", exts: []string{"webp"}},
}

func (f Formats) String() string {
	if f < 0 || int(f) >= len(formats) {
		return fmt.Sprintf("Formats(%d)", int32(f))
	}
	return formats[f].name
}

// ExtToFormat returns the format for a filename extension,
// with or without the leading dot.
func ExtToFormat(ext string) (Formats, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return None, errors.New("imagex: empty extension")
	}
	for i, f := range formats {
		if slices.Contains(f.exts, ext) {
			return Formats(i), nil
		}
	}
	return None, fmt.Errorf("imagex: extension %q not recognized", ext)
}

// Open opens the image in the given file, in any supported format,
// and returns the format it was in.
func Open(filename string) (image.Image, Formats, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, None, err
	}
	defer file.Close()
	im, f, err := Read(bufio.NewReader(file))
	if err != nil {
		return nil, None, fmt.Errorf("imagex: reading %q: %w", filename, err)
	}
	return im, f, nil
}

// Read decodes an image from r, in any supported format.
func Read(r io.Reader) (image.Image, Formats, error) {
	im, name, err := image.Decode(r)
	if err != nil {
		return nil, None, err
	}
	f, err := ExtToFormat(name)
	return im, f, err
}

// Save saves the image to the given file, in the format given
// by its extension. WebP can only be read.
func Save(im image.Image, filename string) error {
	f, err := ExtToFormat(filepath.Ext(filename))
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	return writeClose(im, file, f)
}

// writeClose writes the image to wc through a buffer and closes wc,
// returning the first error from writing, flushing or closing.
func writeClose(im image.Image, wc io.WriteCloser, f Formats) (err error) {
	defer func() {
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriter(wc)
	if err = Write(im, bw, f); err != nil {
		return err
	}
	return bw.Flush()
}

// Write encodes the image to w in the given format.
func Write(im image.Image, w io.Writer, f Formats) error {
	if f <= None || int(f) >= len(formats) || formats[f].encode == nil {
		return fmt.Errorf("imagex: cannot write format %v", f)
	}
	return formats[f].encode(w, im)
}
