// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import (
	"image"
	"image/draw"
)

// CloneAsRGBA returns an RGBA copy of the supplied image,
// with the same bounds.
func CloneAsRGBA(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	bounds := src.Bounds()
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, src, bounds.Min, draw.Src)
	return img
}

// AsRGBA returns the image as an RGBA: if it already is one, then
// it returns that image directly. Otherwise it returns a clone.
func AsRGBA(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	return CloneAsRGBA(src)
}

// CloneAsGray returns a grayscale copy of the supplied image,
// with the same bounds, using the standard luma conversion.
func CloneAsGray(src image.Image) *image.Gray {
	if src == nil {
		return nil
	}
	bounds := src.Bounds()
	img := image.NewGray(bounds)
	draw.Draw(img, bounds, src, bounds.Min, draw.Src)
	return img
}

// AsGray returns the image as a Gray: if it already is one, then
// it returns that image directly. Otherwise it returns a clone.
func AsGray(src image.Image) *image.Gray {
	if src == nil {
		return nil
	}
	if gray, ok := src.(*image.Gray); ok {
		return gray
	}
	return CloneAsGray(src)
}
