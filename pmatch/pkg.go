// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pmatch searches an RGBA image for the position of a smaller
// patch, scoring every placement of the patch by the cosine similarity
// of its RGB values with the image under it. Alpha is ignored.
//
// There are three implementations of the search, which all return
// the first position of the maximum score in row-major order:
//
//  1. [SearchRGBASlow], a naive version used as ground truth.
//  2. [SearchRGBA], indexing pixels directly.
//  3. [SearchVk], running a compute kernel through package vgpu.
//
// [Instance] abstracts over the CPU and GPU versions.
package pmatch

import (
	"image"

	"cogentcore.org/vcompute/base/errors"
)

var (
	// ErrPatchTooLarge is returned when the patch is larger than the
	// image in either dimension.
	ErrPatchTooLarge = errors.New("pmatch: patch too large")

	// ErrShapeMismatch is returned by [SearchVk.Run] for images whose
	// size or stride differs from the ones it was made for.
	ErrShapeMismatch = errors.New("pmatch: img/pat shape does not match search state")
)

// searchRect returns the rectangle of patch positions in image coordinates.
func searchRect(imgBounds, patBounds image.Rectangle) image.Rectangle {
	return image.Rectangle{
		Min: imgBounds.Min,
		Max: imgBounds.Max.Sub(patBounds.Size()).Add(image.Pt(1, 1)),
	}
}

func patchFits(imgBounds, patBounds image.Rectangle) bool {
	return patBounds.Dx() <= imgBounds.Dx() && patBounds.Dy() <= imgBounds.Dy()
}
