// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pmatch

import (
	"image"
	"math"
)

// imgPatchWindow returns the part of img under pat placed at offset
// from the image origin.
func imgPatchWindow(img, pat *image.RGBA, offset image.Point) *image.RGBA {
	window := pat.Bounds().
		Sub(pat.Bounds().Min).
		Add(img.Bounds().Min).
		Add(offset).
		Intersect(img.Bounds())
	if window.Size() != pat.Bounds().Size() {
		panic("pmatch: patch not fully contained in image")
	}
	return img.SubImage(window).(*image.RGBA)
}

// ScoreRGBACosSlow returns the cosine similarity of pat with the part
// of img under it when placed at offset from the image origin.
// It is 1 if either is all black. Alpha is ignored.
// This is a slow implementation, used as ground truth for testing.
func ScoreRGBACosSlow(img, pat *image.RGBA, offset image.Point) (cos float64) {
	img = imgPatchWindow(img, pat, offset)

	var dot, absI2, absP2 uint64
	for y := 0; y < pat.Rect.Dy(); y++ {
		for x := 0; x < pat.Rect.Dx(); x++ {
			pxI := img.RGBAAt(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
			pxP := pat.RGBAAt(pat.Bounds().Min.X+x, pat.Bounds().Min.Y+y)

			dot += uint64(pxI.R) * uint64(pxP.R)
			dot += uint64(pxI.G) * uint64(pxP.G)
			dot += uint64(pxI.B) * uint64(pxP.B)

			absI2 += uint64(pxI.R) * uint64(pxI.R)
			absI2 += uint64(pxI.G) * uint64(pxI.G)
			absI2 += uint64(pxI.B) * uint64(pxI.B)

			absP2 += uint64(pxP.R) * uint64(pxP.R)
			absP2 += uint64(pxP.G) * uint64(pxP.G)
			absP2 += uint64(pxP.B) * uint64(pxP.B)
		}
	}

	abs2 := float64(absI2) * float64(absP2)
	if abs2 == 0 {
		return 1
	}
	return float64(dot) / math.Sqrt(abs2)
}

// SearchRGBASlow returns the position of pat in img with the highest
// [ScoreRGBACosSlow], relative to the image origin, and that score.
// Ties go to the first position in row-major order.
// It panics if the patch is larger than the image.
func SearchRGBASlow(img, pat *image.RGBA) (maxX, maxY int, maxCos float64) {
	if !patchFits(img.Bounds(), pat.Bounds()) {
		panic(ErrPatchTooLarge)
	}
	sr := searchRect(img.Bounds(), pat.Bounds())
	for y := 0; y < sr.Dy(); y++ {
		for x := 0; x < sr.Dx(); x++ {
			cos := ScoreRGBACosSlow(img, pat, image.Pt(x, y))
			if cos > maxCos {
				maxCos = cos
				maxX, maxY = x, y
			}
		}
	}
	return
}
