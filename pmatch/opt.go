// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pmatch

import (
	"image"
	"math"
)

const four = 4

// cos2 returns the squared cosine similarity for the given sums,
// 1 if either vector is zero.
func cos2(dot, absA2, absB2 uint64) float64 {
	abs2 := float64(absA2) * float64(absB2)
	if abs2 == 0 {
		return 1
	}
	return float64(dot) * float64(dot) / abs2
}

// SearchGray is like [SearchRGBA], for grayscale images.
func SearchGray(img, pat *image.Gray) (maxX, maxY int, maxCos float64) {
	if !patchFits(img.Bounds(), pat.Bounds()) {
		panic(ErrPatchTooLarge)
	}
	sr := searchRect(img.Bounds(), pat.Bounds())
	m, n := sr.Dx(), sr.Dy()
	du, dv := pat.Bounds().Dx(), pat.Bounds().Dy()
	is, ps := img.Stride, pat.Stride

	var maxCos2 float64
	for y := 0; y < n; y++ {
		for x := 0; x < m; x++ {
			start := y*is + x
			var dot, absI2, absP2 uint64
			for v := 0; v < dv; v++ {
				rowI := img.Pix[start+v*is : start+v*is+du]
				rowP := pat.Pix[v*ps : v*ps+du]
				for u, pxI := range rowI {
					pxP := rowP[u]
					dot += uint64(pxI) * uint64(pxP)
					absI2 += uint64(pxI) * uint64(pxI)
					absP2 += uint64(pxP) * uint64(pxP)
				}
			}
			if c2 := cos2(dot, absI2, absP2); c2 > maxCos2 {
				maxCos2 = c2
				maxX, maxY = x, y
			}
		}
	}
	return maxX, maxY, math.Sqrt(maxCos2)
}

// CosSimGray returns the cosine similarity of two grayscale images
// of the same size. It panics if the sizes differ.
func CosSimGray(imA, imB *image.Gray) (cos float64) {
	if imA.Bounds().Size() != imB.Bounds().Size() {
		panic("pmatch: image sizes do not match")
	}
	du, dv := imB.Bounds().Dx(), imB.Bounds().Dy()
	as, bs := imA.Stride, imB.Stride

	var dot, absA2, absB2 uint64
	for v := 0; v < dv; v++ {
		rowA := imA.Pix[v*as : v*as+du]
		rowB := imB.Pix[v*bs : v*bs+du]
		for u, pxA := range rowA {
			pxB := rowB[u]
			dot += uint64(pxA) * uint64(pxB)
			absA2 += uint64(pxA) * uint64(pxA)
			absB2 += uint64(pxB) * uint64(pxB)
		}
	}
	return math.Sqrt(cos2(dot, absA2, absB2))
}

// CosSimRGBA is like [CosSimGray], for RGBA images. Alpha is ignored.
func CosSimRGBA(imA, imB *image.RGBA) (cos float64) {
	if imA.Bounds().Size() != imB.Bounds().Size() {
		panic("pmatch: image sizes do not match")
	}
	du, dv := imB.Bounds().Dx(), imB.Bounds().Dy()
	as, bs := imA.Stride, imB.Stride

	var dot, absA2, absB2 uint64
	for v := 0; v < dv; v++ {
		rowA := imA.Pix[v*as : v*as+du*four]
		rowB := imB.Pix[v*bs : v*bs+du*four]
		for i := 0; i < len(rowA); i += four {
			for rgb := 0; rgb < 3; rgb++ {
				pxA, pxB := rowA[i+rgb], rowB[i+rgb]
				dot += uint64(pxA) * uint64(pxB)
				absA2 += uint64(pxA) * uint64(pxA)
				absB2 += uint64(pxB) * uint64(pxB)
			}
		}
	}
	return math.Sqrt(cos2(dot, absA2, absB2))
}

// SearchRGBA returns the position of pat in img with the highest
// cosine similarity, relative to the image origin, and that similarity.
// Ties go to the first position in row-major order. Alpha is ignored.
// It gives the same results as [SearchRGBASlow], indexing the pixel
// slices directly. It panics if the patch is larger than the image.
func SearchRGBA(img, pat *image.RGBA) (maxX, maxY int, maxCos float64) {
	if !patchFits(img.Bounds(), pat.Bounds()) {
		panic(ErrPatchTooLarge)
	}
	sr := searchRect(img.Bounds(), pat.Bounds())
	m, n := sr.Dx(), sr.Dy()
	du, dv := pat.Bounds().Dx(), pat.Bounds().Dy()
	is, ps := img.Stride, pat.Stride

	var maxCos2 float64
	for y := 0; y < n; y++ {
		for x := 0; x < m; x++ {
			start := y*is + x*four
			var dot, absI2, absP2 uint64
			for v := 0; v < dv; v++ {
				rowI := img.Pix[start+v*is : start+v*is+du*four]
				rowP := pat.Pix[v*ps : v*ps+du*four]
				for i := 0; i < len(rowI); i += four {
					for rgb := 0; rgb < 3; rgb++ {
						pxI, pxP := rowI[i+rgb], rowP[i+rgb]
						dot += uint64(pxI) * uint64(pxP)
						absI2 += uint64(pxI) * uint64(pxI)
						absP2 += uint64(pxP) * uint64(pxP)
					}
				}
			}
			if c2 := cos2(dot, absI2, absP2); c2 > maxCos2 {
				maxCos2 = c2
				maxX, maxY = x, y
			}
		}
	}
	return maxX, maxY, math.Sqrt(maxCos2)
}
