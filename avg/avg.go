// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package avg computes the average pixel value of an image and the
// mean absolute deviation of pixels from it, scaled to [0, 1].
// The average is truncated to an integer pixel value before the
// deviation is computed. Empty images give zeros.
package avg

import "image"

func iabs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

// GraySlow computes the pixel average and mean deviation from average
// of a grayscale image, one pixel at a time through GrayAt.
func GraySlow(img *image.Gray) (avg, avgDev float64) {
	b := img.Bounds()
	cnt := int64(b.Dx() * b.Dy())
	if cnt == 0 {
		return 0, 0
	}
	var sum int64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += int64(img.GrayAt(x, y).Y)
		}
	}
	avgPx := sum / cnt

	sum = 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += iabs(int64(img.GrayAt(x, y).Y) - avgPx)
		}
	}
	return float64(avgPx) / 255, float64(sum) / float64(cnt) / 255
}

// Gray is [GraySlow] indexing Pix directly.
func Gray(img *image.Gray) (avg, avgDev float64) {
	m, n := img.Bounds().Dx(), img.Bounds().Dy()
	cnt := int64(m * n)
	if cnt == 0 {
		return 0, 0
	}
	s := img.Stride

	var sum int64
	for y := 0; y < n; y++ {
		row := img.Pix[y*s : y*s+m]
		for _, px := range row {
			sum += int64(px)
		}
	}
	avgPx := sum / cnt

	sum = 0
	for y := 0; y < n; y++ {
		row := img.Pix[y*s : y*s+m]
		for _, px := range row {
			sum += iabs(int64(px) - avgPx)
		}
	}
	return float64(avgPx) / 255, float64(sum) / float64(cnt) / 255
}

// RGBA computes the pixel average and mean deviation from average
// of an RGBA image, per color channel. Alpha is ignored.
func RGBA(img *image.RGBA) (avg, avgDev [3]float64) {
	m, n := img.Bounds().Dx(), img.Bounds().Dy()
	cnt := int64(m * n)
	if cnt == 0 {
		return
	}
	s := img.Stride

	var sum [3]int64
	for y := 0; y < n; y++ {
		row := img.Pix[y*s : y*s+m*4]
		for ix := 0; ix < len(row); ix += 4 {
			sum[0] += int64(row[ix+0])
			sum[1] += int64(row[ix+1])
			sum[2] += int64(row[ix+2])
		}
	}
	var avgPx [3]int64
	for c := range avgPx {
		avgPx[c] = sum[c] / cnt
	}

	sum = [3]int64{}
	for y := 0; y < n; y++ {
		row := img.Pix[y*s : y*s+m*4]
		for ix := 0; ix < len(row); ix += 4 {
			sum[0] += iabs(int64(row[ix+0]) - avgPx[0])
			sum[1] += iabs(int64(row[ix+1]) - avgPx[1])
			sum[2] += iabs(int64(row[ix+2]) - avgPx[2])
		}
	}
	for c := range avg {
		avg[c] = float64(avgPx[c]) / 255
		avgDev[c] = float64(sum[c]) / float64(cnt) / 255
	}
	return
}
