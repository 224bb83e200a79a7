// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package imutil has image helpers for patch matching: conversion to
// RGBA and grayscale, sub images, random test images, and loading and
// dumping image files.
package imutil

import (
	"image"
	"image/draw"

	"cogentcore.org/vcompute/base/errors"
	"cogentcore.org/vcompute/base/iox/imagex"
	"cogentcore.org/vcompute/base/randx"
	"github.com/mitchellh/go-homedir"
)

// ToRGBA returns a copy of img as RGBA, with the same bounds.
func ToRGBA(img image.Image) *image.RGBA {
	return imagex.CloneAsRGBA(img)
}

// ToGray returns a copy of img converted to grayscale,
// with the origin of its bounds reset to 0.
func ToGray(img image.Image) *image.Gray {
	ret := image.NewGray(img.Bounds().Sub(img.Bounds().Min))
	draw.Draw(ret, ret.Bounds(), img, img.Bounds().Min, draw.Src)
	return ret
}

// RGBAReset0 returns a copy of img with the origin of its bounds reset to 0.
func RGBAReset0(img *image.RGBA) *image.RGBA {
	ret := image.NewRGBA(img.Bounds().Sub(img.Bounds().Min))
	draw.Draw(ret, ret.Bounds(), img, img.Bounds().Min, draw.Src)
	return ret
}

// ErrNoSubImage is returned by [Sub] for images without a SubImage method.
var ErrNoSubImage = errors.New("imutil: image does not implement SubImage")

// Sub returns the part of img within r, sharing its pixels.
func Sub(img image.Image, r image.Rectangle) (image.Image, error) {
	si, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, ErrNoSubImage
	}
	return si.SubImage(r), nil
}

// RandGray returns a w x h grayscale image of random pixels
// from the given seed.
func RandGray(seed int64, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	randx.NewSysRand(seed).Fill(img.Pix)
	return img
}

// RandRGBA returns a w x h RGBA image of random pixels,
// alpha included, from the given seed.
func RandRGBA(seed int64, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	randx.NewSysRand(seed).Fill(img.Pix)
	return img
}

// Load opens the image in the given file, in any format imagex reads.
// A leading ~ in path is expanded to the home directory.
func Load(path string) (image.Image, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	img, _, err := imagex.Open(path)
	return img, err
}

// Dump saves img to the given file, in the format given by its extension.
func Dump(path string, img image.Image) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	return imagex.Save(img, path)
}
