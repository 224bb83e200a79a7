// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pmatch

import (
	"fmt"
	"image"

	"cogentcore.org/vcompute/vgpu"
)

// Kinds of [Instance].
const (
	KindCPU = "cpu"
	KindVk  = "vk"
)

// Instance is the common interface for the RGBA search implementations.
type Instance interface {
	// SearchRGBA returns the position of pat in img with the highest
	// cosine similarity, and that similarity.
	SearchRGBA(img, pat *image.RGBA) (maxX, maxY int, maxCos float64, err error)

	// Kind returns the kind of search, KindCPU or KindVk.
	Kind() string

	// Destroy frees any resources held by the instance.
	Destroy()
}

// CPU implements [Instance] with [SearchRGBA].
type CPU struct{}

func (p *CPU) SearchRGBA(img, pat *image.RGBA) (maxX, maxY int, maxCos float64, err error) {
	if !patchFits(img.Bounds(), pat.Bounds()) {
		return 0, 0, 0, ErrPatchTooLarge
	}
	maxX, maxY, maxCos = SearchRGBA(img, pat)
	return
}

func (p *CPU) Kind() string { return KindCPU }

func (p *CPU) Destroy() {}

// Vk implements [Instance] with a [SearchVk].
type Vk struct {
	*SearchVk
}

func (p *Vk) SearchRGBA(img, pat *image.RGBA) (maxX, maxY int, maxCos float64, err error) {
	return p.Run(img, pat)
}

func (p *Vk) Kind() string { return KindVk }

var (
	_ Instance = (*CPU)(nil)
	_ Instance = (*Vk)(nil)
)

// NewInstance returns an Instance of the given kind, for images and
// patches of the given bounds and strides. The GPU options are only
// used for KindVk; nil means the defaults.
func NewInstance(kind string, imgBounds, patBounds image.Rectangle, imgStride, patStride int, opts *vgpu.GPUOptions) (Instance, error) {
	switch kind {
	case KindCPU:
		return &CPU{}, nil
	case KindVk:
		s, err := NewSearchVkOptions(imgBounds, patBounds, imgStride, patStride, opts)
		if err != nil {
			return nil, err
		}
		return &Vk{SearchVk: s}, nil
	}
	return nil, fmt.Errorf("pmatch: unknown instance kind %q", kind)
}
