// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pmatch

import (
	"encoding/binary"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"cogentcore.org/vcompute/vgpu"
)

// number of uint32 values pushed with each run
const numDims = 6

// SearchVk holds the GPU state for repeated patch searches of images
// and patches of fixed sizes and strides. Use [NewSearchVk] to make one,
// and Destroy when done.
type SearchVk struct {
	mu sync.Mutex

	// positions searched, in image coordinates
	searchRect image.Rectangle

	imgSize, patSize     image.Point
	imgStride, patStride int

	gp     *vgpu.GPU
	ownGPU bool

	scoresBuf *vgpu.Buffer
	imgBuf    *vgpu.Buffer
	patBuf    *vgpu.Buffer
	pipe      *vgpu.Pipeline

	// search_w, search_h, pat_w, pat_h, img_stride, pat_stride
	dims []byte
}

// NewSearchVk makes a SearchVk on a new GPU for images and patches
// with the given bounds and strides in bytes, optionally with the
// Vulkan validation layer enabled.
func NewSearchVk(imgBounds, patBounds image.Rectangle, imgStride, patStride int, validate bool) (*SearchVk, error) {
	return NewSearchVkOptions(imgBounds, patBounds, imgStride, patStride, &vgpu.GPUOptions{Validate: validate, AppName: "pmatch"})
}

// NewSearchVkOptions is [NewSearchVk] with all of the GPU options.
// The GPU is destroyed along with the SearchVk.
func NewSearchVkOptions(imgBounds, patBounds image.Rectangle, imgStride, patStride int, opts *vgpu.GPUOptions) (*SearchVk, error) {
	if err := checkShape(imgBounds, patBounds, imgStride, patStride); err != nil {
		return nil, err
	}
	gp, err := vgpu.NewGPU(opts)
	if err != nil {
		return nil, err
	}
	s, err := NewSearchVkGPU(gp, imgBounds, patBounds, imgStride, patStride)
	if err != nil {
		gp.Destroy()
		return nil, err
	}
	s.ownGPU = true
	return s, nil
}

// NewSearchVkGPU makes a SearchVk on an existing GPU,
// which is not destroyed along with it.
func NewSearchVkGPU(gp *vgpu.GPU, imgBounds, patBounds image.Rectangle, imgStride, patStride int) (s *SearchVk, err error) {
	if err := checkShape(imgBounds, patBounds, imgStride, patStride); err != nil {
		return nil, err
	}
	code, err := Shader()
	if err != nil {
		return nil, err
	}
	s = &SearchVk{
		searchRect: searchRect(imgBounds, patBounds),
		imgSize:    imgBounds.Size(),
		patSize:    patBounds.Size(),
		imgStride:  imgStride,
		patStride:  patStride,
		gp:         gp,
	}
	defer func() {
		if err != nil {
			s.Destroy()
			s = nil
		}
	}()

	sw, sh := s.searchRect.Dx(), s.searchRect.Dy()
	if s.scoresBuf, err = gp.NewBuffer(vgpu.SizeOf[float32](sw * sh)); err != nil {
		return
	}
	if s.imgBuf, err = gp.NewBuffer(bufSize(s.imgSize, imgStride)); err != nil {
		return
	}
	if s.patBuf, err = gp.NewBuffer(bufSize(s.patSize, patStride)); err != nil {
		return
	}
	s.dims = pushDims(sw, sh, s.patSize.X, s.patSize.Y, imgStride/four, patStride/four)

	s.pipe, err = gp.NewPipeline(vgpu.PipelineConfig{
		Shader:           code,
		Buffers:          []*vgpu.Buffer{s.scoresBuf, s.imgBuf, s.patBuf},
		PushConstantSize: len(s.dims),
		SpecConstants: []int32{
			localSizeX, localSizeY, localSizeZ,
			int32(sw), int32(sh),
			int32(s.patSize.X), int32(s.patSize.Y),
		},
	})
	if err != nil {
		return
	}
	slog.Debug("pmatch: vk search ready", "device", gp.Name, "search", s.searchRect.Size(), "patch", s.patSize)
	return s, nil
}

// pushDims encodes the kernel dimensions as the little endian
// push constant block of the search kernel.
func pushDims(dims ...int) []byte {
	b := make([]byte, 0, numDims*four)
	for _, d := range dims {
		b = binary.LittleEndian.AppendUint32(b, uint32(d))
	}
	return b
}

// checkShape checks that the patch fits in the image, and that the
// strides cover whole rows of 4-byte pixels.
func checkShape(imgBounds, patBounds image.Rectangle, imgStride, patStride int) error {
	if patBounds.Empty() {
		return fmt.Errorf("%w: empty patch %v", ErrShapeMismatch, patBounds)
	}
	if !patchFits(imgBounds, patBounds) {
		return fmt.Errorf("%w: patch %v in image %v", ErrPatchTooLarge, patBounds.Size(), imgBounds.Size())
	}
	if imgStride < imgBounds.Dx()*four || imgStride%four != 0 {
		return fmt.Errorf("%w: image stride %d for width %d", ErrShapeMismatch, imgStride, imgBounds.Dx())
	}
	if patStride < patBounds.Dx()*four || patStride%four != 0 {
		return fmt.Errorf("%w: patch stride %d for width %d", ErrShapeMismatch, patStride, patBounds.Dx())
	}
	return nil
}

// bufSize returns the number of bytes spanned by the pixels of an
// RGBA image of the given size and stride, which is less than
// h*stride for sub images.
func bufSize(size image.Point, stride int) int {
	if size.X == 0 || size.Y == 0 {
		return 0
	}
	return (size.Y-1)*stride + size.X*four
}

// Run searches img for pat, which must have the bounds sizes and strides
// given when making s. It returns the first position of the highest
// cosine similarity in row-major order, relative to the image origin,
// and that similarity.
func (s *SearchVk) Run(img, pat *image.RGBA) (maxX, maxY int, maxCos float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipe == nil {
		return 0, 0, 0, fmt.Errorf("%w: search has been destroyed", vgpu.ErrDevice)
	}
	if img.Bounds().Size() != s.imgSize || pat.Bounds().Size() != s.patSize ||
		img.Stride != s.imgStride || pat.Stride != s.patStride {
		return 0, 0, 0, ErrShapeMismatch
	}

	if err = s.scoresBuf.Zero(); err != nil {
		return
	}
	if err = s.imgBuf.Write(img.Pix[:s.imgBuf.Size()]); err != nil {
		return
	}
	if err = s.patBuf.Write(pat.Pix[:s.patBuf.Size()]); err != nil {
		return
	}

	sw, sh := s.searchRect.Dx(), s.searchRect.Dy()
	err = s.pipe.Run([3]int{sw/localSizeX + 1, sh/localSizeY + 1, 1}, s.dims)
	if err != nil {
		return
	}

	scores, err := vgpu.ReadSlice[float32](s.scoresBuf, sw*sh)
	if err != nil {
		return
	}
	maxX, maxY, maxCos = argmax(scores, sw)
	return
}

// argmax returns the position of the first maximum of the positive
// scores of rows of the given width, and that maximum.
func argmax(scores []float32, width int) (maxX, maxY int, maxCos float64) {
	var mx float32
	for i, sc := range scores {
		if sc > mx {
			mx = sc
			maxX, maxY = i%width, i/width
		}
	}
	return maxX, maxY, float64(mx)
}

// Destroy destroys the pipeline and buffers, and the GPU if it was
// made by NewSearchVk. It is safe to call more than once.
func (s *SearchVk) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipe.Destroy()
	s.pipe = nil
	for _, b := range []*vgpu.Buffer{s.patBuf, s.imgBuf, s.scoresBuf} {
		b.Destroy()
	}
	s.patBuf, s.imgBuf, s.scoresBuf = nil, nil, nil
	if s.ownGPU {
		s.gp.Destroy()
	}
	s.gp = nil
}
