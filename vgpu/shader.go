// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"encoding/binary"
	"fmt"

	vk "github.com/goki/vulkan"
)

// ValidateShader checks that code can be a SPIR-V binary: it must be
// non-empty and a whole number of 32-bit words.
func ValidateShader(code []byte) error {
	switch {
	case len(code) == 0:
		return fmt.Errorf("%w: empty shader code", ErrInvalidShader)
	case len(code)%4 != 0:
		return fmt.Errorf("%w: shader code length %d is not a multiple of 4", ErrInvalidShader, len(code))
	}
	return nil
}

// SliceUint32 returns the SPIR-V words of data, which must already
// have been checked with [ValidateShader]. The words are copied so that
// data need not be 4-byte aligned.
func SliceUint32(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return words
}

// NewShaderModule makes a shader module from SPIR-V code.
func NewShaderModule(dev vk.Device, code []byte) (vk.ShaderModule, error) {
	if err := ValidateShader(code); err != nil {
		return nil, err
	}
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(dev, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)),
		PCode:    SliceUint32(code),
	}, nil, &module)
	if err := checkResult(ErrInvalidShader, ret); err != nil {
		return nil, err
	}
	return module, nil
}
