// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	vk "github.com/goki/vulkan"
)

// BindingTypes are the kinds of descriptor bindings a [DescriptorSet]
// can hold, one per bound buffer.
type BindingTypes int32

const (
	// StorageBinding is a storage buffer: read-write, any size.
	// This is the binding type used for all compute buffers.
	StorageBinding BindingTypes = iota

	// UniformBinding is a uniform buffer: read-only, small.
	UniformBinding

	BindingTypesN
)

// Descriptor returns the Vulkan descriptor type for this binding type.
func (bt BindingTypes) Descriptor() vk.DescriptorType {
	switch bt {
	case UniformBinding:
		return vk.DescriptorTypeUniformBuffer
	default:
		return vk.DescriptorTypeStorageBuffer
	}
}

func (bt BindingTypes) String() string {
	switch bt {
	case StorageBinding:
		return "Storage"
	case UniformBinding:
		return "Uniform"
	}
	return "BindingTypes(?)"
}

// StorageBindings returns n [StorageBinding] types.
func StorageBindings(n int) []BindingTypes {
	return make([]BindingTypes, n)
}
