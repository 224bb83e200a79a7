// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"
	"slices"

	vk "github.com/goki/vulkan"
)

// DescriptorSet binds a fixed ordered list of buffers to the binding
// slots of a compute shader: buffer i goes to binding i of set 0.
// It owns its descriptor pool, set layout and one allocated set.
type DescriptorSet struct {
	dev vk.Device

	// pool the set is allocated from, sized exactly for Types
	Pool vk.DescriptorPool

	// layout with one binding per entry in Types
	Layout vk.DescriptorSetLayout

	// the allocated set
	Set vk.DescriptorSet

	// binding types, in binding order
	Types []BindingTypes

	// currently bound buffers
	bound []*Buffer
}

// NewDescriptorSet makes a descriptor set for the given binding types
// on the device of the given GPU.
func NewDescriptorSet(gp *GPU, types []BindingTypes) (ds *DescriptorSet, err error) {
	if len(types) == 0 {
		return nil, ErrNeedAtLeastOneBuffer
	}
	ds = &DescriptorSet{dev: gp.Device.Device, Types: slices.Clone(types)}
	defer func() {
		if err != nil {
			ds.Destroy()
			ds = nil
		}
	}()

	counts := make(map[BindingTypes]uint32)
	binds := make([]vk.DescriptorSetLayoutBinding, len(types))
	for i, bt := range types {
		counts[bt]++
		binds[i] = vk.DescriptorSetLayoutBinding{
			Binding:         uint32(i),
			DescriptorType:  bt.Descriptor(),
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageComputeBit),
		}
	}
	var pools []vk.DescriptorPoolSize
	for bt := StorageBinding; bt < BindingTypesN; bt++ {
		if n := counts[bt]; n > 0 {
			pools = append(pools, vk.DescriptorPoolSize{
				Type:            bt.Descriptor(),
				DescriptorCount: n,
			})
		}
	}

	var pool vk.DescriptorPool
	ret := vk.CreateDescriptorPool(ds.dev, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: uint32(len(pools)),
		PPoolSizes:    pools,
	}, nil, &pool)
	if err = checkResult(ErrDevice, ret); err != nil {
		return
	}
	ds.Pool = pool

	var layout vk.DescriptorSetLayout
	ret = vk.CreateDescriptorSetLayout(ds.dev, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(binds)),
		PBindings:    binds,
	}, nil, &layout)
	if err = checkResult(ErrDevice, ret); err != nil {
		return
	}
	ds.Layout = layout

	var set vk.DescriptorSet
	ret = vk.AllocateDescriptorSets(ds.dev, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     ds.Pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{ds.Layout},
	}, &set)
	if err = checkResult(ErrDevice, ret); err != nil {
		return
	}
	ds.Set = set
	return ds, nil
}

// Bind binds bufs[i] to binding i. The number of buffers must equal
// the number of binding types, otherwise [ErrBindingCountMismatch]
// is returned and the current bindings are left untouched.
func (ds *DescriptorSet) Bind(bufs []*Buffer) error {
	if len(bufs) != len(ds.Types) {
		return fmt.Errorf("%w: got %d buffers for %d bindings", ErrBindingCountMismatch, len(bufs), len(ds.Types))
	}
	for i, b := range bufs {
		if b == nil || b.Buffer == vk.NullBuffer {
			return fmt.Errorf("%w: buffer %d is nil or destroyed", ErrDevice, i)
		}
	}
	if ds.Set == nil {
		return fmt.Errorf("%w: descriptor set has been destroyed", ErrDevice)
	}
	writes := make([]vk.WriteDescriptorSet, len(bufs))
	for i, b := range bufs {
		writes[i] = vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          ds.Set,
			DstBinding:      uint32(i),
			DescriptorCount: 1,
			DescriptorType:  ds.Types[i].Descriptor(),
			PBufferInfo: []vk.DescriptorBufferInfo{{
				Buffer: b.Buffer,
				Offset: 0,
				Range:  vk.DeviceSize(vk.WholeSize),
			}},
		}
	}
	vk.UpdateDescriptorSets(ds.dev, uint32(len(writes)), writes, 0, nil)
	ds.bound = slices.Clone(bufs)
	return nil
}

// Bound returns the currently bound buffers, in binding order.
func (ds *DescriptorSet) Bound() []*Buffer {
	return ds.bound
}

// Destroy destroys the layout and then the pool, which frees the set.
// It is safe to call on a partially created or already destroyed set.
func (ds *DescriptorSet) Destroy() {
	if ds == nil {
		return
	}
	if ds.Layout != nil {
		vk.DestroyDescriptorSetLayout(ds.dev, ds.Layout, nil)
		ds.Layout = nil
	}
	if ds.Pool != nil {
		vk.DestroyDescriptorPool(ds.dev, ds.Pool, nil)
		ds.Pool = nil
	}
	ds.Set = nil
	ds.Types = nil
	ds.bound = nil
}
