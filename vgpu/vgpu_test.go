// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"encoding/binary"
	"runtime"
	"testing"

	"cogentcore.org/vcompute/base/errors"
	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectDevice(t *testing.T) {
	tests := []struct {
		name  string
		types []vk.PhysicalDeviceType
		want  int
	}{
		{"discrete", []vk.PhysicalDeviceType{vk.PhysicalDeviceTypeDiscreteGpu}, 0},
		{"skip cpu", []vk.PhysicalDeviceType{vk.PhysicalDeviceTypeCpu, vk.PhysicalDeviceTypeIntegratedGpu}, 1},
		{"skip other", []vk.PhysicalDeviceType{vk.PhysicalDeviceTypeOther, vk.PhysicalDeviceTypeCpu, vk.PhysicalDeviceTypeVirtualGpu}, 2},
		{"first wins", []vk.PhysicalDeviceType{vk.PhysicalDeviceTypeIntegratedGpu, vk.PhysicalDeviceTypeDiscreteGpu}, 0},
		{"only software", []vk.PhysicalDeviceType{vk.PhysicalDeviceTypeCpu, vk.PhysicalDeviceTypeOther}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectDevice(tt.types)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SelectDevice(nil)
	assert.ErrorIs(t, err, ErrDevice)
}

func TestHasName(t *testing.T) {
	layers := []string{"VK_LAYER_MESA_device_select", ValidationLayer}
	assert.True(t, HasName(layers, ValidationLayer))
	assert.False(t, HasName(layers, "VK_LAYER_KHRONOS"))
	assert.False(t, HasName(layers, ValidationLayer+"_extra"))
	assert.False(t, HasName(nil, ValidationLayer))

	existing, missing := CheckExisting(layers, []string{ValidationLayer, "VK_LAYER_missing"})
	assert.Equal(t, []string{ValidationLayer + "\x00"}, existing)
	assert.Equal(t, 1, missing)
}

func TestCheckValidation(t *testing.T) {
	assert.NoError(t, CheckValidation([]string{ValidationLayer}, []string{"VK_KHR_surface", DebugReportExt}))
	assert.ErrorIs(t, CheckValidation(nil, []string{DebugReportExt}), ErrDevice)
	assert.ErrorIs(t, CheckValidation([]string{ValidationLayer}, nil), ErrDevice)
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "main\x00", SafeString("main"))
	assert.Equal(t, "main\x00", SafeString("main\x00"))
	assert.Equal(t, "\x00", SafeString(""))
}

func TestDecodeVersion(t *testing.T) {
	v := DecodeVersion(uint32(vk.MakeVersion(1, 3, 275)))
	assert.Equal(t, APIVersion{Major: 1, Minor: 3, Patch: 275}, v)
	assert.Equal(t, "1.3.275", v.String())

	v = DecodeVersion(1<<29 | 2<<22 | 7<<12 | 9)
	assert.Equal(t, APIVersion{Variant: 1, Major: 2, Minor: 7, Patch: 9}, v)
}

func TestDeviceString(t *testing.T) {
	var props vk.PhysicalDeviceProperties
	copy(props.DeviceName[:], "Test GPU")
	props.VendorID = 4318
	props.DeviceID = 8711
	props.DriverVersion = 42
	props.ApiVersion = uint32(vk.MakeVersion(1, 2, 3))
	props.DeviceType = vk.PhysicalDeviceTypeDiscreteGpu
	assert.Equal(t, "name='Test GPU' vendor_id=4318 device_id=8711 driver_version=42 variant=0 api_version=1.2.3 type=2", DeviceString(props))
}

func TestFindQueueFamily(t *testing.T) {
	family := func(flags vk.QueueFlagBits, count uint32) vk.QueueFamilyProperties {
		return vk.QueueFamilyProperties{QueueFlags: vk.QueueFlags(flags), QueueCount: count}
	}
	families := []vk.QueueFamilyProperties{
		family(vk.QueueTransferBit, 2),
		family(vk.QueueComputeBit, 0),
		family(vk.QueueGraphicsBit|vk.QueueComputeBit, 1),
		family(vk.QueueComputeBit, 4),
	}
	idx, ok := FindQueueFamily(families, vk.QueueComputeBit)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), idx)

	_, ok = FindQueueFamily(families[:2], vk.QueueComputeBit)
	assert.False(t, ok, "a compute family without queues is not usable")
	_, ok = FindQueueFamily(families[:1], vk.QueueComputeBit)
	assert.False(t, ok)
	_, ok = FindQueueFamily(nil, vk.QueueComputeBit)
	assert.False(t, ok)
}

func TestFindRequiredMemoryType(t *testing.T) {
	var props vk.PhysicalDeviceMemoryProperties
	props.MemoryTypeCount = 3
	props.MemoryTypes[0].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	props.MemoryTypes[1].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	props.MemoryTypes[2].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	host := vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit

	idx, ok := FindRequiredMemoryType(props, 0b111, host)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), idx)

	_, ok = FindRequiredMemoryType(props, 0b011, host)
	assert.False(t, ok, "type 1 is visible but not coherent")
}

func TestEncodeSpecConstants(t *testing.T) {
	sc := EncodeSpecConstants([]int32{7, 3, -1})
	require.Equal(t, 3, sc.Len())
	for i, e := range sc.Entries {
		assert.Equal(t, uint32(i), e.ConstantID)
		assert.Equal(t, uint32(4*i), e.Offset)
		assert.EqualValues(t, 4, e.Size)
	}
	assert.Equal(t, []byte{7, 0, 0, 0, 3, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}, sc.Data)

	var pin runtime.Pinner
	defer pin.Unpin()
	info := sc.Info(&pin)
	require.Len(t, info, 1)
	assert.Equal(t, uint32(3), info[0].MapEntryCount)
	assert.EqualValues(t, 12, info[0].DataSize)
	assert.NotNil(t, info[0].PData)

	empty := EncodeSpecConstants(nil)
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Data)
	assert.Nil(t, empty.Info(&pin))
}

func TestBindingTypes(t *testing.T) {
	assert.Equal(t, vk.DescriptorTypeStorageBuffer, StorageBinding.Descriptor())
	assert.Equal(t, vk.DescriptorTypeUniformBuffer, UniformBinding.Descriptor())
	assert.Equal(t, "Storage", StorageBinding.String())
	assert.Equal(t, "Uniform", UniformBinding.String())
	assert.Equal(t, []BindingTypes{StorageBinding, StorageBinding, StorageBinding}, StorageBindings(3))
	assert.Empty(t, StorageBindings(0))
}

func TestValidateShader(t *testing.T) {
	assert.NoError(t, ValidateShader(make([]byte, 8)))
	assert.ErrorIs(t, ValidateShader(nil), ErrInvalidShader)
	assert.ErrorIs(t, ValidateShader(make([]byte, 6)), ErrInvalidShader)
	assert.ErrorIs(t, ValidateShader(make([]byte, 3)), ErrInvalidShader)

	code := make([]byte, 9)
	binary.LittleEndian.PutUint32(code[1:], 0x07230203)
	binary.LittleEndian.PutUint32(code[5:], 0x00010300)
	assert.Equal(t, []uint32{0x07230203, 0x00010300}, SliceUint32(code[1:]))
}

func TestSizeMismatch(t *testing.T) {
	b := &Buffer{size: 16}
	assert.Equal(t, 16, b.Size())
	assert.ErrorIs(t, b.Write(make([]byte, 15)), ErrSizeMismatch)
	assert.ErrorIs(t, b.Write(make([]byte, 17)), ErrSizeMismatch)
	_, err := b.Read(8)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.ErrorIs(t, b.ReadInto(make([]byte, 32)), ErrSizeMismatch)

	_, err = ReadSlice[float32](b, 3)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.ErrorIs(t, WriteSlice(b, []uint32{1, 2, 3, 4, 5}), ErrSizeMismatch)

	// right size, but never allocated
	assert.ErrorIs(t, b.Write(make([]byte, 16)), ErrDevice)
}

func TestBindCountMismatch(t *testing.T) {
	ds := &DescriptorSet{Types: StorageBindings(2)}
	err := ds.Bind([]*Buffer{{size: 4}})
	assert.ErrorIs(t, err, ErrBindingCountMismatch)
	err = ds.Bind([]*Buffer{{size: 4}, {size: 4}, {size: 4}})
	assert.ErrorIs(t, err, ErrBindingCountMismatch)
	assert.Nil(t, ds.Bound())
	assert.Len(t, ds.Types, 2)
}

func TestDescriptorSetDestroy(t *testing.T) {
	var ds *DescriptorSet
	ds.Destroy()
	ds = &DescriptorSet{Types: StorageBindings(1)}
	ds.Destroy()
	ds.Destroy()
	assert.Nil(t, ds.Types)
}

func TestRunPushTooLarge(t *testing.T) {
	pl := &Pipeline{PushConstantSize: 8}
	err := pl.Run([3]int{1, 1, 1}, make([]byte, 12))
	assert.ErrorIs(t, err, ErrSubmission)
	err = pl.Run([3]int{1, 1, 1}, make([]byte, 6))
	assert.ErrorIs(t, err, ErrSubmission)
	err = pl.Run([3]int{1, -1, 1}, nil)
	assert.ErrorIs(t, err, ErrSubmission)
	err = pl.Run([3]int{1, 1, 1}, make([]byte, 8))
	assert.ErrorIs(t, err, ErrSubmission, "never built")
}

func TestWarps(t *testing.T) {
	assert.Equal(t, 1, Warps(1, 64))
	assert.Equal(t, 1, Warps(64, 64))
	assert.Equal(t, 2, Warps(65, 64))
	assert.Equal(t, 0, Warps(0, 4))
}

func TestError(t *testing.T) {
	assert.Nil(t, NewError(vk.Success))
	assert.False(t, IsError(vk.Success))
	assert.True(t, IsError(vk.ErrorDeviceLost))

	err := checkResult(ErrDevice, vk.ErrorOutOfDeviceMemory)
	assert.ErrorIs(t, err, ErrDevice)
	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, vk.ErrorOutOfDeviceMemory, ve.Result)
	assert.Contains(t, ve.Frame, "TestError")
	assert.Contains(t, err.Error(), "vgpu: device error")
	assert.Nil(t, checkResult(ErrDevice, vk.Success))
}
