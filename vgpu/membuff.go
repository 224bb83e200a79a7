// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"
	"log/slog"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// minBufferSize is the native size used for buffers declared with
// size 0, which Vulkan does not allow.
const minBufferSize = 4

// Buffer is a storage buffer that compute shaders can read and write,
// backed by host visible, host coherent memory so that no explicit
// flush is needed. Its size is fixed at creation and every Read and
// Write must be of exactly that size.
//
// Read and Write must not overlap with a [Pipeline.Run] using the buffer;
// Run only returns once the device is done with it.
type Buffer struct {
	gp *GPU

	// native buffer
	Buffer vk.Buffer

	// native memory bound to Buffer
	Memory vk.DeviceMemory

	// declared size in bytes
	size int
}

// NewBuffer makes a new storage buffer of given size in bytes.
// The buffer is destroyed by Destroy or by [GPU.Destroy].
func (gp *GPU) NewBuffer(size int) (b *Buffer, err error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative buffer size %d", ErrSizeMismatch, size)
	}
	b = &Buffer{gp: gp, size: size}
	defer func() {
		if err != nil {
			b.free()
			b = nil
		}
	}()
	dev := gp.Device.Device
	b.Buffer, err = NewVkBuffer(dev, max(size, minBufferSize), vk.BufferUsageStorageBufferBit)
	if err != nil {
		return
	}
	b.Memory, err = AllocBuffMem(gp, dev, b.Buffer, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return
	}
	gp.addBuffer(b)
	return b, nil
}

// Size returns the declared size of the buffer in bytes.
func (b *Buffer) Size() int {
	return b.size
}

// Write copies data into the buffer. The length of data must equal
// the buffer size, otherwise [ErrSizeMismatch] is returned and
// nothing is copied.
func (b *Buffer) Write(data []byte) error {
	if len(data) != b.size {
		return fmt.Errorf("%w: writing %d bytes to buffer of size %d", ErrSizeMismatch, len(data), b.size)
	}
	mem, err := b.mapMem()
	if err != nil {
		return err
	}
	copy(mem, data)
	b.unmapMem()
	return nil
}

// Read returns a copy of the buffer contents. The given size must
// equal the buffer size, otherwise [ErrSizeMismatch] is returned.
func (b *Buffer) Read(size int) ([]byte, error) {
	if size != b.size {
		return nil, fmt.Errorf("%w: reading %d bytes from buffer of size %d", ErrSizeMismatch, size, b.size)
	}
	data := make([]byte, size)
	if err := b.ReadInto(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ReadInto copies the buffer contents into dst, which must be
// of the buffer size, otherwise [ErrSizeMismatch] is returned.
func (b *Buffer) ReadInto(dst []byte) error {
	if len(dst) != b.size {
		return fmt.Errorf("%w: reading %d bytes from buffer of size %d", ErrSizeMismatch, len(dst), b.size)
	}
	mem, err := b.mapMem()
	if err != nil {
		return err
	}
	copy(dst, mem)
	b.unmapMem()
	return nil
}

// Zero sets all the bytes of the buffer to zero.
func (b *Buffer) Zero() error {
	mem, err := b.mapMem()
	if err != nil {
		return err
	}
	clear(mem)
	b.unmapMem()
	return nil
}

// Destroy frees the memory and then the buffer.
// It is safe to call more than once.
func (b *Buffer) Destroy() {
	if b == nil || b.gp == nil {
		return
	}
	b.free()
	b.gp.removeBuffer(b)
	b.gp = nil
}

func (b *Buffer) free() {
	if b.gp == nil {
		return
	}
	dev := b.gp.Device.Device
	if dev == nil {
		return
	}
	FreeBuffMem(dev, &b.Memory)
	if b.Buffer != vk.NullBuffer {
		vk.DestroyBuffer(dev, b.Buffer, nil)
		b.Buffer = vk.NullBuffer
	}
}

// mapMem maps the buffer memory and returns it as a byte slice
// of the declared size.
func (b *Buffer) mapMem() ([]byte, error) {
	if b.gp == nil || b.Memory == vk.NullDeviceMemory {
		return nil, fmt.Errorf("%w: buffer has been destroyed", ErrDevice)
	}
	if b.size == 0 {
		return nil, nil
	}
	ptr, err := MapMemory(b.gp.Device.Device, b.Memory, b.size)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(ptr), b.size), nil
}

func (b *Buffer) unmapMem() {
	if b.size == 0 {
		return
	}
	vk.UnmapMemory(b.gp.Device.Device, b.Memory)
}

/////////////////////////////////////////////////////////////////////
// Basic memory functions

// NewVkBuffer makes a native buffer of given size, usage
func NewVkBuffer(dev vk.Device, size int, usage vk.BufferUsageFlagBits) (vk.Buffer, error) {
	var buffer vk.Buffer
	ret := vk.CreateBuffer(dev, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Usage:       vk.BufferUsageFlags(usage),
		Size:        vk.DeviceSize(size),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buffer)
	if err := checkResult(ErrDevice, ret); err != nil {
		return vk.NullBuffer, err
	}
	return buffer, nil
}

// AllocBuffMem allocates memory for given buffer, with given properties,
// and binds it to the buffer.
func AllocBuffMem(gp *GPU, dev vk.Device, buffer vk.Buffer, props vk.MemoryPropertyFlagBits) (vk.DeviceMemory, error) {
	// Ask device about its memory requirements.
	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dev, buffer, &memReqs)
	memReqs.Deref()

	memType, ok := FindRequiredMemoryType(gp.MemoryProps, vk.MemoryPropertyFlagBits(memReqs.MemoryTypeBits), props)
	if !ok {
		return vk.NullDeviceMemory, fmt.Errorf("%w: no memory type with properties %#x for buffer", ErrDevice, props)
	}

	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	if err := checkResult(ErrDevice, ret); err != nil {
		return vk.NullDeviceMemory, err
	}
	ret = vk.BindBufferMemory(dev, buffer, memory, 0)
	if err := checkResult(ErrDevice, ret); err != nil {
		FreeBuffMem(dev, &memory)
		return vk.NullDeviceMemory, err
	}
	slog.Debug("vgpu: allocated buffer memory", "size", memReqs.Size, "type", memType)
	return memory, nil
}

// MapMemory maps the buffer memory, returning a pointer into start of buffer memory
func MapMemory(dev vk.Device, mem vk.DeviceMemory, size int) (unsafe.Pointer, error) {
	var buffPtr unsafe.Pointer
	ret := vk.MapMemory(dev, mem, 0, vk.DeviceSize(size), 0, &buffPtr)
	if err := checkResult(ErrDevice, ret); err != nil {
		return nil, err
	}
	return buffPtr, nil
}

// FreeBuffMem frees given device memory to nil
func FreeBuffMem(dev vk.Device, memory *vk.DeviceMemory) {
	if *memory == vk.NullDeviceMemory {
		return
	}
	vk.FreeMemory(dev, *memory, nil)
	*memory = vk.NullDeviceMemory
}

// FindRequiredMemoryType returns the index of the first memory type
// allowed by deviceRequirements (a bit per memory type index) that has
// all of the hostRequirements property flags.
func FindRequiredMemoryType(props vk.PhysicalDeviceMemoryProperties,
	deviceRequirements, hostRequirements vk.MemoryPropertyFlagBits) (uint32, bool) {

	required := vk.MemoryPropertyFlags(hostRequirements)
	for i := uint32(0); i < vk.MaxMemoryTypes; i++ {
		if deviceRequirements&(vk.MemoryPropertyFlagBits(1)<<i) != 0 {
			props.MemoryTypes[i].Deref()
			flags := props.MemoryTypes[i].PropertyFlags
			if flags&required == required {
				return i, true
			}
		}
	}
	return 0, false
}
