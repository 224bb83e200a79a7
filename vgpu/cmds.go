// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vgpu

import (
	"fmt"
	"time"

	vk "github.com/goki/vulkan"
)

// CmdPool is a command pool and buffer
type CmdPool struct {
	Pool vk.CommandPool
	Buff vk.CommandBuffer
}

// ConfigResettable makes a pool whose command buffers
// can be individually reset and re-recorded.
func (cp *CmdPool) ConfigResettable(dv *Device) error {
	var cmdPool vk.CommandPool
	ret := vk.CreateCommandPool(dv.Device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: dv.QueueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &cmdPool)
	if err := checkResult(ErrDevice, ret); err != nil {
		return err
	}
	cp.Pool = cmdPool
	return nil
}

// NewBuffer allocates one primary command buffer from the pool into Buff.
func (cp *CmdPool) NewBuffer(dv *Device) error {
	cmdBuff := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(dv.Device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        cp.Pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmdBuff)
	if err := checkResult(ErrDevice, ret); err != nil {
		return err
	}
	cp.Buff = cmdBuff[0]
	return nil
}

// Destroy frees the command buffer and then the pool.
func (cp *CmdPool) Destroy(dev vk.Device) {
	if cp.Pool == nil {
		return
	}
	if cp.Buff != nil {
		vk.FreeCommandBuffers(dev, cp.Pool, 1, []vk.CommandBuffer{cp.Buff})
		cp.Buff = nil
	}
	vk.DestroyCommandPool(dev, cp.Pool, nil)
	cp.Pool = nil
}

// CmdResetBegin resets the given command buffer and begins
// recording for a single submission.
func CmdResetBegin(cmd vk.CommandBuffer) error {
	ret := vk.ResetCommandBuffer(cmd, 0)
	if err := checkResult(ErrSubmission, ret); err != nil {
		return err
	}
	ret = vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	return checkResult(ErrSubmission, ret)
}

// CmdEnd ends recording on the given command buffer.
func CmdEnd(cmd vk.CommandBuffer) error {
	return checkResult(ErrSubmission, vk.EndCommandBuffer(cmd))
}

// CmdSubmitWait submits the command buffer to the device queue
// and waits on a fence for it to complete, for at most timeout.
// A wait that runs out returns [ErrTimeout].
func CmdSubmitWait(cmd vk.CommandBuffer, dv *Device, timeout time.Duration) error {
	var fence vk.Fence
	ret := vk.CreateFence(dv.Device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}, nil, &fence)
	if err := checkResult(ErrSubmission, ret); err != nil {
		return err
	}
	defer vk.DestroyFence(dv.Device, fence, nil)

	ret = vk.QueueSubmit(dv.Queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd},
	}}, fence)
	if err := checkResult(ErrSubmission, ret); err != nil {
		return err
	}

	ret = vk.WaitForFences(dv.Device, 1, []vk.Fence{fence}, vk.True, uint64(timeout.Nanoseconds()))
	switch ret {
	case vk.Success:
		return nil
	case vk.Timeout:
		return fmt.Errorf("%w: dispatch did not complete within %v", ErrTimeout, timeout)
	}
	return checkResult(ErrSubmission, ret)
}
