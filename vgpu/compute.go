// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"
	"math"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// Run records and submits one dispatch of the given number of
// workgroups along each dimension, with the given push constants,
// and waits for it to complete. The length of push must not exceed
// the pipeline push constant size.
// Calls on the same pipeline are serialized.
func (pl *Pipeline) Run(groups [3]int, push []byte) error {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if len(push) > pl.PushConstantSize {
		return fmt.Errorf("%w: push constants of %d bytes exceed range of %d", ErrSubmission, len(push), pl.PushConstantSize)
	}
	if len(push)%4 != 0 {
		return fmt.Errorf("%w: push constants of %d bytes are not a multiple of 4", ErrSubmission, len(push))
	}
	for _, g := range groups {
		if g < 0 {
			return fmt.Errorf("%w: negative workgroup count %v", ErrSubmission, groups)
		}
	}
	if pl.gp == nil {
		return fmt.Errorf("%w: pipeline has been destroyed", ErrSubmission)
	}

	cmd := pl.CmdPool.Buff
	if err := CmdResetBegin(cmd); err != nil {
		return err
	}
	if len(push) > 0 {
		vk.CmdPushConstants(cmd, pl.Layout, vk.ShaderStageFlags(vk.ShaderStageComputeBit), 0, uint32(len(push)), unsafe.Pointer(&push[0]))
	}
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointCompute, pl.VkPipeline)
	vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointCompute, pl.Layout, 0, 1, []vk.DescriptorSet{pl.Desc.Set}, 0, nil)
	vk.CmdDispatch(cmd, uint32(groups[0]), uint32(groups[1]), uint32(groups[2]))
	if err := CmdEnd(cmd); err != nil {
		return err
	}
	return CmdSubmitWait(cmd, &pl.gp.Device, pl.gp.Timeout)
}

// Warps returns the number of warps (work goups of compute threads)
// that is sufficient to compute n elements, given specified number
// of threads per this dimension.
// It just rounds up to nearest even multiple of n divided by threads:
// Ceil(n / threads)
func Warps(n, threads int) int {
	return int(math.Ceil(float64(n) / float64(threads)))
}
