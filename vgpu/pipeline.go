// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vgpu

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	vk "github.com/goki/vulkan"
)

// PipelineConfig is the configuration for [GPU.NewPipeline].
type PipelineConfig struct {

	// SPIR-V code of the compute shader, with entry point main
	Shader []byte

	// buffers bound in order to bindings 0..n-1 of set 0
	Buffers []*Buffer

	// binding types of Buffers; one StorageBinding per buffer if nil
	Types []BindingTypes

	// specialization constants, constant_id i getting value i
	SpecConstants []int32

	// size in bytes of the push constant range, 0 for none
	PushConstantSize int
}

// Pipeline is a compute shader bound to a fixed set of buffers,
// with its own command buffer re-recorded on every [Pipeline.Run].
type Pipeline struct {
	gp *GPU

	// descriptor set binding the buffers
	Desc *DescriptorSet

	// pipeline layout with the set layout and push constant range
	Layout vk.PipelineLayout

	// the created vulkan pipeline
	VkPipeline vk.Pipeline

	// size of the push constant range
	PushConstantSize int

	// pool and command buffer used by Run
	CmdPool CmdPool

	// serializes Run
	mu sync.Mutex
}

// NewPipeline builds a compute pipeline for the given configuration.
// Any failure releases everything created so far; in particular the
// descriptor set made for the buffers is destroyed, while the buffers
// themselves are left intact.
func (gp *GPU) NewPipeline(cfg PipelineConfig) (pl *Pipeline, err error) {
	if len(cfg.Buffers) == 0 {
		return nil, ErrNeedAtLeastOneBuffer
	}
	if cfg.PushConstantSize < 0 || cfg.PushConstantSize%4 != 0 {
		return nil, fmt.Errorf("%w: push constant size %d is not a non-negative multiple of 4", ErrDevice, cfg.PushConstantSize)
	}
	types := cfg.Types
	if types == nil {
		types = StorageBindings(len(cfg.Buffers))
	}
	dev := gp.Device.Device
	pl = &Pipeline{gp: gp, PushConstantSize: cfg.PushConstantSize}
	defer func() {
		if err != nil {
			pl.destroy()
			pl = nil
		}
	}()

	pl.Desc, err = NewDescriptorSet(gp, types)
	if err != nil {
		return
	}
	if err = pl.Desc.Bind(cfg.Buffers); err != nil {
		return
	}

	var module vk.ShaderModule
	module, err = NewShaderModule(dev, cfg.Shader)
	if err != nil {
		return
	}

	lci := &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1,
		PSetLayouts:    []vk.DescriptorSetLayout{pl.Desc.Layout},
	}
	if cfg.PushConstantSize > 0 {
		lci.PushConstantRangeCount = 1
		lci.PPushConstantRanges = []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageComputeBit),
			Offset:     0,
			Size:       uint32(cfg.PushConstantSize),
		}}
	}
	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(dev, lci, nil, &layout)
	if err = checkResult(ErrDevice, ret); err != nil {
		vk.DestroyShaderModule(dev, module, nil)
		return
	}
	pl.Layout = layout

	err = pl.configCompute(module, EncodeSpecConstants(cfg.SpecConstants))
	vk.DestroyShaderModule(dev, module, nil) // not needed once built
	if err != nil {
		return
	}

	if err = pl.CmdPool.ConfigResettable(&gp.Device); err != nil {
		return
	}
	if err = pl.CmdPool.NewBuffer(&gp.Device); err != nil {
		return
	}
	gp.addPipeline(pl)
	slog.Debug("vgpu: pipeline built", "bindings", len(types), "specConstants", len(cfg.SpecConstants), "pushConstantSize", cfg.PushConstantSize)
	return pl, nil
}

// configCompute creates the compute pipeline from the shader module,
// using a pipeline cache that only lives for the call.
func (pl *Pipeline) configCompute(module vk.ShaderModule, sc SpecConstants) error {
	dev := pl.gp.Device.Device
	var pipelineCache vk.PipelineCache
	ret := vk.CreatePipelineCache(dev, &vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}, nil, &pipelineCache)
	if err := checkResult(ErrDevice, ret); err != nil {
		return err
	}
	defer vk.DestroyPipelineCache(dev, pipelineCache, nil)

	var pin runtime.Pinner
	defer pin.Unpin()
	cfg := vk.ComputePipelineCreateInfo{
		SType:  vk.StructureTypeComputePipelineCreateInfo,
		Layout: pl.Layout,
		Stage: vk.PipelineShaderStageCreateInfo{
			SType:               vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:               vk.ShaderStageComputeBit,
			Module:              module,
			PName:               "main\x00",
			PSpecializationInfo: sc.Info(&pin),
		},
	}
	pipeline := make([]vk.Pipeline, 1)
	ret = vk.CreateComputePipelines(dev, pipelineCache, 1, []vk.ComputePipelineCreateInfo{cfg}, nil, pipeline)
	if err := checkResult(ErrDevice, ret); err != nil {
		return err
	}
	pl.VkPipeline = pipeline[0]
	return nil
}

// Destroy destroys the command buffer and pool, the pipeline,
// its layout and then the descriptor set. The bound buffers
// are not destroyed. It is safe to call more than once.
func (pl *Pipeline) Destroy() {
	if pl == nil {
		return
	}
	pl.mu.Lock()
	defer pl.mu.Unlock()
	gp := pl.gp
	pl.destroy()
	if gp != nil {
		gp.removePipeline(pl)
	}
}

func (pl *Pipeline) destroy() {
	if pl.gp == nil {
		return
	}
	dev := pl.gp.Device.Device
	pl.gp = nil
	if dev == nil {
		return
	}
	pl.CmdPool.Destroy(dev)
	if pl.VkPipeline != nil {
		vk.DestroyPipeline(dev, pl.VkPipeline, nil)
		pl.VkPipeline = nil
	}
	if pl.Layout != nil {
		vk.DestroyPipelineLayout(dev, pl.Layout, nil)
		pl.Layout = nil
	}
	pl.Desc.Destroy()
}
