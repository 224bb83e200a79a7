// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vgpu runs compute shaders on a Vulkan device: it manages
// the device and its compute queue, host visible storage buffers,
// descriptor sets binding them, compute pipelines, and synchronous
// dispatch of a pipeline with a fence wait.
//
// A [GPU] owns every [Buffer] and [Pipeline] made from it, and
// [GPU.Destroy] releases them in reverse dependency order:
// pipelines, then buffers, then the device and instance.
package vgpu

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"cogentcore.org/vcompute/vkinit"
	vk "github.com/goki/vulkan"
)

const (
	// ValidationLayer is the Khronos validation layer enabled
	// with [GPUOptions.Validate].
	ValidationLayer = "VK_LAYER_KHRONOS_validation"

	// DebugReportExt is the instance extension required
	// along with the validation layer.
	DebugReportExt = "VK_EXT_debug_report"

	// DispatchTimeout is the default time that [Pipeline.Run]
	// waits for a dispatch to complete.
	DispatchTimeout = 100 * time.Second
)

// GPUOptions are the options for [NewGPU].
type GPUOptions struct {

	// enable the validation layer and debug report extension,
	// failing if they are not available
	Validate bool

	// application name reported to the driver
	AppName string

	// how long a dispatch may take; DispatchTimeout if 0
	Timeout time.Duration
}

// GPU represents the selected physical device and the logical
// device made on it with one compute queue.
type GPU struct {

	// vulkan instance
	Instance vk.Instance

	// the selected physical device
	GPU vk.PhysicalDevice

	// properties of the selected physical device
	GPUProps vk.PhysicalDeviceProperties

	// memory properties of the selected physical device
	MemoryProps vk.PhysicalDeviceMemoryProperties

	// logical device with its compute queue
	Device Device

	// name of the selected physical device
	Name string

	// descriptions of all enumerated physical devices, in order
	Devices []string

	// enabled validation layers, null-terminated
	ValidationLayers []string

	// enabled instance extensions, null-terminated
	InstanceExts []string

	// enabled device extensions, null-terminated
	DeviceExts []string

	// how long a dispatch may take before failing with ErrTimeout
	Timeout time.Duration

	mu        sync.Mutex
	buffers   []*Buffer
	pipelines []*Pipeline
}

// NewGPU loads the Vulkan library, creates an instance, selects a
// device with [SelectDevice] and creates a logical device with one
// compute queue on it. Destroy must be called when done, after
// or instead of destroying the buffers and pipelines made from it.
func NewGPU(opts *GPUOptions) (gp *GPU, err error) {
	if opts == nil {
		opts = &GPUOptions{}
	}
	if err := vkinit.Load(); err != nil {
		return nil, wrapError(ErrDevice, err)
	}
	gp = &GPU{Timeout: opts.Timeout}
	if gp.Timeout <= 0 {
		gp.Timeout = DispatchTimeout
	}
	defer func() {
		if err != nil {
			gp.Destroy()
			gp = nil
		}
	}()
	if err = gp.initInstance(opts); err != nil {
		return
	}
	if err = gp.selectDevice(); err != nil {
		return
	}
	if err = gp.Device.Init(gp, vk.QueueComputeBit); err != nil {
		return
	}
	slog.Info("vgpu: device ready", "device", gp.Name, "queueFamily", gp.Device.QueueIndex, "validate", opts.Validate)
	return gp, nil
}

func (gp *GPU) initInstance(opts *GPUOptions) error {
	exts, err := InstanceExts()
	if err != nil {
		return err
	}
	if opts.Validate {
		layers, err := InstanceLayers()
		if err != nil {
			return err
		}
		if err := CheckValidation(layers, exts); err != nil {
			return err
		}
		gp.ValidationLayers, _ = CheckExisting(layers, []string{ValidationLayer})
		gp.InstanceExts, _ = CheckExisting(exts, []string{DebugReportExt})
		slog.Debug("vgpu: enabling validation", "layer", ValidationLayer, "extension", DebugReportExt)
	}
	flags := platformDefaults(gp, exts)
	name := opts.AppName
	if name == "" {
		name = "vcompute"
	}

	var inst vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		Flags: flags,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   SafeString(name),
			PEngineName:        "vcompute\x00",
		},
		EnabledExtensionCount:   uint32(len(gp.InstanceExts)),
		PpEnabledExtensionNames: gp.InstanceExts,
		EnabledLayerCount:       uint32(len(gp.ValidationLayers)),
		PpEnabledLayerNames:     gp.ValidationLayers,
	}, nil, &inst)
	if err := checkResult(ErrDevice, ret); err != nil {
		return err
	}
	gp.Instance = inst
	if err := vk.InitInstance(inst); err != nil {
		return wrapError(ErrDevice, err)
	}
	return nil
}

func (gp *GPU) selectDevice() error {
	var count uint32
	if err := checkResult(ErrDevice, vk.EnumeratePhysicalDevices(gp.Instance, &count, nil)); err != nil {
		return err
	}
	devs := make([]vk.PhysicalDevice, count)
	if count > 0 {
		if err := checkResult(ErrDevice, vk.EnumeratePhysicalDevices(gp.Instance, &count, devs)); err != nil {
			return err
		}
	}
	props := make([]vk.PhysicalDeviceProperties, len(devs))
	types := make([]vk.PhysicalDeviceType, len(devs))
	gp.Devices = make([]string, len(devs))
	for i, d := range devs {
		vk.GetPhysicalDeviceProperties(d, &props[i])
		props[i].Deref()
		types[i] = props[i].DeviceType
		gp.Devices[i] = DeviceString(props[i])
		slog.Debug("vgpu: found device", "index", i, "device", gp.Devices[i])
	}
	idx, err := SelectDevice(types)
	if err != nil {
		return err
	}
	gp.GPU = devs[idx]
	gp.GPUProps = props[idx]
	gp.GPUProps.Limits.Deref()
	gp.Name = vk.ToString(gp.GPUProps.DeviceName[:])
	vk.GetPhysicalDeviceMemoryProperties(gp.GPU, &gp.MemoryProps)
	gp.MemoryProps.Deref()
	return nil
}

// DeviceString returns a description of the device with the given
// properties: its name, vendor, device id, driver and API version,
// and type.
func DeviceString(props vk.PhysicalDeviceProperties) string {
	api := DecodeVersion(props.ApiVersion)
	return fmt.Sprintf("name='%s' vendor_id=%d device_id=%d driver_version=%d variant=%d api_version=%d.%d.%d type=%d",
		vk.ToString(props.DeviceName[:]), props.VendorID, props.DeviceID, props.DriverVersion,
		api.Variant, api.Major, api.Minor, api.Patch, props.DeviceType)
}

// String returns a description of the selected device.
func (gp *GPU) String() string {
	return DeviceString(gp.GPUProps)
}

// Destroy destroys all pipelines and buffers still alive, most recent
// first, then the logical device and the instance.
// It is safe to call on a partially created or already destroyed GPU.
func (gp *GPU) Destroy() {
	if gp == nil {
		return
	}
	gp.mu.Lock()
	pls := slices.Clone(gp.pipelines)
	bufs := slices.Clone(gp.buffers)
	gp.mu.Unlock()
	for i := len(pls) - 1; i >= 0; i-- {
		pls[i].Destroy()
	}
	for i := len(bufs) - 1; i >= 0; i-- {
		bufs[i].Destroy()
	}
	gp.Device.Destroy()
	if gp.Instance != nil {
		vk.DestroyInstance(gp.Instance, nil)
		gp.Instance = nil
		slog.Debug("vgpu: destroyed", "device", gp.Name)
	}
}

func (gp *GPU) addBuffer(b *Buffer) {
	gp.mu.Lock()
	gp.buffers = append(gp.buffers, b)
	gp.mu.Unlock()
}

func (gp *GPU) removeBuffer(b *Buffer) {
	gp.mu.Lock()
	gp.buffers = slices.DeleteFunc(gp.buffers, func(e *Buffer) bool { return e == b })
	gp.mu.Unlock()
}

func (gp *GPU) addPipeline(pl *Pipeline) {
	gp.mu.Lock()
	gp.pipelines = append(gp.pipelines, pl)
	gp.mu.Unlock()
}

func (gp *GPU) removePipeline(pl *Pipeline) {
	gp.mu.Lock()
	gp.pipelines = slices.DeleteFunc(gp.pipelines, func(e *Pipeline) bool { return e == pl })
	gp.mu.Unlock()
}

// NumLive returns the number of buffers and pipelines made from
// this GPU that have not yet been destroyed.
func (gp *GPU) NumLive() (buffers, pipelines int) {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	return len(gp.buffers), len(gp.pipelines)
}
