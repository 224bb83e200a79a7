// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// Device holds Device and associated Queue info
type Device struct {

	// logical device
	Device vk.Device

	// queue family index for device
	QueueIndex uint32

	// queue for device
	Queue vk.Queue
}

// Init initializes a device based on QueueFlagBits
func (dv *Device) Init(gp *GPU, flags vk.QueueFlagBits) error {
	err := dv.FindQueue(gp, flags)
	if err != nil {
		return err
	}
	return dv.MakeDevice(gp)
}

// FindQueue finds queue for given flag bits, sets in QueueIndex
// returns error if not found.
func (dv *Device) FindQueue(gp *GPU, flags vk.QueueFlagBits) error {
	var queueCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gp.GPU, &queueCount, nil)
	queueProperties := make([]vk.QueueFamilyProperties, queueCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(gp.GPU, &queueCount, queueProperties)
	if queueCount == 0 {
		return fmt.Errorf("%w: no queue families found on device", ErrDevice)
	}
	for i := range queueProperties {
		queueProperties[i].Deref()
	}
	idx, ok := FindQueueFamily(queueProperties, flags)
	if !ok {
		return fmt.Errorf("%w: could not find queue with required capabilities", ErrDevice)
	}
	dv.QueueIndex = idx
	return nil
}

// FindQueueFamily returns the index of the first queue family that
// has at least one queue and whose flags include all the required flags.
func FindQueueFamily(families []vk.QueueFamilyProperties, flags vk.QueueFlagBits) (uint32, bool) {
	required := vk.QueueFlags(flags)
	for i, f := range families {
		if f.QueueCount > 0 && f.QueueFlags&required == required {
			return uint32(i), true
		}
	}
	return 0, false
}

// MakeDevice and Queue based on QueueIndex
func (dv *Device) MakeDevice(gp *GPU) error {
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: dv.QueueIndex,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	var device vk.Device
	ret := vk.CreateDevice(gp.GPU, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledLayerCount:       uint32(len(gp.ValidationLayers)),
		PpEnabledLayerNames:     gp.ValidationLayers,
		EnabledExtensionCount:   uint32(len(gp.DeviceExts)),
		PpEnabledExtensionNames: gp.DeviceExts,
	}, nil, &device)
	if err := checkResult(ErrDevice, ret); err != nil {
		return err
	}
	dv.Device = device

	var queue vk.Queue
	vk.GetDeviceQueue(dv.Device, dv.QueueIndex, 0, &queue)
	dv.Queue = queue
	return nil
}

func (dv *Device) Destroy() {
	if dv.Device == nil {
		return
	}
	vk.DeviceWaitIdle(dv.Device)
	vk.DestroyDevice(dv.Device, nil)
	dv.Device = nil
	dv.Queue = nil
}
