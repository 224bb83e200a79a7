// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package vgpu

import vk "github.com/goki/vulkan"

// instanceCreatePortabilityBit is VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR,
// without which the loader hides MoltenVK devices.
const instanceCreatePortabilityBit = 0x00000001

// platformDefaults adds the portability extensions that MoltenVK
// requires, as far as they are among the available instance extensions,
// and returns the instance create flags.
func platformDefaults(gp *GPU, available []string) vk.InstanceCreateFlags {
	exts, missing := CheckExisting(available, []string{
		vk.KhrGetPhysicalDeviceProperties2ExtensionName,
		vk.KhrPortabilityEnumerationExtensionName,
	})
	gp.InstanceExts = append(gp.InstanceExts, exts...)
	if missing > 0 {
		return 0
	}
	gp.DeviceExts = append(gp.DeviceExts, SafeString("VK_KHR_portability_subset"))
	return vk.InstanceCreateFlags(instanceCreatePortabilityBit)
}
