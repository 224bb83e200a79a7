// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	vk "github.com/goki/vulkan"
)

// InstanceLayers gets a list of validation layers available on the platform.
// The Vulkan library must already be loaded.
func InstanceLayers() (names []string, err error) {
	var count uint32
	err = checkResult(ErrDevice, vk.EnumerateInstanceLayerProperties(&count, nil))
	if err != nil || count == 0 {
		return nil, err
	}
	list := make([]vk.LayerProperties, count)
	err = checkResult(ErrDevice, vk.EnumerateInstanceLayerProperties(&count, list))
	if err != nil {
		return nil, err
	}
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// InstanceExts gets a list of instance extensions available on the platform.
// The Vulkan library must already be loaded.
func InstanceExts() (names []string, err error) {
	var count uint32
	err = checkResult(ErrDevice, vk.EnumerateInstanceExtensionProperties("", &count, nil))
	if err != nil || count == 0 {
		return nil, err
	}
	list := make([]vk.ExtensionProperties, count)
	err = checkResult(ErrDevice, vk.EnumerateInstanceExtensionProperties("", &count, list))
	if err != nil {
		return nil, err
	}
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}
