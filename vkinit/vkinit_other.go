// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !((linux && cgo) || (darwin && cgo) || (freebsd && cgo))

package vkinit

import (
	vk "github.com/goki/vulkan"
)

// LoadVulkan initializes the Vulkan function pointers from the
// loader linked into the binary.
func LoadVulkan() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return err
	}
	return vk.Init()
}
