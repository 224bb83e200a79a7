// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !darwin

package vgpu

import vk "github.com/goki/vulkan"

// platformDefaults adds nothing outside of macOS.
func platformDefaults(gp *GPU, available []string) vk.InstanceCreateFlags {
	return 0
}
