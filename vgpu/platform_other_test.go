// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !darwin

package vgpu

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestPlatformDefaults(t *testing.T) {
	gp := &GPU{}
	flags := platformDefaults(gp, []string{vk.KhrPortabilityEnumerationExtensionName, DebugReportExt})
	assert.Zero(t, flags)
	assert.Empty(t, gp.InstanceExts)
	assert.Empty(t, gp.DeviceExts)
}
