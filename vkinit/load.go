// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vkinit loads the Vulkan library at runtime.
package vkinit

import "sync"

var (
	loadOnce sync.Once
	loadErr  error
)

// Load calls [LoadVulkan] the first time it is called and returns
// its error on this and every later call.
func Load() error {
	loadOnce.Do(func() {
		loadErr = LoadVulkan()
	})
	return loadErr
}
