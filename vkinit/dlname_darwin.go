// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkinit

// DlName is the name of the Vulkan loader library.
// MoltenVK through the LunarG loader.
var DlName = "libvulkan.1.dylib"
