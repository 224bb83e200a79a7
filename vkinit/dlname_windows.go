// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkinit

// DlName is the name of the Vulkan loader library.
var DlName = "vulkan-1.dll"
