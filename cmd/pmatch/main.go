// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pmatch searches an image for a patch cut out of it,
// on the CPU or on a Vulkan device.
package main

import (
	"os"

	"cogentcore.org/vcompute/cmd/pmatch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
