// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"cogentcore.org/vcompute/base/errors"
	"cogentcore.org/vcompute/vgpu"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Show the Vulkan devices and layers",
	Long: `Devices lists every Vulkan physical device, marks the one that
would be selected for compute, and lists the available instance layers.`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	gp, err := vgpu.NewGPU(gpuOptions(cfg))
	if err != nil {
		return err
	}
	defer gp.Destroy()

	out := cmd.OutOrStdout()
	selected := gp.String()
	for i, d := range gp.Devices {
		mark := " "
		if d == selected {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %d: %s\n", mark, i, d)
	}
	fmt.Fprintf(out, "compute queue family: %d\n", gp.Device.QueueIndex)
	for _, l := range errors.Log1(vgpu.InstanceLayers()) {
		fmt.Fprintf(out, "layer: %s\n", l)
	}
	return nil
}
