// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands has the cobra commands of the pmatch tool.
package commands

import (
	"log/slog"

	"cogentcore.org/vcompute/base/logx"
	"cogentcore.org/vcompute/cli"
	"cogentcore.org/vcompute/config"
	"cogentcore.org/vcompute/vgpu"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile string

	// the loaded configuration, with flags applied
	cfg = &config.Config{}

	// flag values, only applied to cfg when set
	flags = &config.Config{}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pmatch",
	Short: "Find a patch in an image by cosine similarity",
	Long: `pmatch cuts a patch out of an image and searches the image for it,
scoring every position of the patch by the cosine similarity of its
RGB values with the image under it.

The search runs on the CPU or on a Vulkan compute device. Settings
come from the defaults, then the TOML config file, then the flags.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "pmatch.toml", "TOML config file, skipped if it does not exist")
	pf.BoolVar(&flags.VeryVerbose, "vv", false, "print debug messages")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "print info messages")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "only print errors")
	pf.BoolVar(&flags.Validate, "validate", false, "enable the Vulkan validation layer")
	pf.DurationVar(&flags.Timeout, "timeout", vgpu.DispatchTimeout, "how long a single dispatch may take")
}

// loadConfig loads cfg and sets up logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	logx.SetDefaultLogger()
	if err := cli.Load(cfg, cfgFile); err != nil {
		return err
	}
	applyFlags(cmd.Flags(), cfg)
	logx.UserLevel = logx.LevelFromFlags(cfg.VeryVerbose, cfg.Verbose, cfg.Quiet)
	if err := cfg.Check(); err != nil {
		return err
	}
	slog.Debug("pmatch: config loaded", "file", cfgFile, "kind", cfg.Kind, "patch", cfg.Patch)
	return nil
}

// applyFlags copies the flags that were set on the command line
// from flags to c.
func applyFlags(fs *pflag.FlagSet, c *config.Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "vv":
			c.VeryVerbose = flags.VeryVerbose
		case "verbose":
			c.Verbose = flags.Verbose
		case "quiet":
			c.Quiet = flags.Quiet
		case "validate":
			c.Validate = flags.Validate
		case "timeout":
			c.Timeout = flags.Timeout
		case "kind":
			c.Kind = flags.Kind
		case "image":
			c.Image = flags.Image
		case "rand-w":
			c.RandW = flags.RandW
		case "rand-h":
			c.RandH = flags.RandH
		case "seed":
			c.Seed = flags.Seed
		case "px":
			c.Patch.X = flags.Patch.X
		case "py":
			c.Patch.Y = flags.Patch.Y
		case "pw":
			c.Patch.W = flags.Patch.W
		case "ph":
			c.Patch.H = flags.Patch.H
		case "bench":
			c.Bench = flags.Bench
		}
	})
}

// gpuOptions returns the GPU options from the config.
func gpuOptions(c *config.Config) *vgpu.GPUOptions {
	return &vgpu.GPUOptions{Validate: c.Validate, AppName: "pmatch", Timeout: c.Timeout}
}
