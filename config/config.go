// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration
// structs for the pmatch tool.
package config

import (
	"fmt"
	"image"
	"time"
)

// Config is the main config struct
// that contains all of the configuration
// options for the pmatch tool
type Config struct {

	// the kind of search instance to use: cpu or vk
	Kind string `default:"vk"`

	// whether to enable the Vulkan validation layer
	Validate bool

	// how long a single dispatch may take before it fails
	Timeout time.Duration `default:"100s"`

	// the image file to search in; a random image is used if empty
	Image string

	// size of the random image used when Image is empty
	RandW int `default:"320"`
	RandH int `default:"240"`

	// seed of the random image used when Image is empty
	Seed int64 `default:"1"`

	// the patch to cut out of the image and search for
	Patch Patch

	// number of timed iterations to run after the search, 0 for none
	Bench int `default:"0"`

	// print debug messages
	VeryVerbose bool

	// print info messages
	Verbose bool

	// only print errors
	Quiet bool
}

// Patch is a rectangle within the searched image
type Patch struct {
	X int `default:"20"`
	Y int `default:"40"`
	W int `default:"50"`
	H int `default:"50"`
}

// Rect returns the patch as an image rectangle offset by
// the given image origin.
func (p Patch) Rect(origin image.Point) image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.W, p.Y+p.H).Add(origin)
}

// Check returns an error if the config is not usable.
func (c *Config) Check() error {
	switch c.Kind {
	case "cpu", "vk":
	default:
		return fmt.Errorf("config: unknown kind %q (must be cpu or vk)", c.Kind)
	}
	if c.Patch.W <= 0 || c.Patch.H <= 0 {
		return fmt.Errorf("config: patch size must be positive, got %dx%d", c.Patch.W, c.Patch.H)
	}
	if c.Patch.X < 0 || c.Patch.Y < 0 {
		return fmt.Errorf("config: patch origin must not be negative, got (%d, %d)", c.Patch.X, c.Patch.Y)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %v", c.Timeout)
	}
	return nil
}
