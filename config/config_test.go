// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"image"
	"testing"
	"time"

	"cogentcore.org/vcompute/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := &Config{}
	require.NoError(t, cli.SetFromDefaults(c))
	assert.Equal(t, "vk", c.Kind)
	assert.Equal(t, 100*time.Second, c.Timeout)
	assert.Equal(t, Patch{X: 20, Y: 40, W: 50, H: 50}, c.Patch)
	assert.NoError(t, c.Check())
}

func TestCheck(t *testing.T) {
	c := &Config{}
	require.NoError(t, cli.SetFromDefaults(c))

	c.Kind = "opencl"
	assert.Error(t, c.Check())
	c.Kind = "cpu"
	c.Patch.W = 0
	assert.Error(t, c.Check())
	c.Patch.W = 5
	c.Patch.X = -1
	assert.Error(t, c.Check())
}

func TestPatchRect(t *testing.T) {
	p := Patch{X: 1, Y: 2, W: 3, H: 4}
	assert.Equal(t, image.Rect(11, 22, 14, 26), p.Rect(image.Pt(10, 20)))
}
