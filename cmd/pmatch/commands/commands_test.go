// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/vcompute/cli"
	"cogentcore.org/vcompute/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringVar(&flags.Kind, "kind", "vk", "")
	fs.IntVar(&flags.Patch.X, "px", 20, "")
	fs.DurationVar(&flags.Timeout, "timeout", time.Second, "")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "")
	fs.BoolVarP(&flags.Quiet, "quiet", "q", false, "")
	require.NoError(t, fs.Parse([]string{"--kind", "cpu", "--px", "3", "--timeout", "2s", "-v"}))

	c := &config.Config{}
	require.NoError(t, cli.Load(c))
	applyFlags(fs, c)
	assert.Equal(t, "cpu", c.Kind)
	assert.Equal(t, 3, c.Patch.X)
	assert.Equal(t, 40, c.Patch.Y)
	assert.Equal(t, 2*time.Second, c.Timeout)
	assert.True(t, c.Verbose)
	assert.False(t, c.Quiet)
}

func TestSearchImages(t *testing.T) {
	c := &config.Config{}
	require.NoError(t, cli.Load(c))
	img, pat, err := searchImages(c)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 50, pat.Bounds().Dx())
	assert.Equal(t, 0, pat.Bounds().Min.X)
	assert.Equal(t, img.RGBAAt(20, 40), pat.RGBAAt(0, 0))

	c.Patch.X = 300
	_, _, err = searchImages(c)
	assert.Error(t, err)
}

func TestSearchCPU(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "pmatch.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("Kind = \"cpu\"\nRandW = 64\nRandH = 48\n\n[Patch]\nX = 5\nY = 7\nW = 9\nH = 6\n"), 0666))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"search", "--config", cfgFile, "-q"})
	require.NoError(t, Execute())
	assert.Contains(t, out.String(), "kind=cpu x=5 y=7 cos=1.000000")
}
