// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"cogentcore.org/vcompute/base/errors"
	"cogentcore.org/vcompute/base/iox/tomlx"
	"github.com/mitchellh/go-homedir"
)

// Load sets the given config object from its `default:` tags and then
// overlays each of the given TOML config files in order, so that later
// files overwrite earlier settings. Files that do not exist are skipped
// with a debug message, which lets callers pass optional locations.
func Load(cfg any, files ...string) error {
	err := SetFromDefaults(cfg)
	if err != nil {
		return err
	}
	for _, fn := range files {
		if fn == "" {
			continue
		}
		fn, err = homedir.Expand(fn)
		if err != nil {
			return err
		}
		if _, serr := os.Stat(fn); errors.Is(serr, fs.ErrNotExist) {
			slog.Debug("cli: config file not found", "file", fn)
			continue
		}
		err = tomlx.Open(cfg, fn)
		if err != nil {
			return fmt.Errorf("cli: loading config file %q: %w", fn, err)
		}
	}
	return nil
}
