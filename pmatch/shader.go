// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pmatch

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

//go:embed shaders/pmatch.wgsl
var shaderSource string

// workgroup size of the search kernel
const (
	localSizeX = 4
	localSizeY = 4
	localSizeZ = 1
)

var (
	shaderOnce sync.Once
	shaderCode []byte
	shaderErr  error
)

// Shader returns the SPIR-V code of the search kernel,
// compiled from WGSL on first use.
func Shader() ([]byte, error) {
	shaderOnce.Do(func() {
		shaderCode, shaderErr = naga.Compile(shaderSource)
		if shaderErr != nil {
			shaderErr = fmt.Errorf("pmatch: compiling search kernel: %w", shaderErr)
		}
	})
	return shaderCode, shaderErr
}
