// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/naga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doubleShader = `
@group(0) @binding(0) var<storage, read> input: array<u32>;
@group(0) @binding(1) var<storage, read_write> output: array<u32>;

@compute @workgroup_size(4, 1, 1)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    let i = id.x;
    output[i] = input[i] * 2u + 1u;
}
`

const pushShader = `
struct Params {
    add: u32,
    scale: u32,
}

var<push_constant> pc: Params;

@group(0) @binding(0) var<storage, read> input: array<u32>;
@group(0) @binding(1) var<storage, read_write> output: array<u32>;

@compute @workgroup_size(4, 1, 1)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    let i = id.x;
    output[i] = input[i] * pc.scale + pc.add;
}
`

// testGPU returns a GPU for the test, skipping the test
// if there is no Vulkan loader or device.
func testGPU(t *testing.T) *GPU {
	t.Helper()
	gp, err := NewGPU(&GPUOptions{AppName: "vgpu test"})
	if err != nil {
		t.Skipf("no vulkan device: %v", err)
	}
	t.Cleanup(gp.Destroy)
	return gp
}

func compileDouble(t *testing.T) []byte {
	t.Helper()
	code, err := naga.Compile(doubleShader)
	require.NoError(t, err)
	require.NoError(t, ValidateShader(code))
	return code
}

func TestGPUInfo(t *testing.T) {
	gp := testGPU(t)
	assert.NotEmpty(t, gp.Name)
	assert.NotEmpty(t, gp.Devices)
	assert.Contains(t, gp.String(), "name='"+gp.Name+"'")
	assert.Equal(t, DispatchTimeout, gp.Timeout)
	assert.Empty(t, gp.ValidationLayers)
}

func TestGPUValidation(t *testing.T) {
	gp, err := NewGPU(&GPUOptions{AppName: "vgpu test", Validate: true})
	if err != nil {
		// no device, or no validation layer installed
		assert.ErrorIs(t, err, ErrDevice)
		return
	}
	defer gp.Destroy()
	assert.Equal(t, []string{ValidationLayer + "\x00"}, gp.ValidationLayers)
	assert.Contains(t, gp.InstanceExts, DebugReportExt+"\x00")
}

func TestBufferRoundTrip(t *testing.T) {
	gp := testGPU(t)
	for _, size := range []int{0, 1, 3, 4, 16, 255, 4096} {
		b, err := gp.NewBuffer(size)
		require.NoError(t, err)
		assert.Equal(t, size, b.Size())
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i * 7)
		}
		require.NoError(t, b.Write(data))
		got, err := b.Read(size)
		require.NoError(t, err)
		assert.Equal(t, data, got)

		require.NoError(t, b.Zero())
		got, err = b.Read(size)
		require.NoError(t, err)
		assert.Equal(t, make([]byte, size), got)
		b.Destroy()
		b.Destroy()
	}
	nb, _ := gp.NumLive()
	assert.Equal(t, 0, nb)
}

func TestBuffer16(t *testing.T) {
	gp := testGPU(t)
	b, err := gp.NewBuffer(16)
	require.NoError(t, err)
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	require.NoError(t, b.Write(data))
	got := make([]byte, 16)
	require.NoError(t, b.ReadInto(got))
	assert.Equal(t, data, got)

	assert.ErrorIs(t, b.Write(data[:15]), ErrSizeMismatch)
	assert.ErrorIs(t, b.Write(make([]byte, 17)), ErrSizeMismatch)
	_, err = b.Read(17)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	// failed writes leave the contents alone
	got, err = b.Read(16)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, WriteSlice(b, []float32{1, 2, 3, 4}))
	fs, err := ReadSlice[float32](b, 4)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, fs)
}

func testBuffers(t *testing.T, gp *GPU, n int) (in, out *Buffer) {
	t.Helper()
	in, err := gp.NewBuffer(SizeOf[uint32](n))
	require.NoError(t, err)
	out, err = gp.NewBuffer(SizeOf[uint32](n))
	require.NoError(t, err)
	return in, out
}

func TestPipelineRun(t *testing.T) {
	gp := testGPU(t)
	const n = 16
	in, out := testBuffers(t, gp, n)
	pl, err := gp.NewPipeline(PipelineConfig{
		Shader:        compileDouble(t),
		Buffers:       []*Buffer{in, out},
		SpecConstants: []int32{7, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []*Buffer{in, out}, pl.Desc.Bound())

	vals := make([]uint32, n)
	for i := range vals {
		vals[i] = uint32(i)
	}
	require.NoError(t, WriteSlice(in, vals))
	require.NoError(t, pl.Run([3]int{Warps(n, 4), 1, 1}, nil))
	got, err := ReadSlice[uint32](out, n)
	require.NoError(t, err)
	for i, v := range got {
		assert.Equal(t, uint32(2*i+1), v)
	}

	// a second run sees the new input only
	for i := range vals {
		vals[i] = uint32(100 + i)
	}
	require.NoError(t, WriteSlice(in, vals))
	require.NoError(t, pl.Run([3]int{Warps(n, 4), 1, 1}, nil))
	got, err = ReadSlice[uint32](out, n)
	require.NoError(t, err)
	for i, v := range got {
		assert.Equal(t, uint32(2*(100+i)+1), v)
	}

	assert.ErrorIs(t, pl.Run([3]int{1, 1, 1}, make([]byte, 4)), ErrSubmission)

	// a rejected rebind keeps the previous bindings
	assert.ErrorIs(t, pl.Desc.Bind([]*Buffer{in}), ErrBindingCountMismatch)
	assert.Equal(t, []*Buffer{in, out}, pl.Desc.Bound())
	require.NoError(t, out.Zero())
	require.NoError(t, pl.Run([3]int{Warps(n, 4), 1, 1}, nil))
	got, err = ReadSlice[uint32](out, n)
	require.NoError(t, err)
	assert.Equal(t, uint32(2*(100+n-1)+1), got[n-1])

	nb, np := gp.NumLive()
	assert.Equal(t, 2, nb)
	assert.Equal(t, 1, np)
	pl.Destroy()
	pl.Destroy()
	_, np = gp.NumLive()
	assert.Equal(t, 0, np)
	assert.ErrorIs(t, pl.Run([3]int{1, 1, 1}, nil), ErrSubmission)
}

func TestPipelineErrors(t *testing.T) {
	gp := testGPU(t)
	in, out := testBuffers(t, gp, 4)

	_, err := gp.NewPipeline(PipelineConfig{Shader: compileDouble(t)})
	assert.ErrorIs(t, err, ErrNeedAtLeastOneBuffer)

	_, err = gp.NewPipeline(PipelineConfig{
		Shader:  compileDouble(t),
		Buffers: []*Buffer{in, out},
		Types:   StorageBindings(3),
	})
	assert.ErrorIs(t, err, ErrBindingCountMismatch)

	pl, err := gp.NewPipeline(PipelineConfig{
		Shader:  make([]byte, 6),
		Buffers: []*Buffer{in, out},
	})
	assert.ErrorIs(t, err, ErrInvalidShader)
	assert.Nil(t, pl)
	nb, np := gp.NumLive()
	assert.Equal(t, 2, nb)
	assert.Equal(t, 0, np)

	// the buffers are untouched and can be bound again
	pl, err = gp.NewPipeline(PipelineConfig{
		Shader:           compileDouble(t),
		Buffers:          []*Buffer{in, out},
		PushConstantSize: 8,
	})
	require.NoError(t, err)
	require.NoError(t, WriteSlice(in, []uint32{1, 2, 3, 4}))
	require.NoError(t, pl.Run([3]int{1, 1, 1}, make([]byte, 8)))
	got, err := ReadSlice[uint32](out, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 5, 7, 9}, got)
}

func pushParams(add, scale uint32) []byte {
	b := binary.LittleEndian.AppendUint32(nil, add)
	return binary.LittleEndian.AppendUint32(b, scale)
}

func TestPipelinePushConstants(t *testing.T) {
	gp := testGPU(t)
	const n = 8
	in, out := testBuffers(t, gp, n)
	code, err := naga.Compile(pushShader)
	require.NoError(t, err)
	require.NoError(t, ValidateShader(code))
	pl, err := gp.NewPipeline(PipelineConfig{
		Shader:           code,
		Buffers:          []*Buffer{in, out},
		PushConstantSize: 8,
	})
	require.NoError(t, err)
	defer pl.Destroy()

	vals := make([]uint32, n)
	for i := range vals {
		vals[i] = uint32(i)
	}
	require.NoError(t, WriteSlice(in, vals))
	for _, p := range []struct{ add, scale uint32 }{{5, 1}, {1000, 3}, {0, 0}} {
		require.NoError(t, pl.Run([3]int{Warps(n, 4), 1, 1}, pushParams(p.add, p.scale)))
		got, err := ReadSlice[uint32](out, n)
		require.NoError(t, err)
		for i, v := range got {
			assert.Equal(t, uint32(i)*p.scale+p.add, v, "add %d scale %d at %d", p.add, p.scale, i)
		}
	}

	assert.ErrorIs(t, pl.Run([3]int{1, 1, 1}, make([]byte, 12)), ErrSubmission)
	assert.ErrorIs(t, pl.Run([3]int{1, 1, 1}, make([]byte, 6)), ErrSubmission)
}

func TestGPUDestroyChildren(t *testing.T) {
	gp, err := NewGPU(nil)
	if err != nil {
		t.Skipf("no vulkan device: %v", err)
	}
	in, out := testBuffers(t, gp, 4)
	pl, err := gp.NewPipeline(PipelineConfig{
		Shader:  compileDouble(t),
		Buffers: []*Buffer{in, out},
	})
	require.NoError(t, err)

	gp.Destroy()
	nb, np := gp.NumLive()
	assert.Equal(t, 0, nb)
	assert.Equal(t, 0, np)
	pl.Destroy()
	in.Destroy()
	gp.Destroy()
	assert.ErrorIs(t, out.Write(make([]byte, 16)), ErrDevice)
}
