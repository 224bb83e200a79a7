// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"encoding/binary"
	"runtime"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// specConstSize is the size in bytes of each specialization constant.
const specConstSize = 4

// SpecConstants are encoded specialization constants: one map entry
// per constant, with constant id equal to its index and its 4 byte
// little endian value at offset 4*index in Data.
type SpecConstants struct {
	Entries []vk.SpecializationMapEntry
	Data    []byte
}

// EncodeSpecConstants encodes the given values as specialization
// constants with ids 0, 1, 2, ... in order.
func EncodeSpecConstants(vals []int32) SpecConstants {
	sc := SpecConstants{
		Entries: make([]vk.SpecializationMapEntry, len(vals)),
		Data:    make([]byte, len(vals)*specConstSize),
	}
	for i, v := range vals {
		off := i * specConstSize
		sc.Entries[i] = vk.SpecializationMapEntry{
			ConstantID: uint32(i),
			Offset:     uint32(off),
			Size:       specConstSize,
		}
		binary.LittleEndian.PutUint32(sc.Data[off:], uint32(v))
	}
	return sc
}

// Len returns the number of constants.
func (sc *SpecConstants) Len() int {
	return len(sc.Entries)
}

// Info returns the specialization info for the constants, for use in
// a shader stage, or nil if there are none. The data is pinned in the
// given pinner, which must stay pinned until the pipeline is created.
func (sc *SpecConstants) Info(pin *runtime.Pinner) []vk.SpecializationInfo {
	if len(sc.Entries) == 0 {
		return nil
	}
	pin.Pin(&sc.Data[0])
	return []vk.SpecializationInfo{{
		MapEntryCount: uint32(len(sc.Entries)),
		PMapEntries:   sc.Entries,
		DataSize:      uint64(len(sc.Data)),
		PData:         unsafe.Pointer(&sc.Data[0]),
	}}
}
