// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// The typed helpers copy values in host byte order, which shaders
// only read correctly on little endian hosts. T must be a fixed size
// type without pointers, such as a number or a struct of numbers.

// SizeOf returns the number of bytes taken by n values of type T.
func SizeOf[T any](n int) int {
	var v T
	return n * int(unsafe.Sizeof(v))
}

// WriteSlice writes the given values to the buffer, whose size
// must be SizeOf[T](len(vals)).
func WriteSlice[T any](b *Buffer, vals []T) error {
	if cpu.IsBigEndian {
		return ErrNotLittleEndian
	}
	return b.Write(sliceBytes(vals))
}

// ReadSlice reads n values from the buffer, whose size
// must be SizeOf[T](n).
func ReadSlice[T any](b *Buffer, n int) ([]T, error) {
	if cpu.IsBigEndian {
		return nil, ErrNotLittleEndian
	}
	vals := make([]T, n)
	if err := b.ReadInto(sliceBytes(vals)); err != nil {
		return nil, err
	}
	return vals, nil
}

// sliceBytes returns the memory of the given slice as bytes.
func sliceBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), SizeOf[T](len(s)))
}
