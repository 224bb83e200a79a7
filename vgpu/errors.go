// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"
	"runtime"

	"cogentcore.org/vcompute/base/errors"
	vk "github.com/goki/vulkan"
)

var (
	// ErrDevice is returned when no usable device or compute queue family
	// is found, when the validation layer or its extension is missing,
	// or when the native device, instance or resource creation fails.
	ErrDevice = errors.New("vgpu: device error")

	// ErrSizeMismatch is returned when a buffer read or write length
	// differs from the declared buffer size.
	ErrSizeMismatch = errors.New("vgpu: size mismatch")

	// ErrInvalidShader is returned for shader code whose length is
	// zero or not a multiple of 4 bytes.
	ErrInvalidShader = errors.New("vgpu: invalid shader")

	// ErrBindingCountMismatch is returned when the number of buffers
	// bound differs from the number of bindings of a descriptor set.
	ErrBindingCountMismatch = errors.New("vgpu: binding count mismatch")

	// ErrTimeout is returned when a dispatch does not complete
	// within the dispatch timeout.
	ErrTimeout = errors.New("vgpu: timeout")

	// ErrSubmission is returned for any other failure while recording
	// or submitting a dispatch.
	ErrSubmission = errors.New("vgpu: submission error")

	// ErrNeedAtLeastOneBuffer is returned when building a pipeline
	// without any buffers.
	ErrNeedAtLeastOneBuffer = errors.New("vgpu: need at least one buffer")

	// ErrNotLittleEndian is returned by the typed buffer helpers
	// on big endian hosts.
	ErrNotLittleEndian = errors.New("vgpu: host is not little endian")
)

// Error is a failed native Vulkan call result,
// along with where it happened.
type Error struct {
	Result vk.Result
	Frame  string
}

func (e *Error) Error() string {
	if e.Frame == "" {
		return fmt.Sprintf("vulkan error: %s (%d)", resultString(e.Result), e.Result)
	}
	return fmt.Sprintf("vulkan error: %s (%d) on %s", resultString(e.Result), e.Result, e.Frame)
}

func resultString(ret vk.Result) string {
	if err := vk.Error(ret); err != nil {
		return err.Error()
	}
	return "unknown result"
}

// IsError returns true if the result is not a success
func IsError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError returns an [*Error] for the given result, recording
// the calling function, or nil if the result is a success.
func NewError(ret vk.Result) error {
	if !IsError(ret) {
		return nil
	}
	e := &Error{Result: ret}
	if pc, file, line, ok := runtime.Caller(1); ok {
		e.Frame = fmt.Sprintf("%s (%s:%d)", runtime.FuncForPC(pc).Name(), file, line)
	}
	return e
}

// wrapError tags a native error with one of the sentinel errors,
// so that it matches both with [errors.Is].
func wrapError(kind error, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// checkResult converts a native result into an error tagged with
// the given sentinel error, or nil on success.
func checkResult(kind error, ret vk.Result) error {
	if !IsError(ret) {
		return nil
	}
	err := NewError(ret)
	if e, ok := err.(*Error); ok {
		if pc, file, line, ok := runtime.Caller(1); ok {
			e.Frame = fmt.Sprintf("%s (%s:%d)", runtime.FuncForPC(pc).Name(), file, line)
		}
	}
	return wrapError(kind, err)
}
