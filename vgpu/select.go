// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// SelectDevice returns the index of the device to use among devices
// of the given types, in enumeration order: the first one that is
// not a CPU or other (software) device, or 0 if there is none.
// It returns [ErrDevice] if the list is empty.
func SelectDevice(types []vk.PhysicalDeviceType) (int, error) {
	if len(types) == 0 {
		return 0, fmt.Errorf("%w: no devices found", ErrDevice)
	}
	for i, tp := range types {
		if tp == vk.PhysicalDeviceTypeCpu || tp == vk.PhysicalDeviceTypeOther {
			continue
		}
		return i, nil
	}
	return 0, nil
}

// HasName returns whether the given name is among the available names,
// using exact string equality. It is used for layer and extension
// presence checks.
func HasName(available []string, name string) bool {
	for _, a := range available {
		if a == name {
			return true
		}
	}
	return false
}

// CheckExisting returns the required names that are available,
// null-terminated for passing to Vulkan, and the number of
// required names that are missing.
func CheckExisting(available, required []string) (existing []string, missing int) {
	for _, r := range required {
		if HasName(available, r) {
			existing = append(existing, SafeString(r))
		} else {
			missing++
		}
	}
	return
}

// CheckValidation returns [ErrDevice] unless both the validation layer
// and the debug report extension are among the available names.
func CheckValidation(layers, exts []string) error {
	if !HasName(layers, ValidationLayer) {
		return fmt.Errorf("%w: validation layer %s not available", ErrDevice, ValidationLayer)
	}
	if !HasName(exts, DebugReportExt) {
		return fmt.Errorf("%w: instance extension %s not available", ErrDevice, DebugReportExt)
	}
	return nil
}

// SafeString returns the given string with a null terminator,
// as needed for strings passed to Vulkan.
func SafeString(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\x00' {
		return s
	}
	return s + "\x00"
}

// APIVersion is a decoded Vulkan version number.
type APIVersion struct {
	Variant, Major, Minor, Patch uint32
}

// DecodeVersion splits a packed Vulkan version number into its parts.
func DecodeVersion(v uint32) APIVersion {
	return APIVersion{
		Variant: v >> 29,
		Major:   (v >> 22) & 0x7f,
		Minor:   (v >> 12) & 0x3ff,
		Patch:   v & 0xfff,
	}
}

func (v APIVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
