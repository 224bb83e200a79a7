// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package randx provides a random number source that can be either
// a separate seeded generator or the global one, so that test images
// and benchmarks are reproducible.
package randx

import "math/rand"

// Rand provides an interface with the standard
// rand.Rand methods used here, to support the use of either the
// global rand generator or a separate Rand source.
type Rand interface {
	// Seed uses the provided seed value to initialize the generator to a deterministic state.
	// Seed should not be called concurrently with any other Rand method.
	Seed(seed int64)

	// Int returns a non-negative pseudo-random int.
	Int() int

	// Intn returns, as an int, a non-negative pseudo-random number in the half-open interval [0,n).
	// It panics if n <= 0.
	Intn(n int) int

	// Uint32 returns a pseudo-random 32-bit value as a uint32.
	Uint32() uint32

	// Float64 returns, as a float64, a pseudo-random number in the half-open interval [0.0,1.0).
	Float64() float64

	// Fill fills p with pseudo-random bytes.
	Fill(p []byte)
}

// SysRand supports the system random number generator
// for either a separate rand.Rand source, or, if that
// is nil, the global rand stream.
type SysRand struct {

	// if non-nil, use this random number source instead of the global default one
	Rand *rand.Rand
}

// NewGlobalRand returns a new SysRand that implements the
// randx.Rand interface, with the system global rand source.
func NewGlobalRand() *SysRand {
	return &SysRand{}
}

// NewSysRand returns a new SysRand with a new
// rand.Rand random source with given initial seed.
func NewSysRand(seed int64) *SysRand {
	r := &SysRand{}
	r.NewRand(seed)
	return r
}

// NewRand sets Rand to a new rand.Rand source using given seed.
func (r *SysRand) NewRand(seed int64) {
	// #nosec G404
	r.Rand = rand.New(rand.NewSource(seed))
}

// Seed uses the provided seed value to initialize the generator to a deterministic state.
// With the global source, this replaces it with a new seeded source.
func (r *SysRand) Seed(seed int64) {
	if r.Rand == nil {
		r.NewRand(seed)
		return
	}
	r.Rand.Seed(seed)
}

// Int returns a non-negative pseudo-random int.
func (r *SysRand) Int() int {
	if r.Rand == nil {
		return rand.Int()
	}
	return r.Rand.Int()
}

// Intn returns, as an int, a non-negative pseudo-random number in the half-open interval [0,n).
// It panics if n <= 0.
func (r *SysRand) Intn(n int) int {
	if r.Rand == nil {
		return rand.Intn(n)
	}
	return r.Rand.Intn(n)
}

// Uint32 returns a pseudo-random 32-bit value as a uint32.
func (r *SysRand) Uint32() uint32 {
	if r.Rand == nil {
		return rand.Uint32()
	}
	return r.Rand.Uint32()
}

// Float64 returns, as a float64, a pseudo-random number in the half-open interval [0.0,1.0).
func (r *SysRand) Float64() float64 {
	if r.Rand == nil {
		return rand.Float64()
	}
	return r.Rand.Float64()
}

// Fill fills p with pseudo-random bytes, four per Uint32 draw,
// low byte first.
func (r *SysRand) Fill(p []byte) {
	for i := 0; i < len(p); i += 4 {
		v := r.Uint32()
		for j := i; j < min(i+4, len(p)); j++ {
			p[j] = byte(v)
			v >>= 8
		}
	}
}
