// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package cm256 implements a Reed-Solomon-style erasure code over GF(256)
// built on a Cauchy generator matrix. Given k equally-sized original shards
// it produces m recovery shards such that any k of the k+m shards suffice to
// reconstruct the originals, provided k+m <= 256.
//
// The GF(256) arithmetic itself (addition, multiplication, division, and the
// bulk byte-region variants of each) is supplied by the gf256 sub-package;
// this package builds the Cauchy matrix, the encoder, and the LDU-based
// decoder on top of it.
package cm256

import "github.com/xtaci/cm256go/gf256"

// Version is the compile-time ABI tag. Callers pass this to Init; any other
// value is rejected with ErrVersionMismatch.
const Version = 2

// Block is a shard: a caller-owned buffer together with its logical index
// in [0, 256). Indices in [0, k) are original shards, indices in [k, k+m)
// are recovery shards. Decode mutates Buffer and Index in place for entries
// that turn out to hold recovered originals.
type Block struct {
	Buffer []byte
	Index  int
}

// EncoderParams describes one encode/decode call: the number of original
// shards, the number of recovery shards, and the shared shard length.
type EncoderParams struct {
	BlockBytes    int
	OriginalCount int
	RecoveryCount int
}

// Init verifies the caller's ABI tag against Version and initializes the
// GF(256) collaborator's tables. It is not thread-sensitive: call it once,
// before any Encode or Decode, from a single goroutine.
func Init(version int) error {
	if version != Version {
		return ErrVersionMismatch
	}
	gf256.Init()
	return nil
}

// GetOriginalBlockIndex maps a logical original shard position i in
// [0, k) to its wire index, which for this fixed layout is i itself.
func GetOriginalBlockIndex(params EncoderParams, i int) int {
	return i
}

// GetRecoveryBlockIndex maps a logical recovery shard position i in
// [0, m) to its wire index, k+i.
func GetRecoveryBlockIndex(params EncoderParams, i int) int {
	return params.OriginalCount + i
}

// x0 is the Cauchy normalizer: the "first" recovery x-coordinate, chosen so
// the first recovery row reduces to pure XOR after normalization.
func x0(params EncoderParams) byte {
	return byte(params.OriginalCount)
}

// matrixElement computes a(xi, x0, yj) = (yj + x0) / (xi + yj) in GF(256).
// For xi == x0 this evaluates to 1. Encode special-cases the first recovery
// row as a pure XOR instead of calling this (spec.md §4.2); the decoder's
// cancellation pass calls it for every recovery row, the first included.
func matrixElement(xi, x0, yj byte) byte {
	v, err := gf256.Div(gf256.Add(yj, x0), gf256.Add(xi, yj))
	if err != nil {
		// xi and yj never coincide for valid Cauchy coordinates (yj < k
		// <= xi), so the denominator is never zero.
		panic("cm256: degenerate Cauchy coordinates")
	}
	return v
}

func validateParams(params EncoderParams) error {
	if params.OriginalCount <= 0 || params.RecoveryCount <= 0 || params.BlockBytes <= 0 {
		return ErrInvalidParams
	}
	if params.OriginalCount+params.RecoveryCount > 256 {
		return ErrTooLarge
	}
	return nil
}
