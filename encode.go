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

package cm256

import "github.com/xtaci/cm256go/gf256"

// Encode produces params.RecoveryCount recovery shards from
// params.OriginalCount original shards. originals must have exactly
// params.OriginalCount entries, each params.BlockBytes long; recoveryOut
// must be params.RecoveryCount*params.BlockBytes bytes, and is split into
// equal row-major slices, one per recovery shard. Encode touches no heap.
func Encode(params EncoderParams, originals []Block, recoveryOut []byte) error {
	if err := validateParams(params); err != nil {
		return err
	}
	if originals == nil || recoveryOut == nil {
		return ErrNullArg
	}
	if len(originals) != params.OriginalCount {
		return ErrInvalidParams
	}
	if len(recoveryOut) != params.RecoveryCount*params.BlockBytes {
		return ErrInvalidParams
	}
	for _, o := range originals {
		if o.Buffer == nil || len(o.Buffer) != params.BlockBytes {
			return ErrNullArg
		}
	}

	b := params.BlockBytes

	for r := 0; r < params.RecoveryCount; r++ {
		dst := recoveryOut[r*b : (r+1)*b]
		encodeRow(params, originals, r, dst)
	}
	return nil
}

// encodeRow computes the recovery shard for logical recovery row r into dst.
func encodeRow(params EncoderParams, originals []Block, r int, dst []byte) {
	k := params.OriginalCount
	b := params.BlockBytes

	// Degenerate case: a single original shard is trivially its own parity.
	if k == 1 {
		copy(dst, originals[0].Buffer[:b])
		return
	}

	// First row is the all-ones parity row: pure XOR of every original.
	if r == 0 {
		gf256.AddSetMem(dst, originals[0].Buffer, originals[1].Buffer, b)
		for j := 2; j < k; j++ {
			gf256.AddMem(dst, originals[j].Buffer, b)
		}
		return
	}

	norm := x0(params)
	xi := byte(k + r)

	m0 := matrixElement(xi, norm, 0)
	gf256.MulMem(dst, originals[0].Buffer, m0, b)
	for j := 1; j < k; j++ {
		mj := matrixElement(xi, norm, byte(j))
		gf256.MulAddMem(dst, mj, originals[j].Buffer, b)
	}
}
