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

// Decode reconstructs erased originals in place. blocks must have exactly
// params.OriginalCount entries; any entry whose Index is >= OriginalCount is
// treated as a recovery shard standing in for a missing original. On
// success, every entry that was a stand-in recovery shard now holds the
// original shard it reconstructed, and its Index has been relabeled to that
// original's index.
//
// If no shard is missing, Decode returns success and leaves every buffer
// untouched. On any error detected before the LDU factorization begins,
// caller buffers are untouched; errors from the factorization onward leave
// recovery buffers in an unspecified state.
func Decode(params EncoderParams, blocks []Block) error {
	if err := validateParams(params); err != nil {
		return err
	}
	if blocks == nil {
		return ErrNullArg
	}
	if len(blocks) != params.OriginalCount {
		return ErrInvalidParams
	}
	for i := range blocks {
		if blocks[i].Buffer == nil || len(blocks[i].Buffer) != params.BlockBytes {
			return ErrNullArg
		}
	}

	if params.OriginalCount == 1 {
		blocks[0].Index = 0
		return nil
	}

	var d decoderState
	if err := d.initialize(params, blocks); err != nil {
		return err
	}

	if len(d.recovery) == 0 {
		return nil
	}
	if len(d.recovery) == 1 && d.recovery[0].Index == GetRecoveryBlockIndex(params, 0) {
		d.decodeM1()
		return nil
	}

	d.cancelOriginals()
	factors := d.generateLDU()
	d.applyLDU(factors)
	return nil
}

// applyLDU runs the three substitution passes of spec.md §4.7 steps 3-5
// over the recovery buffers, turning each one from "linear combination of
// erased originals" into the original shard it names.
func (d *decoderState) applyLDU(f ldu) {
	n := len(d.recovery)
	b := d.params.BlockBytes

	// Forward elimination: apply L^-1. matrixL is consumed in storage
	// order, which is row-major over (j, i) with j the column and i the
	// row, j in [0,N-2], i in (j, N).
	lIdx := 0
	for j := 0; j < n-1; j++ {
		blockJ := d.recovery[j].Buffer
		for i := j + 1; i < n; i++ {
			blockI := d.recovery[i].Buffer
			gf256.MulAddMem(blockI, f.matrixL[lIdx], blockJ, b)
			lIdx++
		}
	}

	// Diagonal: apply D^-1 and relabel each recovery block to the
	// original index it now holds.
	for i := 0; i < n; i++ {
		blk := d.recovery[i]
		blk.Index = int(d.erasures[i])
		gf256.DivMem(blk.Buffer, blk.Buffer, f.diagD[i], b)
	}

	// Back substitution: apply U^-1. matrixU is consumed in storage
	// order, row-major over (j, i) with j descending from N-1 to 1 and i
	// descending from j-1 to 0.
	uIdx := 0
	for j := n - 1; j >= 1; j-- {
		blockJ := d.recovery[j].Buffer
		for i := j - 1; i >= 0; i-- {
			blockI := d.recovery[i].Buffer
			gf256.MulAddMem(blockI, f.matrixU[uIdx], blockJ, b)
			uIdx++
		}
	}
}
