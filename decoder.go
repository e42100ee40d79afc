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

// decoderState is built fresh for each Decode call, populated from the
// caller's k block descriptors, used once, and discarded. It carries no
// state between calls.
type decoderState struct {
	params EncoderParams

	original []*Block // entries with Index < OriginalCount
	recovery []*Block // entries with Index >= OriginalCount

	// erasures[j] is the original index the j-th recovery row will
	// reconstruct, for j in [0, len(recovery)).
	erasures []byte
}

// initialize classifies blocks into original/recovery and computes the
// erased original indices, per spec.md §4.4. It reuses a single 256-entry
// buffer for the presence bitmap and, after the scan, for the erasures
// list itself (spec.md §9's open question) — every position is read before
// it can be overwritten, since the erasures scan's write cursor never moves
// past its read cursor.
func (d *decoderState) initialize(params EncoderParams, blocks []Block) error {
	d.params = params
	d.original = d.original[:0]
	d.recovery = d.recovery[:0]

	var present [256]byte
	for i := range blocks {
		blk := &blocks[i]
		if blk.Index < params.OriginalCount {
			if present[blk.Index] != 0 {
				return ErrDuplicateIndex
			}
			present[blk.Index] = 1
			d.original = append(d.original, blk)
		} else {
			d.recovery = append(d.recovery, blk)
		}
	}

	// Repurpose the presence bitmap as the erasures output: the scan below
	// only ever reads position i or writes position idx <= i, so writing
	// into the same backing array never clobbers a presence bit before
	// it's read.
	recoveryCount := len(d.recovery)
	erasures := present[:]
	idx := 0
	for i := 0; i < 256 && idx < recoveryCount; i++ {
		if present[i] == 0 {
			erasures[idx] = byte(i)
			idx++
		}
	}
	d.erasures = erasures[:recoveryCount]
	return nil
}

// decodeM1 handles the fast path where the only stand-in is the first
// recovery shard: XOR every surviving original into the sole recovery
// buffer, then relabel its index. Relies on the first recovery row being
// all-ones by construction (spec.md §4.5); a single stand-in from any other
// recovery row goes through the general LDU path instead.
func (d *decoderState) decodeM1() {
	b := d.params.BlockBytes
	out := d.recovery[0].Buffer

	var pending []byte
	for _, o := range d.original {
		in := o.Buffer
		if pending == nil {
			pending = in
		} else {
			gf256.Add2Mem(out, pending, in, b)
			pending = nil
		}
	}
	if pending != nil {
		gf256.AddMem(out, pending, b)
	}

	d.recovery[0].Index = int(d.erasures[0])
}

// cancelOriginals subtracts (XORs) every surviving original's contribution
// out of each recovery buffer, leaving each recovery buffer holding only the
// linear combination of the erased originals (spec.md §4.7 step 1).
func (d *decoderState) cancelOriginals() {
	b := d.params.BlockBytes
	norm := x0(d.params)

	for _, o := range d.original {
		yj := byte(o.Index)
		in := o.Buffer
		for _, rblk := range d.recovery {
			xi := byte(rblk.Index)
			c := matrixElement(xi, norm, yj)
			gf256.MulAddMem(rblk.Buffer, c, in, b)
		}
	}
}
