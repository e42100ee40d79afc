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

// ldu holds the L*D*U factorization of the N x N Cauchy sub-matrix whose
// rows are the surviving recovery x-coordinates and whose columns are the
// erased original y-coordinates. L is unit lower-triangular, U is unit
// upper-triangular, D is diagonal.
//
// Storage layout (spec.md §4.6): matrixU holds the strict upper triangle
// packed columns-bottom-up (each row written back-to-front during
// elimination, read front-to-back during back substitution); matrixL holds
// the strict lower triangle packed columns-top-down, filled sequentially
// during elimination; diagD is the N-entry diagonal.
type ldu struct {
	matrixL []byte
	diagD   []byte
	matrixU []byte
}

// generateLDU runs the Boros-Kailath-Olshevsky Schur-type direct Cauchy
// factorization specialized to the decoder's surviving-recovery /
// erased-original sub-matrix, with the triangular factors' diagonals folded
// into D to cut down on per-row multiplies (spec.md §4.6).
func (d *decoderState) generateLDU() ldu {
	n := len(d.recovery)
	out := ldu{
		matrixL: make([]byte, n*(n-1)/2),
		diagD:   make([]byte, n),
		matrixU: make([]byte, n*(n-1)/2),
	}

	norm := x0(d.params)
	g := make([]byte, n)
	b := make([]byte, n)
	for i := range g {
		g[i] = 1
		b[i] = 1
	}

	rotatedU := make([]byte, n)

	lastU := 0
	if n > 1 {
		lastU = (n-1)*n/2 - 1
	}
	firstOffsetU := 0

	for k := 0; k < n-1; k++ {
		xk := byte(d.recovery[k].Index)
		yk := d.erasures[k]

		dkk := gf256.Add(xk, yk)
		lkk := mustDiv(g[k], dkk)
		ukk := gf256.Mul(mustDiv(b[k], dkk), gf256.Add(norm, yk))
		out.diagD[k] = gf256.Mul(dkk, gf256.Mul(lkk, ukk))

		count := n - (k + 1)
		rowL := out.matrixL[lRowOffset(n, k):]
		rowU := rotatedU[:count]
		for j := k + 1; j < n; j++ {
			xj := byte(d.recovery[j].Index)
			yj := d.erasures[j]

			ljk := mustDiv(g[j], gf256.Add(xj, yk))
			ukj := mustDiv(b[j], gf256.Add(xk, yj))

			idx := j - (k + 1)
			rowL[idx] = ljk
			rowU[idx] = ukj

			g[j] = gf256.Mul(g[j], mustDiv(gf256.Add(xj, xk), gf256.Add(xj, yk)))
			b[j] = gf256.Mul(b[j], mustDiv(gf256.Add(yj, yk), gf256.Add(yj, xk)))
		}

		gf256.DivMem(rowL, rowL, lkk, count)
		gf256.DivMem(rowU, rowU, ukk, count)

		// Copy the rotated row into matrixU's bottom-up packing: walk
		// backward in memory with stride -j starting at firstOffsetU.
		outputU := lastU + firstOffsetU
		for j := k + 1; j < n; j++ {
			out.matrixU[outputU] = rowU[j-(k+1)]
			outputU -= j
		}
		firstOffsetU -= k + 2
	}

	// Fold (x0+yj) into each row of U, walking rows from last to first.
	cursor := 0
	for j := n - 1; j > 0; j-- {
		yj := d.erasures[j]
		count := j
		row := out.matrixU[cursor : cursor+count]
		gf256.MulMem(row, row, gf256.Add(norm, yj), count)
		cursor += count
	}

	if n >= 1 {
		last := n - 1
		xn := byte(d.recovery[last].Index)
		yn := d.erasures[last]
		lnn := g[last]
		unn := gf256.Mul(b[last], gf256.Add(norm, yn))
		out.diagD[last] = mustDiv(gf256.Mul(lnn, unn), gf256.Add(xn, yn))
	}

	return out
}

// lRowOffset returns the offset into the top-down-packed strict lower
// triangle of an N x N matrix where column k's entries for rows k+1..N-1
// begin.
func lRowOffset(n, k int) int {
	// Column k contributes n-(k+1) entries; columns before it contributed
	// n-1, n-2, ..., n-k entries.
	total := 0
	for i := 0; i < k; i++ {
		total += n - (i + 1)
	}
	return total
}

// mustDiv divides two GF(256) elements where the divisor is statically
// known to be non-zero by construction of the Cauchy coordinates.
func mustDiv(a, b byte) byte {
	v, err := gf256.Div(a, b)
	if err != nil {
		panic("cm256: unexpected zero divisor in LDU factorization")
	}
	return v
}
