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

// Package gf256 is the GF(256) arithmetic collaborator used by cm256go's
// Cauchy encoder and decoder. It owns the field's log/antilog tables and the
// bulk byte-region operations the encoder/decoder run shards through. Table
// construction and vectorization strategy are deliberately unremarkable:
// read-only multiplication and division tables built once at Init, plus
// xorsimd for the pure-XOR bulk paths.
package gf256

import (
	"errors"
	"sync"

	"github.com/templexxx/xorsimd"
)

// polynomial is the degree-8 irreducible polynomial defining the field,
// x^8 + x^4 + x^3 + x^2 + 1. generator must be a primitive element of the
// field (order 255) for buildTables to enumerate every non-zero element;
// 3 is not primitive under this polynomial (its order is only 51), so 2 is
// used instead.
const (
	polynomial = 0x11D
	generator  = 2
)

// ErrZeroDivisor is returned by Div when c == 0.
var ErrZeroDivisor = errors.New("gf256: division by zero")

var (
	expTable [512]byte // extended so expTable[log_a+log_b] needs no modulo
	logTable [256]uint16
	mulTable [256][256]byte
	// divByTable[c][v] = v/c, i.e. row c is "divide by c" applied to every
	// possible dividend. Indexed this way (divisor first) so DivMem's inner
	// loop is a single table lookup per byte, same shape as mulTable.
	divByTable [256][256]byte
	tablesOnce sync.Once
)

// Init builds the field tables. It is idempotent and safe to call more than
// once; later calls are no-ops. It takes no version tag: GF(256) itself has
// no ABI tag of its own to check — that check lives in the cm256 package,
// which delegates table construction to this function.
func Init() {
	tablesOnce.Do(buildTables)
}

func buildTables() {
	// Walk powers of the generator to build log/antilog tables.
	x := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(x)
		logTable[byte(x)] = uint16(i)
		x = mulNoTable(x, generator)
	}
	for i := 255; i < 512; i++ {
		expTable[i] = expTable[i-255]
	}

	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			mulTable[a][b] = mulDirect(byte(a), byte(b))
		}
	}
	for c := 1; c < 256; c++ {
		for v := 0; v < 256; v++ {
			divByTable[c][v] = divDirect(byte(v), byte(c))
		}
	}
}

// mulNoTable multiplies two field elements the long way (carry-less
// multiply + reduction), used only while constructing the log table.
func mulNoTable(a, b int) int {
	var r int
	for b > 0 {
		if b&1 != 0 {
			r ^= a
		}
		a <<= 1
		if a&0x100 != 0 {
			a ^= polynomial
		}
		b >>= 1
	}
	return r
}

func mulDirect(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	sum := int(logTable[a]) + int(logTable[b])
	return expTable[sum]
}

func divDirect(a, b byte) byte {
	if a == 0 {
		return 0
	}
	diff := int(logTable[a]) - int(logTable[b]) + 255
	return expTable[diff%255]
}

// Add is GF(256) addition: bitwise XOR.
func Add(a, b byte) byte { return a ^ b }

// Mul is GF(256) multiplication.
func Mul(a, b byte) byte { return mulTable[a][b] }

// Div is GF(256) division, a/b. b must be non-zero.
func Div(a, b byte) (byte, error) {
	if b == 0 {
		return 0, ErrZeroDivisor
	}
	return divByTable[b][a], nil
}

// AddMem computes dst[i] ^= src[i] for i in [0, n).
func AddMem(dst, src []byte, n int) {
	xorsimd.Encode(dst[:n], [][]byte{dst[:n], src[:n]})
}

// Add2Mem computes dst[i] ^= a[i] ^ b[i] for i in [0, n).
func Add2Mem(dst, a, b []byte, n int) {
	xorsimd.Encode(dst[:n], [][]byte{dst[:n], a[:n], b[:n]})
}

// AddSetMem computes dst[i] = a[i] ^ b[i] for i in [0, n).
func AddSetMem(dst, a, b []byte, n int) {
	xorsimd.Bytes(dst[:n], a[:n], b[:n])
}

// MulMem computes dst[i] = c*src[i] for i in [0, n).
func MulMem(dst, src []byte, c byte, n int) {
	if c == 1 {
		copy(dst[:n], src[:n])
		return
	}
	row := &mulTable[c]
	s := src[:n]
	d := dst[:n]
	for i, v := range s {
		d[i] = row[v]
	}
}

// MulAddMem computes dst[i] ^= c*src[i] for i in [0, n).
func MulAddMem(dst []byte, c byte, src []byte, n int) {
	if c == 1 {
		AddMem(dst, src, n)
		return
	}
	row := &mulTable[c]
	s := src[:n]
	d := dst[:n]
	for i, v := range s {
		d[i] ^= row[v]
	}
}

// DivMem computes dst[i] = src[i]/c for i in [0, n). c must be non-zero.
func DivMem(dst, src []byte, c byte, n int) {
	row := &divByTable[c]
	s := src[:n]
	d := dst[:n]
	for i, v := range s {
		d[i] = row[v]
	}
}
