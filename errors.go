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

import "errors"

// Error codes mirror the numeric contract in spec.md's interfaces table.
// Each sentinel below carries its code as a method so callers that need the
// bare integer (for an ABI boundary, say) don't have to maintain a parallel
// switch.
var (
	// ErrInvalidParams is code -1: k, m, or B is non-positive, or the number
	// of blocks or the recovery output length does not match them.
	ErrInvalidParams = errors.New("cm256: invalid parameters")
	// ErrTooLarge is code -2: k+m exceeds 256.
	ErrTooLarge = errors.New("cm256: k+m exceeds 256")
	// ErrNullArg is code -3: a required buffer is missing, or a block's
	// buffer is not BlockBytes long.
	ErrNullArg = errors.New("cm256: required argument is nil")
	// ErrDuplicateIndex is code -5: decode received two shards with the
	// same original index.
	ErrDuplicateIndex = errors.New("cm256: duplicate original shard index")
	// ErrVersionMismatch is code -10: Init was called with the wrong ABI
	// version tag.
	ErrVersionMismatch = errors.New("cm256: version mismatch")
)

// Code returns the numeric error code spec.md §7 assigns to err, or 0 if err
// is nil, or 1 if err is not one of this package's sentinels.
func Code(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidParams):
		return -1
	case errors.Is(err, ErrTooLarge):
		return -2
	case errors.Is(err, ErrNullArg):
		return -3
	case errors.Is(err, ErrDuplicateIndex):
		return -5
	case errors.Is(err, ErrVersionMismatch):
		return -10
	default:
		return 1
	}
}
