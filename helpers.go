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

// Split divides data into k equal shards of ceil(len(data)/k) bytes (at
// least 1), zero-padding the end; the padding can cover more than one
// trailing shard, some of them entirely. It returns the shards and the
// (padded) length of each one. This is plain byte-slicing with no
// algorithmic content of its own; it exists so callers don't each hand-roll
// the file-to-shards bookkeeping the original cm256 demo driver did inline.
func Split(data []byte, k int) (shards [][]byte, blockBytes int) {
	if k <= 0 {
		return nil, 0
	}
	blockBytes = (len(data) + k - 1) / k
	if blockBytes == 0 {
		blockBytes = 1
	}

	shards = make([][]byte, k)
	for i := 0; i < k; i++ {
		shard := make([]byte, blockBytes)
		start := i * blockBytes
		end := start + blockBytes
		if start < len(data) {
			if end > len(data) {
				end = len(data)
			}
			copy(shard, data[start:end])
		}
		shards[i] = shard
	}
	return shards, blockBytes
}

// Join concatenates k original shards back into a single buffer truncated
// to totalLen bytes, undoing Split's zero-padding.
func Join(shards [][]byte, totalLen int) []byte {
	out := make([]byte, 0, totalLen)
	for _, s := range shards {
		if len(out)+len(s) > totalLen {
			out = append(out, s[:totalLen-len(out)]...)
			break
		}
		out = append(out, s...)
	}
	return out
}
