package cm256_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/xtaci/cm256go"
)

func init() {
	if err := cm256.Init(cm256.Version); err != nil {
		panic(err)
	}
}

func makeOriginals(k, b int, fill func(i int) byte) []cm256.Block {
	blocks := make([]cm256.Block, k)
	for i := 0; i < k; i++ {
		buf := make([]byte, b)
		for j := range buf {
			buf[j] = fill(i)
		}
		blocks[i] = cm256.Block{Buffer: buf, Index: i}
	}
	return blocks
}

// S1: k=4, m=1, B=8 parity check.
func TestS1Parity(t *testing.T) {
	k, m, b := 4, 1, 8
	params := cm256.EncoderParams{BlockBytes: b, OriginalCount: k, RecoveryCount: m}
	fills := []byte{0x01, 0x02, 0x04, 0x08}
	originals := makeOriginals(k, b, func(i int) byte { return fills[i] })
	recovery := make([]byte, m*b)

	if err := cm256.Encode(params, originals, recovery); err != nil {
		t.Fatal(err)
	}
	for i, v := range recovery {
		if v != 0x0F {
			t.Fatalf("recovery[%d] = %#x, want 0x0f", i, v)
		}
	}
}

// S2: k=1 degenerate.
func TestS2Degenerate(t *testing.T) {
	k, m, b := 1, 3, 16
	params := cm256.EncoderParams{BlockBytes: b, OriginalCount: k, RecoveryCount: m}
	originals := makeOriginals(k, b, func(i int) byte { return 0xAA })
	recovery := make([]byte, m*b)

	if err := cm256.Encode(params, originals, recovery); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < m*b; i++ {
		if recovery[i] != 0xAA {
			t.Fatalf("recovery byte %d = %#x, want 0xaa", i, recovery[i])
		}
	}
}

// S3: single erasure, non-parity row.
func TestS3SingleErasureNonParity(t *testing.T) {
	k, m, b := 4, 4, 4096
	params := cm256.EncoderParams{BlockBytes: b, OriginalCount: k, RecoveryCount: m}

	r := rand.New(rand.NewSource(42))
	original := make([][]byte, k)
	blocks := make([]cm256.Block, k)
	for i := 0; i < k; i++ {
		buf := make([]byte, b)
		r.Read(buf)
		original[i] = buf
		blocks[i] = cm256.Block{Buffer: append([]byte(nil), buf...), Index: i}
	}

	recovery := make([]byte, m*b)
	if err := cm256.Encode(params, blocks, recovery); err != nil {
		t.Fatal(err)
	}

	decodeBlocks := make([]cm256.Block, k)
	for i := 0; i < k; i++ {
		decodeBlocks[i] = cm256.Block{Buffer: append([]byte(nil), original[i]...), Index: i}
	}
	// Erase original index 2, replace with recovery index 1.
	decodeBlocks[2] = cm256.Block{
		Buffer: append([]byte(nil), recovery[1*b:2*b]...),
		Index:  cm256.GetRecoveryBlockIndex(params, 1),
	}

	if err := cm256.Decode(params, decodeBlocks); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decodeBlocks[2].Buffer, original[2]) {
		t.Fatal("original 2 was not recovered byte-for-byte")
	}
	if decodeBlocks[2].Index != 2 {
		t.Fatalf("recovered block index = %d, want 2", decodeBlocks[2].Index)
	}
}

// S4: max erasures, all originals missing.
func TestS4MaxErasures(t *testing.T) {
	k, m, b := 4, 4, 4096
	params := cm256.EncoderParams{BlockBytes: b, OriginalCount: k, RecoveryCount: m}

	r := rand.New(rand.NewSource(7))
	original := make([][]byte, k)
	blocks := make([]cm256.Block, k)
	for i := 0; i < k; i++ {
		buf := make([]byte, b)
		r.Read(buf)
		original[i] = buf
		blocks[i] = cm256.Block{Buffer: buf, Index: i}
	}

	recovery := make([]byte, m*b)
	if err := cm256.Encode(params, blocks, recovery); err != nil {
		t.Fatal(err)
	}

	decodeBlocks := make([]cm256.Block, k)
	for i := 0; i < m; i++ {
		decodeBlocks[i] = cm256.Block{
			Buffer: append([]byte(nil), recovery[i*b:(i+1)*b]...),
			Index:  cm256.GetRecoveryBlockIndex(params, i),
		}
	}

	if err := cm256.Decode(params, decodeBlocks); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < k; i++ {
		if decodeBlocks[i].Index != i {
			t.Fatalf("block %d has index %d, want %d", i, decodeBlocks[i].Index, i)
		}
		if !bytes.Equal(decodeBlocks[i].Buffer, original[i]) {
			t.Fatalf("original %d was not recovered byte-for-byte", i)
		}
	}
}

// S5: duplicate original index.
func TestS5DuplicateIndex(t *testing.T) {
	k, m, b := 3, 2, 64
	params := cm256.EncoderParams{BlockBytes: b, OriginalCount: k, RecoveryCount: m}
	blocks := []cm256.Block{
		{Buffer: make([]byte, b), Index: 1},
		{Buffer: make([]byte, b), Index: 1},
		{Buffer: make([]byte, b), Index: 2},
	}
	err := cm256.Decode(params, blocks)
	if cm256.Code(err) != -5 {
		t.Fatalf("Code(err) = %d, want -5 (err=%v)", cm256.Code(err), err)
	}
}

// S6: boundary, k=255, m=1, B=1.
func TestS6Boundary(t *testing.T) {
	k, m, b := 255, 1, 1
	params := cm256.EncoderParams{BlockBytes: b, OriginalCount: k, RecoveryCount: m}

	r := rand.New(rand.NewSource(99))
	original := make([][]byte, k)
	blocks := make([]cm256.Block, k)
	for i := 0; i < k; i++ {
		buf := []byte{byte(r.Intn(256))}
		original[i] = buf
		blocks[i] = cm256.Block{Buffer: append([]byte(nil), buf...), Index: i}
	}

	recovery := make([]byte, m*b)
	if err := cm256.Encode(params, blocks, recovery); err != nil {
		t.Fatal(err)
	}

	var want byte
	for i := 0; i < k; i++ {
		want ^= original[i][0]
	}
	if recovery[0] != want {
		t.Fatalf("recovery[0] = %#x, want %#x", recovery[0], want)
	}

	decodeBlocks := make([]cm256.Block, k)
	decodeBlocks[0] = cm256.Block{Buffer: append([]byte(nil), recovery...), Index: cm256.GetRecoveryBlockIndex(params, 0)}
	for i := 1; i < k; i++ {
		decodeBlocks[i] = cm256.Block{Buffer: append([]byte(nil), original[i]...), Index: i}
	}

	if err := cm256.Decode(params, decodeBlocks); err != nil {
		t.Fatal(err)
	}
	if decodeBlocks[0].Buffer[0] != original[0][0] {
		t.Fatalf("recovered byte = %#x, want %#x", decodeBlocks[0].Buffer[0], original[0][0])
	}
}

// Decode is a no-op when nothing is erased.
func TestNoErasuresIsNoop(t *testing.T) {
	k, m, b := 5, 2, 32
	params := cm256.EncoderParams{BlockBytes: b, OriginalCount: k, RecoveryCount: m}
	blocks := makeOriginals(k, b, func(i int) byte { return byte(i + 1) })

	before := make([][]byte, k)
	for i, blk := range blocks {
		before[i] = append([]byte(nil), blk.Buffer...)
	}

	if err := cm256.Decode(params, blocks); err != nil {
		t.Fatal(err)
	}
	for i, blk := range blocks {
		if !bytes.Equal(blk.Buffer, before[i]) {
			t.Fatalf("block %d was mutated when nothing was erased", i)
		}
	}
}

// Index mapping invariant.
func TestBlockIndexMapping(t *testing.T) {
	params := cm256.EncoderParams{BlockBytes: 1, OriginalCount: 10, RecoveryCount: 5}
	for i := 0; i < 5; i++ {
		got := cm256.GetRecoveryBlockIndex(params, i) - cm256.GetOriginalBlockIndex(params, 0)
		if want := params.OriginalCount + i; got != want {
			t.Fatalf("recovery(%d) - original(0) = %d, want %d", i, got, want)
		}
	}
}

// Property test: round trip over a grid of (k, m, B) with a random erasure
// subset of size <= m.
func TestRoundTripProperty(t *testing.T) {
	if err := cm256.Init(cm256.Version); err != nil {
		t.Fatal(err)
	}
	ks := []int{2, 3, 8, 16, 32, 128}
	bs := []int{1, 15, 4096}
	r := rand.New(rand.NewSource(1234))

	for _, k := range ks {
		for _, mFrac := range []int{1, 2, -1} { // -1 means m == k
			m := mFrac
			if mFrac == -1 {
				m = k
			}
			if k+m > 256 {
				continue
			}
			for _, b := range bs {
				params := cm256.EncoderParams{BlockBytes: b, OriginalCount: k, RecoveryCount: m}

				original := make([][]byte, k)
				blocks := make([]cm256.Block, k)
				for i := 0; i < k; i++ {
					buf := make([]byte, b)
					r.Read(buf)
					original[i] = buf
					blocks[i] = cm256.Block{Buffer: append([]byte(nil), buf...), Index: i}
				}

				recovery := make([]byte, m*b)
				if err := cm256.Encode(params, blocks, recovery); err != nil {
					t.Fatalf("k=%d m=%d b=%d: encode: %v", k, m, b, err)
				}

				erasureCount := 1 + r.Intn(m)
				erased := r.Perm(k)[:erasureCount]
				erasedSet := make(map[int]bool, erasureCount)
				for _, e := range erased {
					erasedSet[e] = true
				}

				decodeBlocks := make([]cm256.Block, k)
				recoveryUsed := 0
				for i := 0; i < k; i++ {
					if erasedSet[i] {
						ri := recoveryUsed
						recoveryUsed++
						decodeBlocks[i] = cm256.Block{
							Buffer: append([]byte(nil), recovery[ri*b:(ri+1)*b]...),
							Index:  cm256.GetRecoveryBlockIndex(params, ri),
						}
					} else {
						decodeBlocks[i] = cm256.Block{Buffer: append([]byte(nil), original[i]...), Index: i}
					}
				}

				if err := cm256.Decode(params, decodeBlocks); err != nil {
					t.Fatalf("k=%d m=%d b=%d erased=%v: decode: %v", k, m, b, erased, err)
				}
				for i := 0; i < k; i++ {
					if decodeBlocks[i].Index != i {
						t.Fatalf("k=%d m=%d b=%d: block %d has index %d", k, m, b, i, decodeBlocks[i].Index)
					}
					if !bytes.Equal(decodeBlocks[i].Buffer, original[i]) {
						t.Fatalf("k=%d m=%d b=%d erased=%v: block %d mismatch", k, m, b, erased, i)
					}
				}
			}
		}
	}
}
