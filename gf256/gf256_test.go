package gf256

import (
	"math/rand"
	"testing"
)

func TestMain(m *testing.M) {
	Init()
	m.Run()
}

func TestAddIsXor(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			if got, want := Add(byte(a), byte(b)), byte(a)^byte(b); got != want {
				t.Fatalf("Add(%d,%d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestMulDivInverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		for b := 1; b < 256; b++ {
			q, err := Div(byte(a), byte(b))
			if err != nil {
				t.Fatal(err)
			}
			if got := Mul(q, byte(b)); got != byte(a) {
				t.Fatalf("Mul(Div(%d,%d),%d) = %d, want %d", a, b, b, got, a)
			}
		}
	}
}

func TestMulIdentityAndZero(t *testing.T) {
	for a := 0; a < 256; a++ {
		if Mul(byte(a), 1) != byte(a) {
			t.Fatalf("Mul(%d,1) != %d", a, a)
		}
		if Mul(byte(a), 0) != 0 {
			t.Fatalf("Mul(%d,0) != 0", a)
		}
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(5, 0); err != ErrZeroDivisor {
		t.Fatalf("expected ErrZeroDivisor, got %v", err)
	}
}

func TestMulAddMemMatchesNaiveLoop(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 7, 255, 4096} {
		src := make([]byte, n)
		dstA := make([]byte, n)
		dstB := make([]byte, n)
		r.Read(src)
		r.Read(dstA)
		copy(dstB, dstA)

		c := byte(r.Intn(256))
		MulAddMem(dstA, c, src, n)
		for i := 0; i < n; i++ {
			dstB[i] ^= Mul(c, src[i])
		}
		for i := 0; i < n; i++ {
			if dstA[i] != dstB[i] {
				t.Fatalf("n=%d c=%d: byte %d mismatch: %d != %d", n, c, i, dstA[i], dstB[i])
			}
		}
	}
}

func TestAddSetMemAndAdd2Mem(t *testing.T) {
	a := []byte{1, 2, 3, 4}
	b := []byte{5, 6, 7, 8}
	dst := make([]byte, 4)
	AddSetMem(dst, a, b, 4)
	for i := range dst {
		if dst[i] != a[i]^b[i] {
			t.Fatalf("AddSetMem byte %d: got %d want %d", i, dst[i], a[i]^b[i])
		}
	}

	dst2 := []byte{9, 9, 9, 9}
	want := make([]byte, 4)
	for i := range want {
		want[i] = dst2[i] ^ a[i] ^ b[i]
	}
	Add2Mem(dst2, a, b, 4)
	for i := range dst2 {
		if dst2[i] != want[i] {
			t.Fatalf("Add2Mem byte %d: got %d want %d", i, dst2[i], want[i])
		}
	}
}

func TestDivMemRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	src := make([]byte, 4096)
	r.Read(src)
	c := byte(17)

	mulled := make([]byte, len(src))
	MulMem(mulled, src, c, len(src))

	divided := make([]byte, len(src))
	DivMem(divided, mulled, c, len(src))

	for i := range src {
		if divided[i] != src[i] {
			t.Fatalf("byte %d: got %d want %d", i, divided[i], src[i])
		}
	}
}
