package bitio

import (
	"math/rand"
	"testing"
)

func TestRoundTripFixed(t *testing.T) {
	cases := []struct {
		n uint
		v uint64
	}{
		{1, 0}, {1, 1}, {8, 0xff}, {12, 0xabc}, {32, 0xdeadbeef},
		{56, (1 << 56) - 1}, {3, 5}, {0, 0},
	}

	w := NewWriter(nil)
	for _, c := range cases {
		w.Write(c.v, c.n)
	}
	data := w.Flush()

	r := NewReader(data)
	for _, c := range cases {
		got := r.Read(c.n)
		if got != c.v {
			t.Fatalf("Read(%d) = %#x, want %#x", c.n, got, c.v)
		}
	}
}

func TestRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	type pair struct {
		n uint
		v uint64
	}
	var pairs []pair
	for i := 0; i < 2000; i++ {
		n := uint(1 + rng.Intn(56))
		v := rng.Uint64() & (1<<n - 1)
		pairs = append(pairs, pair{n, v})
	}

	w := NewWriter(nil)
	for _, p := range pairs {
		w.Write(p.v, p.n)
	}
	data := w.Flush()

	r := NewReader(data)
	for i, p := range pairs {
		got := r.Read(p.n)
		if got != p.v {
			t.Fatalf("pair %d: Read(%d) = %#x, want %#x", i, p.n, got, p.v)
		}
	}
}

func TestFlushPadsHighBits(t *testing.T) {
	w := NewWriter(nil)
	w.Write(1, 1)
	data := w.Flush()
	if len(data) != 1 {
		t.Fatalf("expected 1 byte, got %d", len(data))
	}
	if data[0] != 1 {
		t.Fatalf("expected padded byte 0x01, got %#x", data[0])
	}
}

func TestReadPastEndPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on read past end")
		}
	}()
	r := NewReader(nil)
	r.Read(1)
}
