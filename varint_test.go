package zant

import "testing"

func TestLengthRunRoundTrip(t *testing.T) {
	values := []int{0, 1, 4, 254, 255, 256, 509, 510, 511, 1000, 65535, 1 << 20}
	var buf []byte
	for _, v := range values {
		buf = appendLengthRun(buf, v)
	}

	pos := 0
	for _, want := range values {
		got, newPos, ok := readLengthRun(buf, pos)
		if !ok {
			t.Fatalf("readLengthRun failed at pos %d (want %d)", pos, want)
		}
		if got != want {
			t.Fatalf("readLengthRun = %d, want %d", got, want)
		}
		pos = newPos
	}
	if pos != len(buf) {
		t.Fatalf("leftover bytes: pos=%d len=%d", pos, len(buf))
	}
}

func TestLengthRunTruncated(t *testing.T) {
	buf := appendLengthRun(nil, 600) // two 255 bytes then a remainder byte
	if _, _, ok := readLengthRun(buf[:len(buf)-1], 0); ok {
		t.Fatal("expected truncated readLengthRun to fail")
	}
}

func TestLengthRunZero(t *testing.T) {
	buf := appendLengthRun(nil, 0)
	if len(buf) != 1 || buf[0] != 0 {
		t.Fatalf("appendLengthRun(0) = %v, want [0]", buf)
	}
	v, pos, ok := readLengthRun(buf, 0)
	if !ok || v != 0 || pos != 1 {
		t.Fatalf("readLengthRun(0) = (%d, %d, %v)", v, pos, ok)
	}
}
