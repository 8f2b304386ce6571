package zant

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestCompressDecompressEmpty(t *testing.T) {
	out, err := Compress(nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatal("expected at least a chunk header for empty input")
	}
	got, err := Decompress(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("decompressed empty input to %d bytes", len(got))
	}
}

func TestCompressDecompressSixteenZeros(t *testing.T) {
	data := make([]byte, 16)
	out, err := Compress(data, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) > len(data) {
		t.Fatalf("compressed (%d) larger than input (%d)", len(out), len(data))
	}
	got, err := Decompress(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch")
	}
}

func TestCompressDecompressRepeatingShort(t *testing.T) {
	data := []byte("abcabcabcabcabcabc") // 18 bytes
	for level := 1; level <= 9; level++ {
		out, err := Compress(data, level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		got, err := Decompress(out)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("level %d: round trip mismatch", level)
		}
	}
}

const naturalLanguageParagraph = `Much of what follows depends upon the reader's willingness to
entertain a distinction that, on its surface, appears almost too fine
to bear the weight placed upon it: the distinction between a thing
repeated and a thing merely recalled. Compression, in its oldest and
most literal sense, has always traded on this distinction, exploiting
the fact that most of what we write, and most of what we observe,
recurs with a regularity we rarely notice until we are asked to count
it. A letter, a word, a phrase: each appears again, and again, close
enough behind its earlier self that a careful reader, or a careful
machine, can profit from the memory of having seen it before. `

func TestCompressNaturalLanguageRatio(t *testing.T) {
	var buf bytes.Buffer
	for buf.Len() < 1<<20 {
		buf.WriteString(naturalLanguageParagraph)
	}
	data := buf.Bytes()[:1<<20]

	out, err := Compress(data, 5)
	if err != nil {
		t.Fatal(err)
	}
	ratio := float64(len(out)) / float64(len(data))
	if ratio >= 0.55 {
		t.Fatalf("ratio %.4f not below 0.55 (in=%d out=%d)", ratio, len(data), len(out))
	}

	got, err := Decompress(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch")
	}
}

func TestCompressRandomDataRatio(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 4 MiB random-data test in short mode")
	}
	data := make([]byte, 4<<20)
	rand.New(rand.NewSource(42)).Read(data)

	out, err := Compress(data, 6)
	if err != nil {
		t.Fatal(err)
	}
	ratio := float64(len(out)) / float64(len(data))
	if ratio < 0.98 {
		t.Fatalf("ratio %.4f below 0.98 on incompressible data (in=%d out=%d)", ratio, len(data), len(out))
	}

	got, err := Decompress(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch")
	}
}

func TestDecompressTruncatedNeverPanics(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly: " +
		"the quick brown fox jumps over the lazy dog.")
	out, err := Compress(data, 5)
	if err != nil {
		t.Fatal(err)
	}

	for cut := 1; cut <= len(out); cut++ {
		truncated := out[:len(out)-cut]
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Decompress panicked on truncated input (cut=%d): %v", cut, r)
				}
			}()
			got, err := Decompress(truncated)
			if err == nil && !bytes.Equal(got, data) {
				t.Fatalf("Decompress succeeded on truncated input (cut=%d) with wrong data", cut)
			}
		}()
	}
}

// TestDecompressCorruptedMiddleNeverPanics flips individual payload
// bytes (rather than truncating the tail, which the header's compLen
// bounds check alone rejects) to exercise the bitio-panic-to-error
// conversion in decodeSectionBody and reconstruct.
func TestDecompressCorruptedMiddleNeverPanics(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly: " +
		"the quick brown fox jumps over the lazy dog.")
	out, err := Compress(data, 5)
	if err != nil {
		t.Fatal(err)
	}

	for i := chunkHeaderSize; i < len(out); i += 3 {
		corrupt := append([]byte(nil), out...)
		corrupt[i] ^= 0xFF
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Decompress panicked on corrupted byte %d: %v", i, r)
				}
			}()
			Decompress(corrupt)
		}()
	}
}

func TestDecompressBadMagic(t *testing.T) {
	out, err := Compress([]byte("hello world"), 3)
	if err != nil {
		t.Fatal(err)
	}
	corrupt := append([]byte(nil), out...)
	corrupt[0] ^= 0xFF
	_, err = Decompress(corrupt)
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestCompressDecompressAllLevels(t *testing.T) {
	data := []byte(naturalLanguageParagraph + naturalLanguageParagraph)
	for level := 1; level <= 9; level++ {
		out, err := Compress(data, level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		got, err := Decompress(out)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("level %d: round trip mismatch", level)
		}
	}
}

func TestCompressMultiChunk(t *testing.T) {
	data := make([]byte, MaxChunkSize+1000)
	rand.New(rand.NewSource(3)).Read(data)
	out, err := Compress(data, 2)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decompress(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("multi-chunk round trip mismatch")
	}
}
