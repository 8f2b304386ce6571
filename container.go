package zant

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/xxHash/xxHash32"
)

// magic identifies a chunk header, mirroring how lz4.FrameEncoder opens
// its stream with a fixed magic word (andybalholm/pack/lz4/frame.go).
var magic = [4]byte{'Z', 'a', 'N', 'T'}

// chunkHeaderSize is Magic4 + u32 compLen + u32 origLen + u32 checksum.
const chunkHeaderSize = 4 + 4 + 4 + 4

func appendU32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func readU32(src []byte, pos int) (uint32, int, bool) {
	if pos+4 > len(src) {
		return 0, 0, false
	}
	return binary.LittleEndian.Uint32(src[pos:]), pos + 4, true
}

// writeChunkHeader prepends a chunk header to payload, checksumming raw
// (the chunk's original bytes) with xxHash32 the way lz4's frame format
// checksums frame content (frame.go's f.hasher.Write(src)).
func writeChunkHeader(payload, raw []byte) []byte {
	hasher := xxHash32.New(0)
	hasher.Write(raw)

	out := make([]byte, 0, chunkHeaderSize+len(payload))
	out = append(out, magic[:]...)
	out = appendU32(out, uint32(len(payload)))
	out = appendU32(out, uint32(len(raw)))
	out = appendU32(out, hasher.Sum32())
	out = append(out, payload...)
	return out
}

// readChunkHeader parses a chunk header at src[pos:], returning the
// declared payload length, original length, checksum, and the position
// of the first payload byte.
func readChunkHeader(src []byte, pos int) (compLen, origLen int, checksum uint32, payloadPos int, err error) {
	if pos+chunkHeaderSize > len(src) {
		return 0, 0, 0, 0, fmt.Errorf("header at offset %d: %w", pos, ErrTruncatedInput)
	}
	if src[pos] != magic[0] || src[pos+1] != magic[1] || src[pos+2] != magic[2] || src[pos+3] != magic[3] {
		return 0, 0, 0, 0, fmt.Errorf("header at offset %d: %w", pos, ErrBadMagic)
	}
	p := pos + 4
	cl, p, _ := readU32(src, p)
	ol, p, _ := readU32(src, p)
	cs, p, _ := readU32(src, p)
	return int(cl), int(ol), cs, p, nil
}

// verifyChecksum reports whether raw's xxHash32 matches checksum.
func verifyChecksum(raw []byte, checksum uint32) bool {
	hasher := xxHash32.New(0)
	hasher.Write(raw)
	return hasher.Sum32() == checksum
}
