package zant

// appendLengthRun serializes v using the classical LZ4-style length
// escape (spec.md §3): full 255-valued bytes while v >= 255, then the
// remainder. Grounded on andybalholm/pack/lz4/block.go's appendInt and
// cross-checked against original_source/src/utils.rs's
// variable_length_encoding::encode, which implements the same scheme.
func appendLengthRun(dst []byte, v int) []byte {
	for v >= 255 {
		dst = append(dst, 255)
		v -= 255
	}
	return append(dst, byte(v))
}

// readLengthRun parses a value encoded by appendLengthRun starting at
// src[pos], returning the value and the new position. ok is false if
// src is exhausted before a terminating (< 255) byte is found.
func readLengthRun(src []byte, pos int) (v, newPos int, ok bool) {
	for {
		if pos >= len(src) {
			return 0, 0, false
		}
		b := src[pos]
		pos++
		v += int(b)
		if b != 255 {
			return v, pos, true
		}
	}
}
