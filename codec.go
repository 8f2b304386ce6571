package zant

import (
	"fmt"

	"github.com/zant-codec/zant/internal/bitio"
	"github.com/zant-codec/zant/internal/tans"
)

// Compress returns the compressed form of src at the given level (1-9,
// clamped; see levelFor). The input is split into chunks of at most
// MaxChunkSize bytes, each framed and checksummed independently
// (andybalholm/pack/lz4's frame-per-call structure, generalized to
// multiple same-format chunks instead of one LZ4 frame's many blocks).
func Compress(src []byte, level int) ([]byte, error) {
	if len(src) == 0 {
		return encodeChunk(nil, level)
	}
	var out []byte
	for off := 0; off < len(src); off += MaxChunkSize {
		end := off + MaxChunkSize
		if end > len(src) {
			end = len(src)
		}
		chunk, err := encodeChunk(src[off:end], level)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// Decompress reverses Compress, reading chunks until src is exhausted.
// src must hold at least one chunk; an empty src is truncated input. Any error is wrapped with the index and starting byte offset of the
// chunk that produced it, so errors.Is still matches the sentinel while
// the message pinpoints where in src decoding failed.
func Decompress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("chunk 0 at offset 0: %w", ErrTruncatedInput)
	}
	var out []byte
	pos := 0
	for chunkIdx := 0; pos < len(src); chunkIdx++ {
		start := pos
		data, newPos, err := decodeChunk(src, pos)
		if err != nil {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", chunkIdx, start, err)
		}
		out = append(out, data...)
		pos = newPos
	}
	return out, nil
}

// encodeChunk builds one framed chunk from a parser's packet sequence
// over data (original_source/src/block.rs's BlockEncoder: lit stream,
// lit-lens, offsets, match-lens, assembled around one parse pass).
func encodeChunk(data []byte, level int) ([]byte, error) {
	if len(data) > 0xFFFFFFFF {
		return nil, ErrInputTooLarge
	}

	parser := newParser(level)
	packets := parser.Parse(data)
	lit, litLen, matchLen, offsetTok, offsetExtra := buildStreams(data, packets)

	var payload []byte
	payload = writeSection(payload, litLen, 256)
	payload = writeSection(payload, matchLen, 256)
	payload = writeSection(payload, offsetTok, 28)

	payload = appendU32(payload, uint32(len(offsetExtra)))
	payload = append(payload, offsetExtra...)

	subBlocks := splitLiteralBlocks(lit)
	payload = appendU32(payload, uint32(len(subBlocks)))
	for _, sb := range subBlocks {
		payload = writeSection(payload, sb, 256)
	}

	matchCount := 0
	for _, p := range packets {
		if p.HasMatch() {
			matchCount++
		}
	}
	payload = appendU32(payload, uint32(len(packets)))
	payload = appendU32(payload, uint32(matchCount))

	if len(payload) > 0xFFFFFFFF {
		return nil, ErrInputTooLarge
	}
	return writeChunkHeader(payload, data), nil
}

// decodeChunk parses and verifies one framed chunk starting at src[pos:],
// returning the reconstructed chunk bytes and the position just past it.
func decodeChunk(src []byte, pos int) ([]byte, int, error) {
	compLen, origLen, checksum, payloadPos, err := readChunkHeader(src, pos)
	if err != nil {
		return nil, 0, err
	}
	if payloadPos+compLen > len(src) {
		return nil, 0, fmt.Errorf("payload at offset %d: %w", payloadPos, ErrTruncatedInput)
	}
	payload := src[payloadPos : payloadPos+compLen]
	newPos := payloadPos + compLen

	p := 0
	litLen, p, err := readSection(payload, p, 256)
	if err != nil {
		return nil, 0, fmt.Errorf("litlen section at payload offset %d: %w", p, err)
	}
	at := p
	matchLenBytes, p, err := readSection(payload, p, 256)
	if err != nil {
		return nil, 0, fmt.Errorf("matchlen section at payload offset %d: %w", at, err)
	}
	at = p
	offsetTok, p, err := readSection(payload, p, 28)
	if err != nil {
		return nil, 0, fmt.Errorf("offsettok section at payload offset %d: %w", at, err)
	}

	at = p
	exLen, p, ok := readU32(payload, p)
	if !ok || p+int(exLen) > len(payload) {
		return nil, 0, fmt.Errorf("offsetextra length at payload offset %d: %w", at, ErrTruncatedInput)
	}
	offsetExtra := payload[p : p+int(exLen)]
	p += int(exLen)

	at = p
	subCount, p, ok := readU32(payload, p)
	if !ok {
		return nil, 0, fmt.Errorf("sub-block count at payload offset %d: %w", at, ErrTruncatedInput)
	}
	var lit []byte
	for i := uint32(0); i < subCount; i++ {
		var sb []byte
		at = p
		sb, p, err = readSection(payload, p, 256)
		if err != nil {
			return nil, 0, fmt.Errorf("literal sub-block %d at payload offset %d: %w", i, at, err)
		}
		lit = append(lit, sb...)
	}

	at = p
	packetCount, p, ok := readU32(payload, p)
	if !ok {
		return nil, 0, fmt.Errorf("packet count at payload offset %d: %w", at, ErrTruncatedInput)
	}
	matchCount, _, ok := readU32(payload, p)
	if !ok {
		return nil, 0, fmt.Errorf("match count at payload offset %d: %w", p, ErrTruncatedInput)
	}

	litLens, err := parseLengthRuns(litLen, int(packetCount))
	if err != nil {
		return nil, 0, fmt.Errorf("litlen runs: %w", err)
	}
	matchLens, err := parseLengthRuns(matchLenBytes, int(matchCount))
	if err != nil {
		return nil, 0, fmt.Errorf("matchlen runs: %w", err)
	}
	if int(matchCount) != len(offsetTok) {
		return nil, 0, fmt.Errorf("match count %d vs %d offset tokens: %w", matchCount, len(offsetTok), ErrBadReference)
	}

	data, err := reconstruct(lit, litLens, matchLens, offsetTok, offsetExtra, int(packetCount), int(matchCount))
	if err != nil {
		return nil, 0, fmt.Errorf("reconstruct: %w", err)
	}
	if len(data) != int(origLen) {
		return nil, 0, fmt.Errorf("reconstructed %d bytes, header declared %d: %w", len(data), origLen, ErrLengthMismatch)
	}
	if !verifyChecksum(data, checksum) {
		return nil, 0, fmt.Errorf("checksum mismatch: %w", ErrLengthMismatch)
	}
	return data, newPos, nil
}

// buildStreams replays a packet sequence over data, recovering the
// literal bytes (a parser only records run lengths, not the bytes
// themselves) and producing the four coded streams: the literal-run
// lengths, the match lengths, the offset tokens, and the raw offset
// extra-bits stream, threaded through one shared offsetRing exactly as
// decode will replay it.
func buildStreams(data []byte, packets []Packet) (lit, litLen, matchLen, offsetTok, offsetExtra []byte) {
	ring := newOffsetRing()
	cursor := 0
	exWriter := bitio.NewWriter(nil)

	for _, pkt := range packets {
		lit = append(lit, data[cursor:cursor+pkt.Unmatched]...)
		litLen = appendLengthRun(litLen, pkt.Unmatched)
		cursor += pkt.Unmatched

		if pkt.HasMatch() {
			matchLen = appendLengthRun(matchLen, pkt.Match.Length-MinMatch)

			v := ring.encode(pkt.Match.Offset)
			tok, width, extra := splitOffsetToken(v)
			offsetTok = append(offsetTok, byte(tok))
			if width > 0 {
				exWriter.Write(uint64(extra), uint(width))
			}

			cursor += pkt.Match.Length
		}
	}

	offsetExtra = exWriter.Flush()
	return
}

// splitLiteralBlocks splits lit into pieces of at most maxSubBlockSize bytes,
// each independently histogrammed and coded (original_source/src/
// pager.rs's paging of the literal stream).
func splitLiteralBlocks(lit []byte) [][]byte {
	if len(lit) == 0 {
		return nil
	}
	var blocks [][]byte
	for off := 0; off < len(lit); off += maxSubBlockSize {
		end := off + maxSubBlockSize
		if end > len(lit) {
			end = len(lit)
		}
		blocks = append(blocks, lit[off:end])
	}
	return blocks
}

// parseLengthRuns reads exactly count length-run values from src,
// failing if src is exhausted early or has bytes left over once count
// values have been read (either indicates a corrupt stream).
func parseLengthRuns(src []byte, count int) ([]int, error) {
	out := make([]int, count)
	pos := 0
	for i := 0; i < count; i++ {
		v, newPos, ok := readLengthRun(src, pos)
		if !ok {
			return nil, ErrTruncatedInput
		}
		out[i] = v
		pos = newPos
	}
	if pos != len(src) {
		return nil, ErrBadReference
	}
	return out, nil
}

// reconstruct rebuilds chunk bytes from the decoded literal pool and the
// four packet-level streams. Every packet contributes a literal run;
// every packet except possibly the last contributes a match (the last
// one does too exactly when matchCount == packetCount, i.e. the final
// match reached the end of the chunk with no trailing literal tail).
func reconstruct(lit []byte, litLens, matchLens []int, offsetTok, offsetExtra []byte, packetCount, matchCount int) (out []byte, err error) {
	ring := newOffsetRing()
	exReader := bitio.NewReader(offsetExtra)

	litPos := 0
	matchIdx := 0

	defer func() {
		if r := recover(); r != nil {
			// a malformed OffsetExtra length surfaces as a bitio panic
			out, err = nil, ErrTruncatedInput
		}
	}()

	for i := 0; i < packetCount; i++ {
		ul := litLens[i]
		if litPos+ul > len(lit) {
			return nil, ErrBadReference
		}
		out = append(out, lit[litPos:litPos+ul]...)
		litPos += ul

		hasMatch := i != packetCount-1 || matchCount == packetCount
		if !hasMatch {
			continue
		}
		if matchIdx >= matchCount {
			return nil, ErrBadReference
		}

		length := matchLens[matchIdx] + MinMatch
		tok := int(offsetTok[matchIdx])
		width := offsetExtraWidth(tok)
		extra := 0
		if width > 0 {
			extra = int(exReader.Read(uint(width)))
		}
		v := joinOffsetToken(tok, extra)
		offset := ring.decode(v)
		matchIdx++

		if offset < 1 || offset > len(out) {
			return nil, ErrBadReference
		}
		start := len(out) - offset
		for k := 0; k < length; k++ {
			out = append(out, out[start+k])
		}
	}

	if litPos != len(lit) {
		return nil, ErrBadReference
	}
	return out, nil
}

// writeSection appends a length-prefixed, self-describing stream section:
// the logical symbol count, a one-byte mode (0 = raw fallback, 1 = tANS
// coded), and the mode's body. The smaller of the two encodings is kept,
// mirroring original_source/src/nop.rs's escape to a literal copy when
// entropy coding would not shrink the block.
func writeSection(dst []byte, data []byte, alphabet int) []byte {
	dst = appendU32(dst, uint32(len(data)))

	coded := encodeSectionBody(data, alphabet)
	if len(coded) < len(data) {
		dst = append(dst, 1)
		dst = appendU32(dst, uint32(len(coded)))
		return append(dst, coded...)
	}

	dst = append(dst, 0)
	dst = appendU32(dst, uint32(len(data)))
	return append(dst, data...)
}

// readSection is writeSection's inverse.
func readSection(src []byte, pos, alphabet int) ([]byte, int, error) {
	count, pos, ok := readU32(src, pos)
	if !ok {
		return nil, 0, ErrTruncatedInput
	}
	if pos >= len(src) {
		return nil, 0, ErrTruncatedInput
	}
	mode := src[pos]
	pos++

	bodyLen, pos, ok := readU32(src, pos)
	if !ok || pos+int(bodyLen) > len(src) {
		return nil, 0, ErrTruncatedInput
	}
	body := src[pos : pos+int(bodyLen)]
	newPos := pos + int(bodyLen)

	if mode == 0 {
		if int(bodyLen) != int(count) {
			return nil, 0, ErrLengthMismatch
		}
		return append([]byte(nil), body...), newPos, nil
	}

	data, err := decodeSectionBody(body, alphabet, int(count))
	if err != nil {
		return nil, 0, err
	}
	return data, newPos, nil
}

// encodeSectionBody builds a histogram over data and tANS-codes it,
// returning the serialized histogram followed by the coded payload.
func encodeSectionBody(data []byte, alphabet int) []byte {
	counts := tans.BuildHistogram(data, alphabet)
	norm := tans.NormalizeHistogram(counts, tans.TableSize)

	coder := tans.NewCoder(alphabet)
	if err := coder.Init(norm); err != nil {
		// NormalizeHistogram always produces a valid histogram; a
		// failure here means the alphabet size itself is wrong, a
		// programmer error rather than malformed input.
		panic(err)
	}

	hist := tans.EncodeHistogram(norm)
	payload := coder.Encode(data)

	out := make([]byte, 0, len(hist)+len(payload))
	out = append(out, hist...)
	return append(out, payload...)
}

// decodeSectionBody parses a histogram-prefixed tANS body and decodes
// exactly count symbols from it, converting any bitio truncation panic
// into ErrTruncatedInput.
func decodeSectionBody(body []byte, alphabet, count int) (data []byte, err error) {
	norm, n, derr := tans.DecodeHistogram(body, 0, alphabet)
	if derr != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHistogram, derr)
	}
	if !tans.IsValidHistogram(norm, alphabet) {
		return nil, ErrBadHistogram
	}

	coder := tans.NewCoder(alphabet)
	if err := coder.Init(norm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHistogram, err)
	}

	defer func() {
		if r := recover(); r != nil {
			data, err = nil, ErrTruncatedInput
		}
	}()

	data, derr = coder.Decode(body[n:], count)
	if derr != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadState, derr)
	}
	return data, nil
}
