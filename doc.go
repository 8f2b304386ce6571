// Package zant is a general-purpose lossless byte compressor combining
// LZ77-style back-reference matching with table-based ANS (tANS) entropy
// coding.
//
// Compression has two logically separate stages: finding repeated
// sequences of bytes, and entropy-coding the result. This package keeps
// that split internally (a Parser finds Packets against a MatchCache; a
// tANS Coder entropy-codes the four resulting streams) but exposes only
// the two operations most callers need: Compress and Decompress. Input is
// split into independently framed chunks, each self-describing (magic,
// lengths, checksum) and decodable on its own.
package zant

// MaxChunkSize is the largest number of input bytes Compress places in a
// single chunk; larger inputs are split across multiple chunks. No match
// ever references bytes in a previous chunk.
const MaxChunkSize = 16 << 20

// maxSubBlockSize bounds how many literal bytes a single literal
// sub-block's tANS coder handles at once, following the paged literal
// coding original_source/src/pager.rs uses to keep per-block histograms
// local to the data they describe.
const maxSubBlockSize = 1 << 16
