package qrtestgen

import (
	"github.com/go-quirc/quirc/internal/gf256"
	"github.com/go-quirc/quirc/internal/qrtables"
)

// rsEncodeBlock appends eccLen Reed-Solomon check bytes to data by
// polynomial long division against the generator rooted at alpha^0..
// alpha^(eccLen-1), the same convention internal/rsdecode's syndromes
// assume (and the same division internal/rsdecode/rsdecode_test.go's
// encodeBlock test helper performs, promoted here to production use).
func rsEncodeBlock(data []byte, eccLen int) []byte {
	gen := gf256.GeneratorPoly(eccLen)
	remainder := make([]byte, eccLen)
	for _, b := range data {
		factor := b ^ remainder[0]
		copy(remainder, remainder[1:])
		remainder[len(remainder)-1] = 0
		for i, g := range gen[1:] {
			remainder[i] ^= gf256.Mul(g, factor)
		}
	}
	return append(append([]byte{}, data...), remainder...)
}

// interleave splits data into layout's blocks, Reed-Solomon encodes each,
// and interleaves them column-major, mirroring nayuki's
// addEccAndInterleave (golang/qrcodegen.go) exactly so
// internal/bitstream.deinterleaveAndCorrect's inverse reconstructs data.
func interleave(data []byte, layout qrtables.BlockLayout) []byte {
	blocks := make([][]byte, layout.NumBlocks)
	pos := 0
	for i := 0; i < layout.NumBlocks; i++ {
		dataLen := layout.ShortDataLen
		if i >= layout.NumShortBlocks {
			dataLen = layout.LongDataLen
		}
		blocks[i] = rsEncodeBlock(data[pos:pos+dataLen], layout.ECCLen)
		pos += dataLen
	}

	var raw []byte
	for col := 0; col < layout.ShortDataLen; col++ {
		for i := 0; i < layout.NumBlocks; i++ {
			raw = append(raw, blocks[i][col])
		}
	}
	if layout.LongDataLen > layout.ShortDataLen {
		for i := layout.NumShortBlocks; i < layout.NumBlocks; i++ {
			raw = append(raw, blocks[i][layout.ShortDataLen])
		}
	}
	for col := 0; col < layout.ECCLen; col++ {
		for i := 0; i < layout.NumBlocks; i++ {
			dataLen := layout.ShortDataLen
			if i >= layout.NumShortBlocks {
				dataLen = layout.LongDataLen
			}
			raw = append(raw, blocks[i][dataLen+col])
		}
	}
	return raw
}
