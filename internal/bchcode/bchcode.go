// Package bchcode corrects the 15-bit format info word (BCH(15,5)) and the
// 18-bit version info word (Golay(18,6)) read from a QR symbol, per
// ISO/IEC 18004 Annex C/D. Both codes have few enough codewords (32 and 34
// respectively) that nearest-codeword search by Hamming distance is simpler
// and just as correct as running a Meggitt decoder, and it is what we build
// the precomputed tables for at package init — the same "table built once at
// package scope" shape the teacher uses for its standard Huffman tables.
package bchcode

import (
	"math/bits"

	"github.com/go-quirc/quirc/internal/qrtables"
)

const (
	formatGenerator = 0x537  // degree-10 generator for BCH(15,5)
	formatMask      = 0x5412 // XOR mask applied to the drawn format word
	versionGenerator = 0x1f25 // degree-12 generator for the Golay(18,6) code

	maxFormatErrors  = 3
	maxVersionErrors = 3
)

var (
	// formatCodewords[i] is the 15-bit word actually drawn in the image
	// (BCH-encoded and XOR-masked) for format data value i (0-31): top 2
	// bits are the ECC level field, bottom 3 bits the mask pattern index.
	formatCodewords [32]uint32

	// versionCodewords[v] is the 18-bit word drawn in the image for
	// version v (valid only for v in [7,40]; entries below 7 are unused).
	versionCodewords [41]uint32
)

func init() {
	for data := uint32(0); data < 32; data++ {
		formatCodewords[data] = encodeFormat(data)
	}
	for v := 7; v <= 40; v++ {
		versionCodewords[v] = encodeVersion(uint32(v))
	}
}

func encodeFormat(data uint32) uint32 {
	rem := data
	for i := 0; i < 10; i++ {
		rem = (rem << 1) ^ ((rem >> 9) * formatGenerator)
	}
	return ((data << 10) | rem) ^ formatMask
}

func encodeVersion(data uint32) uint32 {
	rem := data
	for i := 0; i < 12; i++ {
		rem = (rem << 1) ^ ((rem >> 11) * versionGenerator)
	}
	return (data << 12) | rem
}

// DecodeFormat corrects a 15-bit format word as read directly from the
// image (still XOR-masked) and returns the ECC level and mask pattern it
// encodes.
func DecodeFormat(word uint32) (level qrtables.ECCLevel, mask uint8, err error) {
	data, ok := nearestCodeword(word, formatCodewords[:], maxFormatErrors)
	if !ok {
		return 0, 0, ErrFormatUncorrectable
	}
	return qrtables.LevelFromFormatBits(uint8(data >> 3)), uint8(data & 7), nil
}

// DecodeVersion corrects an 18-bit version word as read from the image and
// returns the symbol version (7-40).
func DecodeVersion(word uint32) (version int, err error) {
	bestVersion := -1
	bestDist := maxVersionErrors + 1
	for v := 7; v <= 40; v++ {
		d := bits.OnesCount32(versionCodewords[v] ^ word)
		if d < bestDist {
			bestDist = d
			bestVersion = v
		}
	}
	if bestVersion < 0 {
		return 0, ErrVersionUncorrectable
	}
	return bestVersion, nil
}

// EncodeFormatWord returns the 15-bit word to draw for the given ECC level
// and mask pattern, for use by the test-only symbol generator
// (internal/qrtestgen) that exercises this package's decode side.
func EncodeFormatWord(level qrtables.ECCLevel, mask uint8) uint32 {
	return formatCodewords[uint32(level.FormatBits())<<3|uint32(mask&7)]
}

// EncodeVersionWord returns the 18-bit word to draw for the given version
// (valid for 7-40), for use by internal/qrtestgen.
func EncodeVersionWord(version int) uint32 {
	return versionCodewords[version]
}

// nearestCodeword returns the data index whose encoded codeword is within
// maxErrors bit flips of word, or ok=false if none qualifies (ties broken
// by the smallest Hamming distance, first match wins).
func nearestCodeword(word uint32, codewords []uint32, maxErrors int) (data uint32, ok bool) {
	best := -1
	bestDist := maxErrors + 1
	for i, cw := range codewords {
		d := bits.OnesCount32(cw ^ word)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return uint32(best), true
}
