// Package qrtables holds the per-(version, ecc_level) constant tables that
// drive both the decoder's block splitting (internal/rsdecode,
// internal/bitstream) and the test-only symbol generator
// (internal/qrtestgen). Values are taken from ISO/IEC 18004 and are the same
// 40x4 tables every QR implementation carries.
package qrtables

import "fmt"

// ECCLevel is the 2-bit error correction level carried in the format word.
type ECCLevel uint8

const (
	ECCLevelL ECCLevel = iota
	ECCLevelM
	ECCLevelQ
	ECCLevelH
)

func (l ECCLevel) String() string {
	switch l {
	case ECCLevelL:
		return "L"
	case ECCLevelM:
		return "M"
	case ECCLevelQ:
		return "Q"
	case ECCLevelH:
		return "H"
	default:
		return "?"
	}
}

// formatBitsToLevel maps the 2-bit field stored in the format word to an
// ECCLevel. QR format words order the levels M, L, H, Q (not the natural
// L, M, Q, H order used for display and table indexing).
var formatBitsToLevel = [4]ECCLevel{ECCLevelM, ECCLevelL, ECCLevelH, ECCLevelQ}

// LevelFromFormatBits converts the 2-bit format-word field to an ECCLevel.
func LevelFromFormatBits(bits uint8) ECCLevel {
	return formatBitsToLevel[bits&3]
}

// FormatBits returns the 2-bit format-word field for an ECCLevel.
func (l ECCLevel) FormatBits() uint8 {
	switch l {
	case ECCLevelL:
		return 1
	case ECCLevelM:
		return 0
	case ECCLevelQ:
		return 3
	case ECCLevelH:
		return 2
	default:
		return 0
	}
}

const (
	MinVersion = 1
	MaxVersion = 40
)

// eccCodewordsPerBlock[level][version] is the number of ECC codewords in
// each block. Index 0 of the version axis is unused (versions start at 1).
var eccCodewordsPerBlock = [4][41]int8{
	{-1, 7, 10, 15, 20, 26, 18, 20, 24, 30, 18, 20, 24, 26, 30, 22, 24, 28, 30, 28, 28, 28, 28, 30, 30, 26, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
	{-1, 10, 16, 26, 18, 24, 16, 18, 22, 22, 26, 30, 22, 22, 24, 24, 28, 28, 26, 26, 26, 26, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28},
	{-1, 13, 22, 18, 26, 18, 24, 18, 22, 20, 24, 28, 26, 24, 20, 30, 24, 28, 28, 26, 30, 28, 30, 30, 30, 30, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
	{-1, 17, 28, 22, 16, 22, 28, 26, 26, 24, 28, 24, 28, 22, 24, 24, 30, 28, 28, 26, 28, 30, 24, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
}

// numErrorCorrectionBlocks[level][version] is the number of RS blocks.
var numErrorCorrectionBlocks = [4][41]int8{
	{-1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 4, 4, 4, 4, 4, 6, 6, 6, 6, 7, 8, 8, 9, 9, 10, 12, 12, 12, 13, 14, 15, 16, 17, 18, 19, 19, 20, 21, 22, 24, 25},
	{-1, 1, 1, 1, 2, 2, 4, 4, 4, 5, 5, 5, 8, 9, 9, 10, 10, 11, 13, 14, 16, 17, 17, 18, 20, 21, 23, 25, 26, 28, 29, 31, 33, 35, 37, 38, 40, 43, 45, 47, 49},
	{-1, 1, 1, 2, 2, 4, 4, 6, 6, 8, 8, 8, 10, 12, 16, 12, 17, 16, 18, 21, 20, 23, 23, 25, 27, 29, 34, 34, 35, 38, 40, 43, 45, 48, 51, 53, 56, 59, 62, 65, 68},
	{-1, 1, 1, 2, 4, 4, 4, 5, 6, 8, 8, 11, 11, 16, 16, 18, 16, 19, 21, 25, 25, 25, 34, 30, 32, 35, 37, 40, 42, 45, 48, 51, 54, 57, 60, 63, 66, 70, 74, 77, 81},
}

func levelIndex(level ECCLevel) int {
	switch level {
	case ECCLevelL:
		return 0
	case ECCLevelM:
		return 1
	case ECCLevelQ:
		return 2
	case ECCLevelH:
		return 3
	default:
		return 1
	}
}

// ECCCodewordsPerBlock returns the number of ECC codewords per block for
// the given version (1-40) and error correction level.
func ECCCodewordsPerBlock(version int, level ECCLevel) int {
	return int(eccCodewordsPerBlock[levelIndex(level)][version])
}

// NumBlocks returns the number of Reed-Solomon blocks for the given version
// and error correction level.
func NumBlocks(version int, level ECCLevel) int {
	return int(numErrorCorrectionBlocks[levelIndex(level)][version])
}

// GridSize returns the module grid dimension for a QR version: 17 + 4*version.
func GridSize(version int) int {
	return 17 + 4*version
}

// VersionForGridSize inverts GridSize, returning ok=false if size is not of
// the form 17+4k or falls outside [21,177].
func VersionForGridSize(size int) (version int, ok bool) {
	if size < 21 || size > 177 {
		return 0, false
	}
	if (size-17)%4 != 0 {
		return 0, false
	}
	v := (size - 17) / 4
	if v < MinVersion || v > MaxVersion {
		return 0, false
	}
	return v, true
}

// NumRawDataModules returns the number of bits available for codewords
// (data + ECC) once all function modules are excluded, including any
// remainder bits.
func NumRawDataModules(version int) int {
	v := version
	result := (16*v+128)*v + 64
	if v >= 2 {
		numAlign := v/7 + 2
		result -= (25*numAlign-10)*numAlign - 55
		if v >= 7 {
			result -= 36
		}
	}
	return result
}

// NumDataCodewords returns the number of 8-bit data codewords (excluding
// ECC) available at the given version and level, with remainder bits
// discarded.
func NumDataCodewords(version int, level ECCLevel) int {
	return NumRawDataModules(version)/8 - ECCCodewordsPerBlock(version, level)*NumBlocks(version, level)
}

// AlignmentPatternPositions returns the ascending list of row/column
// centre positions of alignment patterns for the given version. Empty for
// version 1, which has none.
func AlignmentPatternPositions(version int) []int {
	if version == 1 {
		return nil
	}
	numAlign := version/7 + 2
	var step int
	if version == 32 {
		step = 26
	} else {
		step = (version*4+numAlign*2+1)/(numAlign*2-2) * 2
	}
	size := GridSize(version)
	result := make([]int, numAlign)
	for i := 0; i < numAlign-1; i++ {
		result[i] = size - 7 - i*step
	}
	result[numAlign-1] = 6

	inverted := make([]int, numAlign)
	for i, v := range result {
		inverted[numAlign-1-i] = v
	}
	return inverted
}

// BlockLayout describes how NumDataCodewords+ECC codewords split across
// blocks for interleaving/deinterleaving.
type BlockLayout struct {
	NumBlocks      int
	ShortDataLen   int // data length of a "short" block
	LongDataLen    int // data length of a "long" block: always ShortDataLen+1 (NumLongBlocks may be 0)
	NumShortBlocks int
	NumLongBlocks  int
	ECCLen         int // ECC codewords per block (same for every block)
}

// Layout computes the block layout for the given version and level.
func Layout(version int, level ECCLevel) (BlockLayout, error) {
	if version < MinVersion || version > MaxVersion {
		return BlockLayout{}, fmt.Errorf("qrtables: version %d out of range", version)
	}
	numBlocks := NumBlocks(version, level)
	eccLen := ECCCodewordsPerBlock(version, level)
	rawCodewords := NumRawDataModules(version) / 8
	numShort := numBlocks - (rawCodewords % numBlocks)
	shortLen := rawCodewords/numBlocks - eccLen

	return BlockLayout{
		NumBlocks:      numBlocks,
		ShortDataLen:   shortLen,
		LongDataLen:    shortLen + 1,
		NumShortBlocks: numShort,
		NumLongBlocks:  numBlocks - numShort,
		ECCLen:         eccLen,
	}, nil
}
