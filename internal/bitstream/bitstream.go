// Package bitstream turns a sampled cell grid into decoded payload bytes:
// format/version recovery, mask removal, the zig-zag raw codeword walk,
// block deinterleaving with Reed-Solomon correction, and segment parsing
// (spec.md §4.G/§4.H/§4.I). Geometry (which modules are function modules,
// where the format/version bits live) is grounded on the encoder-side
// placement logic in the nayuki QR generator so a symbol this module's own
// test generator renders and one this package reads always agree.
package bitstream

import (
	"github.com/go-quirc/quirc/internal/bchcode"
	"github.com/go-quirc/quirc/internal/qrtables"
	"github.com/go-quirc/quirc/internal/rsdecode"
)

// MaxPayloadBytes is the largest decoded payload the parser will accept,
// matching the QR-40-L byte-mode capacity (spec.md §6).
const MaxPayloadBytes = 8896

// Bitmap is a packed row-major, 1-bit-per-cell grid: cell (x,y) occupies
// bit (y*size+x)&7 of byte (y*size+x)>>3 (spec.md §6), shared with the
// public Code type so sampling and decoding agree on layout.
type Bitmap struct {
	Size int
	Bits []byte
}

// NewBitmap allocates a bitmap of the given module size.
func NewBitmap(size int) *Bitmap {
	return &Bitmap{Size: size, Bits: make([]byte, (size*size+7)/8)}
}

// Get reports whether cell (x,y) is dark.
func (b *Bitmap) Get(x, y int) bool {
	idx := y*b.Size + x
	return b.Bits[idx>>3]&(1<<uint(idx&7)) != 0
}

// Set writes cell (x,y)'s polarity.
func (b *Bitmap) Set(x, y int, dark bool) {
	idx := y*b.Size + x
	if dark {
		b.Bits[idx>>3] |= 1 << uint(idx&7)
	} else {
		b.Bits[idx>>3] &^= 1 << uint(idx&7)
	}
}

// Flip mirrors the bitmap horizontally in place, for retrying symbols
// photographed through a reflective surface (spec.md §4.I "Error flip").
func (b *Bitmap) Flip() {
	size := b.Size
	for y := 0; y < size; y++ {
		for x := 0; x < size/2; x++ {
			ox := size - 1 - x
			a, c := b.Get(x, y), b.Get(ox, y)
			b.Set(x, y, c)
			b.Set(ox, y, a)
		}
	}
}

// DataType is the highest-valued segment mode seen while parsing,
// following the source-compatible ordering NUMERIC < ALPHA < BYTE < KANJI
// (spec.md §9).
type DataType int

const (
	DataNone DataType = iota
	DataNumeric
	DataAlpha
	DataByte
	DataKanji
)

func (d DataType) String() string {
	switch d {
	case DataNumeric:
		return "NUMERIC"
	case DataAlpha:
		return "ALPHA"
	case DataByte:
		return "BYTE"
	case DataKanji:
		return "KANJI"
	default:
		return "NONE"
	}
}

// Result is everything Decode recovers from a sampled symbol.
type Result struct {
	Version  int
	Level    qrtables.ECCLevel
	Mask     uint8
	DataType DataType
	Payload  []byte
	ECI      uint32
	HasECI   bool
}

// Decode runs stages G through I against a sampled cell bitmap.
func Decode(bm *Bitmap) (*Result, error) {
	size := bm.Size
	version, ok := qrtables.VersionForGridSize(size)
	if !ok {
		return nil, ErrInvalidGridSize
	}

	level, mask, err := readFormat(bm, size)
	if err != nil {
		return nil, ErrFormatECC
	}

	if version >= 7 {
		v, err := readVersion(bm, size)
		if err != nil {
			return nil, ErrInvalidVersion
		}
		if qrtables.GridSize(v) != size {
			return nil, ErrInvalidVersion
		}
		version = v
	}

	layout, err := qrtables.Layout(version, level)
	if err != nil {
		return nil, ErrInvalidVersion
	}

	raw := readRawCodewords(bm, size, version, mask)
	data, err := deinterleaveAndCorrect(raw, layout)
	if err != nil {
		return nil, ErrDataECC
	}

	result, err := parseSegments(data, version)
	if err != nil {
		return nil, err
	}
	result.Version = version
	result.Level = level
	result.Mask = mask
	return result, nil
}

func readWord(bm *Bitmap, coords [][2]int) uint32 {
	var w uint32
	for i, c := range coords {
		if bm.Get(c[0], c[1]) {
			w |= 1 << uint(i)
		}
	}
	return w
}

func readFormat(bm *Bitmap, size int) (qrtables.ECCLevel, uint8, error) {
	c1, c2 := qrtables.FormatBitCoords(size)
	w1 := readWord(bm, c1[:])
	w2 := readWord(bm, c2[:])

	l1, m1, e1 := bchcode.DecodeFormat(w1)
	l2, m2, e2 := bchcode.DecodeFormat(w2)
	switch {
	case e1 == nil && e2 == nil:
		if l1 != l2 || m1 != m2 {
			return 0, 0, bchcode.ErrFormatUncorrectable
		}
		return l1, m1, nil
	case e1 == nil:
		return l1, m1, nil
	case e2 == nil:
		return l2, m2, nil
	default:
		return 0, 0, bchcode.ErrFormatUncorrectable
	}
}

func readVersion(bm *Bitmap, size int) (int, error) {
	cA, cB := qrtables.VersionBitCoords(size)
	wA := readWord(bm, cA[:])
	wB := readWord(bm, cB[:])

	vA, eA := bchcode.DecodeVersion(wA)
	vB, eB := bchcode.DecodeVersion(wB)
	switch {
	case eA == nil && eB == nil:
		if vA != vB {
			return 0, bchcode.ErrVersionUncorrectable
		}
		return vA, nil
	case eA == nil:
		return vA, nil
	case eB == nil:
		return vB, nil
	default:
		return 0, bchcode.ErrVersionUncorrectable
	}
}

// maskInvert reproduces the ISO/IEC 18004 data-mask predicates.
func maskInvert(mask uint8, x, y int) bool {
	switch mask {
	case 0:
		return (x+y)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (x+y)%3 == 0
	case 4:
		return (x/3+y/2)%2 == 0
	case 5:
		return (x*y)%2+(x*y)%3 == 0
	case 6:
		return ((x*y)%2+(x*y)%3)%2 == 0
	case 7:
		return ((x+y)%2+(x*y)%3)%2 == 0
	default:
		return false
	}
}

// readRawCodewords walks the two-column zig-zag scan bottom-right upward,
// skipping function modules, unmasking each data bit and packing it
// MSB-first into codeword bytes (spec.md §4.I steps 1-2).
func readRawCodewords(bm *Bitmap, size, version int, mask uint8) []byte {
	totalBits := qrtables.NumRawDataModules(version)
	numBytes := totalBits / 8
	raw := make([]byte, numBytes)
	maxBits := numBytes * 8

	bitIndex := 0
	right := size - 1
	for right >= 1 {
		if right == 6 {
			right = 5
		}
		for vert := 0; vert < size; vert++ {
			for j := 0; j < 2; j++ {
				x := right - j
				upward := (right+1)&2 == 0
				var y int
				if upward {
					y = size - 1 - vert
				} else {
					y = vert
				}
				if qrtables.IsFunctionModule(x, y, size, version) || bitIndex >= maxBits {
					continue
				}
				bit := bm.Get(x, y) != maskInvert(mask, x, y)
				if bit {
					raw[bitIndex>>3] |= 1 << uint(7-(bitIndex&7))
				}
				bitIndex++
			}
		}
		right -= 2
	}
	return raw
}

// deinterleaveAndCorrect splits raw into its per-block data+ECC columns
// (spec.md §4.I step 3), error-corrects each block (§4.H), and
// concatenates the data portions in block order.
func deinterleaveAndCorrect(raw []byte, layout qrtables.BlockLayout) ([]byte, error) {
	numBlocks := layout.NumBlocks
	blocks := make([][]byte, numBlocks)
	dataLens := make([]int, numBlocks)
	for i := 0; i < numBlocks; i++ {
		dataLen := layout.ShortDataLen
		if i >= layout.NumShortBlocks {
			dataLen = layout.LongDataLen
		}
		dataLens[i] = dataLen
		blocks[i] = make([]byte, 0, dataLen+layout.ECCLen)
	}

	pos := 0
	take := func() (byte, bool) {
		if pos >= len(raw) {
			return 0, false
		}
		v := raw[pos]
		pos++
		return v, true
	}

	for col := 0; col < layout.ShortDataLen; col++ {
		for i := 0; i < numBlocks; i++ {
			v, ok := take()
			if !ok {
				return nil, ErrDataUnderflow
			}
			blocks[i] = append(blocks[i], v)
		}
	}
	if layout.LongDataLen > layout.ShortDataLen {
		for i := layout.NumShortBlocks; i < numBlocks; i++ {
			v, ok := take()
			if !ok {
				return nil, ErrDataUnderflow
			}
			blocks[i] = append(blocks[i], v)
		}
	}
	for col := 0; col < layout.ECCLen; col++ {
		for i := 0; i < numBlocks; i++ {
			v, ok := take()
			if !ok {
				return nil, ErrDataUnderflow
			}
			blocks[i] = append(blocks[i], v)
		}
	}

	var result []byte
	for i, block := range blocks {
		if err := rsdecode.CorrectBlock(block, layout.ECCLen); err != nil {
			return nil, ErrDataECC
		}
		result = append(result, block[:dataLens[i]]...)
	}
	return result, nil
}
