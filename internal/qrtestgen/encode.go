package qrtestgen

import (
	"errors"

	"github.com/go-quirc/quirc/internal/bitstream"
	"github.com/go-quirc/quirc/internal/qrtables"
)

// ErrCapacityExceeded is returned when segments, once packed and padded,
// don't fit the requested version and error correction level.
var ErrCapacityExceeded = errors.New("qrtestgen: segments exceed symbol capacity")

// padBytes alternates the two standard ISO/IEC 18004 pad codewords.
var padBytes = [2]byte{0xEC, 0x11}

// buildDataCodewords concatenates segments into a single bit stream, adds
// the terminator and byte-alignment padding, then fills any remaining
// capacity with the alternating pad codewords (ISO/IEC 18004 8.4.8/8.4.9).
func buildDataCodewords(segments []Segment, version int, capacity int) ([]byte, error) {
	var w bitWriter
	for _, seg := range segments {
		w.writeBits(uint32(seg.mode), 4)
		if seg.mode != modeECI {
			w.writeBits(uint32(seg.charCount), charCountBits(seg.mode, version))
		}
		for i := 0; i < seg.body.nbits; i++ {
			byteIdx := i >> 3
			bit := (seg.body.bytes[byteIdx] >> uint(7-(i&7))) & 1
			w.writeBits(uint32(bit), 1)
		}
	}

	capacityBits := capacity * 8
	if w.nbits > capacityBits {
		return nil, ErrCapacityExceeded
	}

	term := 4
	if capacityBits-w.nbits < term {
		term = capacityBits - w.nbits
	}
	w.writeBits(0, term)
	w.padToByte()

	for i := 0; len(w.bytes) < capacity; i++ {
		w.bytes = append(w.bytes, padBytes[i%2])
	}
	return w.bytes, nil
}

// Encode renders segments into a full QR symbol cell bitmap at the given
// version, error correction level, and mask pattern (0-7), the forward
// mirror of internal/bitstream.Decode. Unlike a production encoder this
// does not search for the lowest-penalty mask: callers pick one directly,
// since a test generator only needs a valid, decodable symbol.
func Encode(segments []Segment, version int, level qrtables.ECCLevel, mask uint8) (*bitstream.Bitmap, error) {
	layout, err := qrtables.Layout(version, level)
	if err != nil {
		return nil, err
	}
	capacity := qrtables.NumDataCodewords(version, level)

	data, err := buildDataCodewords(segments, version, capacity)
	if err != nil {
		return nil, err
	}
	raw := interleave(data, layout)

	size := qrtables.GridSize(version)
	bm := bitstream.NewBitmap(size)
	drawFunctionPatterns(bm, version)
	drawCodewords(bm, version, raw)
	applyMask(bm, version, mask)
	drawFormatAndVersion(bm, size, version, level, mask)
	return bm, nil
}
