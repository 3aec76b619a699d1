package quirc

import "github.com/go-quirc/quirc/internal/bitstream"

// Point is an image-space coordinate in the public ABI (deliberately
// distinct from internal/geom.Point so internal packages stay free to
// change shape without breaking callers).
type Point struct {
	X, Y int
}

// Code is a located, sampled QR symbol: its four corners (from top-left,
// clockwise) and a cell bitmap ready for Decode. The bitmap packs bit
// i=(y*Size)+x into byte i>>3, bit i&7, matching the original C ABI's
// cell_bitmap layout exactly (spec.md §6).
type Code struct {
	Corners [4]Point
	Size    int
	Bitmap  []byte
}

func (c *Code) toBitstreamBitmap() *bitstream.Bitmap {
	return &bitstream.Bitmap{Size: c.Size, Bits: c.Bitmap}
}

// Flip mirrors the cell bitmap horizontally in place, for retrying a
// symbol photographed through a reflective surface (spec.md §4.J "Error
// flip"). Flip is its own inverse: Flip(Flip(c)) reproduces c's original
// bitmap.
func (c *Code) Flip() {
	c.toBitstreamBitmap().Flip()
}
