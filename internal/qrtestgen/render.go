package qrtestgen

import (
	"github.com/go-quirc/quirc/internal/bchcode"
	"github.com/go-quirc/quirc/internal/bitstream"
	"github.com/go-quirc/quirc/internal/qrtables"
)

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// drawFinderPattern draws the 9x9 finder pattern (including its separator)
// centred at (cx,cy), mirroring nayuki's drawFinderPattern.
func drawFinderPattern(bm *bitstream.Bitmap, cx, cy int) {
	size := bm.Size
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || x >= size || y < 0 || y >= size {
				continue
			}
			dist := absInt(dx)
			if absInt(dy) > dist {
				dist = absInt(dy)
			}
			bm.Set(x, y, dist != 2 && dist != 4)
		}
	}
}

// drawAlignmentPattern draws the 5x5 alignment pattern centred at (cx,cy).
func drawAlignmentPattern(bm *bitstream.Bitmap, cx, cy int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			dist := absInt(dx)
			if absInt(dy) > dist {
				dist = absInt(dy)
			}
			bm.Set(cx+dx, cy+dy, dist != 1)
		}
	}
}

// drawFunctionPatterns draws the timing patterns, the three finder
// patterns, and every alignment pattern for the symbol's version.
func drawFunctionPatterns(bm *bitstream.Bitmap, version int) {
	size := bm.Size
	for i := 0; i < size; i++ {
		bm.Set(6, i, i%2 == 0)
		bm.Set(i, 6, i%2 == 0)
	}

	drawFinderPattern(bm, 3, 3)
	drawFinderPattern(bm, size-4, 3)
	drawFinderPattern(bm, 3, size-4)

	positions := qrtables.AlignmentPatternPositions(version)
	n := len(positions)
	for i, ay := range positions {
		for j, ax := range positions {
			if (i == 0 && j == 0) || (i == 0 && j == n-1) || (i == n-1 && j == 0) {
				continue
			}
			drawAlignmentPattern(bm, ax, ay)
		}
	}
}

// drawFormatAndVersion draws both copies of the format-info word for level
// and mask, and (for version >= 7) both copies of the version-info word.
func drawFormatAndVersion(bm *bitstream.Bitmap, size, version int, level qrtables.ECCLevel, mask uint8) {
	word := bchcode.EncodeFormatWord(level, mask)
	c1, c2 := qrtables.FormatBitCoords(size)
	for i := 0; i < 15; i++ {
		bit := word>>uint(i)&1 != 0
		bm.Set(c1[i][0], c1[i][1], bit)
		bm.Set(c2[i][0], c2[i][1], bit)
	}
	bm.Set(8, size-8, true) // dark module, always set

	if version < 7 {
		return
	}
	vword := bchcode.EncodeVersionWord(version)
	vA, vB := qrtables.VersionBitCoords(size)
	for i := 0; i < 18; i++ {
		bit := vword>>uint(i)&1 != 0
		bm.Set(vA[i][0], vA[i][1], bit)
		bm.Set(vB[i][0], vB[i][1], bit)
	}
}

// drawCodewords walks the same zig-zag scan internal/bitstream.
// readRawCodewords reads, writing raw (unmasked) data bits into every
// non-function module.
func drawCodewords(bm *bitstream.Bitmap, version int, raw []byte) {
	size := bm.Size
	maxBits := len(raw) * 8
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
				bit := raw[bitIndex>>3]>>uint(7-(bitIndex&7))&1 != 0
				bm.Set(x, y, bit)
				bitIndex++
			}
		}
		right -= 2
	}
}

// quietZoneModules is the minimum light border ISO/IEC 18004 §5.3.2
// requires around a symbol (4 modules), reproduced here so rendered test
// images look like a real scanned frame rather than a bare bitmap.
const quietZoneModules = 4

// RenderImage upscales a module bitmap into an 8-bit grayscale raster a
// Context can threshold and decode: each module becomes a scale x scale
// block of fully quantized black (0) or white (255) pixels, surrounded by
// a quiet zone of white modules. scale must be at least 1; callers
// exercising the capstone/grid pipeline want scale >= 3 so a finder
// pattern's ring structure survives raster.Threshold's row-wise averaging.
func RenderImage(bm *bitstream.Bitmap, scale int) (gray []byte, width, height int) {
	dim := bm.Size + 2*quietZoneModules
	width = dim * scale
	height = dim * scale
	gray = make([]byte, width*height)
	for i := range gray {
		gray[i] = 255
	}
	for my := 0; my < bm.Size; my++ {
		for mx := 0; mx < bm.Size; mx++ {
			if !bm.Get(mx, my) {
				continue
			}
			px0 := (mx + quietZoneModules) * scale
			py0 := (my + quietZoneModules) * scale
			for dy := 0; dy < scale; dy++ {
				row := (py0 + dy) * width
				for dx := 0; dx < scale; dx++ {
					gray[row+px0+dx] = 0
				}
			}
		}
	}
	return gray, width, height
}

// applyMask XORs every non-function module with the given mask pattern's
// predicate (ISO/IEC 18004 8.8.1). Applying the same mask a second time
// undoes it; the decoder removes a mask with the same predicates in
// internal/bitstream's maskInvert.
func applyMask(bm *bitstream.Bitmap, version int, mask uint8) {
	size := bm.Size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if qrtables.IsFunctionModule(x, y, size, version) {
				continue
			}
			var invert bool
			switch mask {
			case 0:
				invert = (x+y)%2 == 0
			case 1:
				invert = y%2 == 0
			case 2:
				invert = x%3 == 0
			case 3:
				invert = (x+y)%3 == 0
			case 4:
				invert = (x/3+y/2)%2 == 0
			case 5:
				invert = x*y%2+x*y%3 == 0
			case 6:
				invert = (x*y%2+x*y%3)%2 == 0
			case 7:
				invert = ((x+y)%2+x*y%3)%2 == 0
			}
			if invert {
				bm.Set(x, y, !bm.Get(x, y))
			}
		}
	}
}
