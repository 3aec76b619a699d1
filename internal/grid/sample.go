package grid

import (
	"github.com/go-quirc/quirc/internal/bitstream"
	"github.com/go-quirc/quirc/internal/raster"
)

// Sample reads every cell of g against buf's polarity plane through g's
// homography, producing the packed bitmap internal/bitstream decodes
// (spec.md §4.F). Cells whose projected pixel falls outside the image are
// left WHITE.
func Sample(buf *raster.Buffer, g Grid) *bitstream.Bitmap {
	bm := bitstream.NewBitmap(g.GridSize)
	for v := 0; v < g.GridSize; v++ {
		for u := 0; u < g.GridSize; u++ {
			x, y := g.C.Map(float64(u)+0.5, float64(v)+0.5)
			px, py := int(x+0.5), int(y+0.5)
			if !buf.InBounds(px, py) {
				continue
			}
			if buf.Labels[buf.Index(px, py)] != raster.White {
				bm.Set(u, v, true)
			}
		}
	}
	return bm
}
