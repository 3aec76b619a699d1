// Package region labels every pixel of a thresholded frame into a dense
// region id via iterative, stack-bounded flood fill (spec.md §4.C).
package region

import "github.com/go-quirc/quirc/internal/raster"

// MaxRegions is the largest number of regions a single frame may hold; it
// is chosen so ids fit the 8-bit pixel-label representation alongside the
// two reserved sentinels (spec.md §6).
const MaxRegions = 254

// Region records what flood fill learned about one labelled blob: where it
// was seeded from, how big it is, and its polarity. CapstoneIndex is set
// later by internal/capstone once (if ever) the region is claimed as a
// ring or stone.
type Region struct {
	SeedX, SeedY  int
	Area          int
	Dark          bool
	CapstoneIndex int // -1 until claimed
}

// Table is the frame's region table, indexed by (id - raster.FirstRegionID).
type Table struct {
	Regions []Region
}

// Get returns the region for the given pixel-label id. id must be >=
// raster.FirstRegionID and have been produced by Label.
func (t *Table) Get(id uint8) *Region {
	return &t.Regions[int(id)-int(raster.FirstRegionID)]
}

// Len returns the number of regions recorded.
func (t *Table) Len() int {
	return len(t.Regions)
}

type seed struct{ x, y int }

// DefaultScratchCapacity sizes the flood-fill frontier stack from the
// image height, per spec.md §4.C/§9: enough run-records for a ring rotated
// ~45° at roughly a third of the image height. The constant here is
// empirical, like the threshold's window/bias (spec.md §9).
func DefaultScratchCapacity(height int) int {
	return height/3*8 + 64
}

// Label flood-fills every still-{Black,White} pixel of buf into a region
// id, building and returning the region table. scratchCapacity bounds the
// flood-fill frontier (spans awaiting a visit); 0 selects
// DefaultScratchCapacity. A blob whose fill would exceed that bound is
// abandoned — its pixels already visited are reset to Black and no region
// is recorded for it (spec.md §4.C: "this is a recoverable error, not
// fatal"). Pathologically large single-polarity blobs (e.g. an
// all-black frame) can re-trigger the same abandonment repeatedly as the
// raster scan continues through them; this is accepted as a recognition-
// level cost, not a correctness bug, since such frames contain no finder
// pattern to find anyway.
func Label(buf *raster.Buffer, scratchCapacity int) *Table {
	if scratchCapacity <= 0 {
		scratchCapacity = DefaultScratchCapacity(buf.Height)
	}
	stack := make([]seed, 0, scratchCapacity)
	table := &Table{}

	nextID := int(raster.FirstRegionID)

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			idx := buf.Index(x, y)
			label := buf.Labels[idx]
			if label != raster.Black && label != raster.White {
				continue
			}
			if nextID > 255 {
				// Region-id overflow (spec.md §4.C): abandon, continue.
				buf.Labels[idx] = raster.Black
				continue
			}

			polarity := label
			ok, area, sx, sy := floodFill(buf, x, y, polarity, uint8(nextID), stack[:0], scratchCapacity)
			if !ok {
				continue
			}

			table.Regions = append(table.Regions, Region{
				SeedX:         sx,
				SeedY:         sy,
				Area:          area,
				Dark:          polarity == raster.Black,
				CapstoneIndex: -1,
			})
			nextID++
		}
	}
	return table
}

// floodFill runs the bounded scanline fill rooted at (x0,y0). On success
// every 4-connected pixel sharing polarity is relabelled id. On overflow,
// every pixel touched so far is reset to Black.
func floodFill(buf *raster.Buffer, x0, y0 int, polarity, id uint8, stack []seed, capacity int) (ok bool, area, seedX, seedY int) {
	push := func(x, y int) bool {
		if len(stack) >= capacity {
			return false
		}
		stack = append(stack, seed{x, y})
		return true
	}
	if !push(x0, y0) {
		return false, 0, 0, 0
	}
	seedX, seedY = x0, y0

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := s.x, s.y

		if buf.Labels[buf.Index(x, y)] != polarity {
			continue // already relabelled by a span reached another way
		}

		left := x
		for left > 0 && buf.Labels[buf.Index(left-1, y)] == polarity {
			left--
		}

		spanAbove, spanBelow := false, false
		for cx := left; cx < buf.Width && buf.Labels[buf.Index(cx, y)] == polarity; cx++ {
			buf.Labels[buf.Index(cx, y)] = id
			area++

			if y > 0 {
				above := buf.Labels[buf.Index(cx, y-1)] == polarity
				if above && !spanAbove {
					if !push(cx, y-1) {
						abandon(buf, id)
						return false, 0, 0, 0
					}
					spanAbove = true
				} else if !above {
					spanAbove = false
				}
			}
			if y < buf.Height-1 {
				below := buf.Labels[buf.Index(cx, y+1)] == polarity
				if below && !spanBelow {
					if !push(cx, y+1) {
						abandon(buf, id)
						return false, 0, 0, 0
					}
					spanBelow = true
				} else if !below {
					spanBelow = false
				}
			}
		}
	}

	return true, area, seedX, seedY
}

func abandon(buf *raster.Buffer, id uint8) {
	for i, v := range buf.Labels {
		if v == id {
			buf.Labels[i] = raster.Black
		}
	}
}
