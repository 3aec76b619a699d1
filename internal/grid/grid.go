// Package grid groups capstones into triplets, walks the timing pattern to
// size the symbol, locates the alignment pattern for version >= 7, and
// fits the final projective map (spec.md §4.E).
package grid

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/go-quirc/quirc/internal/capstone"
	"github.com/go-quirc/quirc/internal/geom"
	"github.com/go-quirc/quirc/internal/qrtables"
	"github.com/go-quirc/quirc/internal/raster"
	"github.com/go-quirc/quirc/internal/region"
)

// Grid is one assembled QR symbol: three capstones, the timing-pattern
// endpoints used to size it, an optional alignment point, and the
// homography mapping cell centres to image coordinates.
type Grid struct {
	CapIndices    [3]int // TL, TR, BL indices into the caps slice passed to Assemble
	AlignPoint    geom.Point
	AlignRegionID int // -1 if no alignment pattern was located
	Tpep          [3]geom.Point
	GridSize      int
	C             geom.Homography
}

// Assemble tries every unordered triplet of caps and returns every one that
// survives the layout checks, sorted by the centre of each grid's TL
// capstone (top-to-bottom, then left-to-right) rather than in the order the
// triplets were accepted. The result is deterministic for identical input.
func Assemble(buf *raster.Buffer, table *region.Table, caps []capstone.Capstone) []Grid {
	var grids []Grid
	claimed := map[int]bool{}
	n := len(caps)

	for i := 0; i < n; i++ {
		if claimed[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if claimed[j] {
				continue
			}
			for k := j + 1; k < n; k++ {
				if claimed[k] {
					continue
				}
				g, tl, tr, bl, ok := tryTriplet(buf, caps, i, j, k)
				if !ok {
					continue
				}
				claimed[tl] = true
				claimed[tr] = true
				claimed[bl] = true
				grids = append(grids, g)
			}
		}
	}

	// Triplet discovery order depends on capstone index pairing (i<j<k),
	// not scan position; re-sort by each grid's TL centre so report order
	// matches top-to-bottom, left-to-right regardless (spec.md §5).
	slices.SortFunc(grids, func(a, b Grid) int {
		ca, cb := caps[a.CapIndices[0]].Centre, caps[b.CapIndices[0]].Centre
		if ca.Y != cb.Y {
			return ca.Y - cb.Y
		}
		return ca.X - cb.X
	})
	return grids
}

func tryTriplet(buf *raster.Buffer, caps []capstone.Capstone, i, j, k int) (g Grid, tl, tr, bl int, ok bool) {
	tlIdx, aIdx, bIdx, ok := pickTL(caps, i, j, k)
	if !ok {
		return g, 0, 0, 0, false
	}

	tlC := caps[tlIdx].Centre
	aC := caps[aIdx].Centre
	bC := caps[bIdx].Centre

	// TR vs BL handedness: cross((A-TL),(B-TL)) must be positive for A=TR.
	cross := crossZ(tlC, aC, bC)
	trIdx, blIdx := aIdx, bIdx
	if cross < 0 {
		trIdx, blIdx = bIdx, aIdx
	} else if cross == 0 {
		return g, 0, 0, 0, false
	}

	trC := caps[trIdx].Centre
	blC := caps[blIdx].Centre

	if !legsConsistent(tlC, trC, blC) {
		return g, 0, 0, 0, false
	}

	sizeH, tpepH, okH := walkTiming(buf, caps[tlIdx], caps[trIdx])
	sizeV, tpepV, okV := walkTiming(buf, caps[tlIdx], caps[blIdx])
	if !okH || !okV {
		return g, 0, 0, 0, false
	}
	if sizeH%2 != sizeV%2 {
		return g, 0, 0, 0, false // timing count parity mismatch
	}

	gridSize := nearestValidGridSize((sizeH + sizeV) / 2)
	version, okSize := qrtables.VersionForGridSize(gridSize)
	if !okSize {
		return g, 0, 0, 0, false
	}

	src := []geom.Point{
		{X: 0, Y: 0}, {X: 7, Y: 0}, {X: 0, Y: 7},
		{X: gridSize, Y: 0}, {X: gridSize, Y: gridSize - 7},
		{X: 0, Y: gridSize}, {X: gridSize - 7, Y: gridSize},
	}
	dst := []geom.Point{
		caps[tlIdx].Corners[0], caps[tlIdx].Corners[1], caps[tlIdx].Corners[3],
		caps[trIdx].Corners[1], caps[trIdx].Corners[2],
		caps[blIdx].Corners[3], caps[blIdx].Corners[2],
	}

	alignID := -1
	var alignPt geom.Point
	if version >= 7 {
		h0, ok0 := geom.Fit(src, dst)
		if ok0 {
			var foundAlign bool
			alignPt, alignID, foundAlign = findAlignment(buf, h0, gridSize)
			if foundAlign {
				src = append(src, geom.Point{X: gridSize - 7, Y: gridSize - 7})
				dst = append(dst, alignPt)
			}
		}
	}

	h, ok := geom.Fit(src, dst)
	if !ok {
		return g, 0, 0, 0, false
	}

	g = Grid{
		CapIndices:    [3]int{tlIdx, trIdx, blIdx},
		AlignPoint:    alignPt,
		AlignRegionID: alignID,
		Tpep:          [3]geom.Point{tpepH, tpepV, caps[tlIdx].Centre},
		GridSize:      gridSize,
		C:             h,
	}
	return g, tlIdx, trIdx, blIdx, true
}

// pickTL returns the index (among i,j,k) whose opposite angle is closest
// to 90 degrees, plus the other two in arbitrary order.
func pickTL(caps []capstone.Capstone, i, j, k int) (tl, a, b int, ok bool) {
	idx := [3]int{i, j, k}
	best := -1
	bestScore := math.MaxFloat64
	for n := 0; n < 3; n++ {
		p := caps[idx[n]].Centre
		q := caps[idx[(n+1)%3]].Centre
		r := caps[idx[(n+2)%3]].Centre
		angle := angleAt(p, q, r)
		score := math.Abs(angle - math.Pi/2)
		if score < bestScore {
			bestScore = score
			best = n
		}
	}
	if best < 0 {
		return 0, 0, 0, false
	}
	tl = idx[best]
	a = idx[(best+1)%3]
	b = idx[(best+2)%3]
	return tl, a, b, true
}

func angleAt(vertex, p1, p2 geom.Point) float64 {
	v1x, v1y := float64(p1.X-vertex.X), float64(p1.Y-vertex.Y)
	v2x, v2y := float64(p2.X-vertex.X), float64(p2.Y-vertex.Y)
	dot := v1x*v2x + v1y*v2y
	m1 := math.Hypot(v1x, v1y)
	m2 := math.Hypot(v2x, v2y)
	if m1 == 0 || m2 == 0 {
		return 0
	}
	cos := dot / (m1 * m2)
	cos = geom.Clamp(cos, -1, 1)
	return math.Acos(cos)
}

func crossZ(origin, a, b geom.Point) int {
	ax, ay := a.X-origin.X, a.Y-origin.Y
	bx, by := b.X-origin.X, b.Y-origin.Y
	return ax*by - ay*bx
}

// legsConsistent rejects triplets whose TL-TR/TL-BL leg lengths are too
// dissimilar to be a real QR layout (a coarse prune ahead of the more
// expensive timing walk).
func legsConsistent(tl, tr, bl geom.Point) bool {
	d1 := dist(tl, tr)
	d2 := dist(tl, bl)
	if d1 == 0 || d2 == 0 {
		return false
	}
	ratio := d1 / d2
	return ratio > 0.3 && ratio < 3.0
}

func dist(a, b geom.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// walkTiming samples the straight line between the centres of two
// capstones. The module-count estimate is the centre-to-centre distance
// divided by the module width (taken from from's top edge), plus 7; the
// dark/light transitions along the line are not counted into the estimate,
// only checked to be present. It returns the estimate, the last transition
// point on the line, and whether any transition was seen.
func walkTiming(buf *raster.Buffer, from, to capstone.Capstone) (size int, endpoint geom.Point, ok bool) {
	start := from.Centre
	end := to.Centre
	steps := int(dist(start, end))
	if steps < 1 {
		return 0, start, false
	}

	moduleWidth := dist(from.Corners[0], from.Corners[1]) / 7
	if moduleWidth <= 0 {
		return 0, start, false
	}

	transitions := 0
	prev := -1
	var last geom.Point
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x := int(float64(start.X) + t*float64(end.X-start.X) + 0.5)
		y := int(float64(start.Y) + t*float64(end.Y-start.Y) + 0.5)
		if !buf.InBounds(x, y) {
			continue
		}
		v := 0
		if buf.Labels[buf.Index(x, y)] != raster.White {
			v = 1
		}
		if prev >= 0 && v != prev {
			transitions++
			last = geom.Point{X: x, Y: y}
		}
		prev = v
	}
	if transitions == 0 {
		return 0, start, false
	}

	centerDistModules := dist(start, end) / moduleWidth
	size = int(centerDistModules+0.5) + 7
	return size, last, true
}

func nearestValidGridSize(raw int) int {
	if raw < 21 {
		return 21
	}
	if raw > 177 {
		return 177
	}
	rem := (raw - 17) % 4
	if rem < 2 {
		return raw - rem
	}
	return raw + (4 - rem)
}

// findAlignment searches a small window around the homography's estimate
// of the alignment point and returns the first non-white pixel found,
// scanning the window row by row, with its label. The size and shape of
// the region under that pixel are not checked.
func findAlignment(buf *raster.Buffer, h geom.Homography, gridSize int) (pt geom.Point, regionID int, ok bool) {
	ex, ey := h.Map(float64(gridSize-7)+0.5, float64(gridSize-7)+0.5)
	cx, cy := int(ex+0.5), int(ey+0.5)

	window := 6
	for dy := -window; dy <= window; dy++ {
		for dx := -window; dx <= window; dx++ {
			x, y := cx+dx, cy+dy
			if !buf.InBounds(x, y) {
				continue
			}
			if buf.Labels[buf.Index(x, y)] == raster.White {
				continue
			}
			return geom.Point{X: x, Y: y}, int(buf.Labels[buf.Index(x, y)]), true
		}
	}
	return geom.Point{}, -1, false
}
