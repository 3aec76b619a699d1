// Package capstone scans a labelled frame for QR finder patterns: the
// 1:1:3:1:1 dark/light run signature that marks a ring-around-a-square
// (spec.md §4.D).
package capstone

import (
	"github.com/go-quirc/quirc/internal/geom"
	"github.com/go-quirc/quirc/internal/raster"
	"github.com/go-quirc/quirc/internal/region"
)

// unitQuad is the source quad every capstone homography is fit from: the
// corners of a 7x7-module square, matching internal/geom's Fit contract.
var unitQuad = [4]geom.Point{{X: 0, Y: 0}, {X: 7, Y: 0}, {X: 7, Y: 7}, {X: 0, Y: 7}}

// Capstone is a located finder pattern: its four image corners (clockwise
// from the corner nearest the image origin), centre, the region ids of its
// ring and stone, and the homography mapping the unit quad onto Corners.
type Capstone struct {
	Corners       [4]geom.Point
	Centre        geom.Point
	RingRegionID  uint8
	StoneRegionID uint8
	C             geom.Homography
	GridIndex     int // -1 until claimed by internal/grid
}

type run struct {
	label      uint8
	start, end int // [start, end)
}

// Find scans buf row by row for the finder signature and returns every
// capstone that survives the ring/stone validation. Claimed stone regions
// are recorded on table so a later pass can't reuse them.
func Find(buf *raster.Buffer, table *region.Table) []Capstone {
	var out []Capstone
	claimedStone := map[uint8]bool{}

	for y := 0; y < buf.Height; y++ {
		runs := collectRuns(buf, y)
		for i := 0; i+5 <= len(runs); i++ {
			window := runs[i : i+5]
			if !ratioMatches(window) {
				continue
			}
			if !validLabels(window) {
				continue
			}
			if !polarityMatches(table, window) {
				continue
			}
			if window[0].label != window[4].label {
				continue // the two outer dark runs must be the same ring region
			}

			ringID := window[0].label
			stoneID := window[2].label
			if ringID == stoneID || claimedStone[stoneID] {
				continue
			}

			ringRegion := table.Get(ringID)
			stoneRegion := table.Get(stoneID)
			if !areaRatioOK(ringRegion.Area, stoneRegion.Area) {
				continue
			}

			centreX := (window[2].start + window[2].end) / 2
			if !verticalProbe(buf, table, centreX, y, stoneID) {
				continue
			}

			corners, centre, ok := ringCorners(buf, ringID)
			if !ok {
				continue
			}

			h, ok := geom.Fit(unitQuad[:], corners[:])
			if !ok {
				continue
			}

			claimedStone[stoneID] = true
			idx := len(out)
			stoneRegion.CapstoneIndex = idx
			ringRegion.CapstoneIndex = idx
			out = append(out, Capstone{
				Corners:       corners,
				Centre:        centre,
				RingRegionID:  ringID,
				StoneRegionID: stoneID,
				C:             h,
				GridIndex:     -1,
			})
		}
	}
	return out
}

func collectRuns(buf *raster.Buffer, y int) []run {
	var runs []run
	x := 0
	for x < buf.Width {
		label := buf.Labels[buf.Index(x, y)]
		start := x
		for x < buf.Width && buf.Labels[buf.Index(x, y)] == label {
			x++
		}
		runs = append(runs, run{label: label, start: start, end: x})
	}
	return runs
}

// ratioWeights is the expected 1:1:3:1:1 run ratio, in sevenths of the
// total span (spec.md §4.D).
var ratioWeights = [5]int{1, 1, 3, 1, 1}

const ratioTolerance = 0.4

func ratioMatches(window []run) bool {
	total := 0
	widths := [5]int{}
	for i, r := range window {
		w := r.end - r.start
		if w <= 0 {
			return false
		}
		widths[i] = w
		total += w
	}
	unit := float64(total) / 7
	for i, w := range widths {
		expected := unit * float64(ratioWeights[i])
		if expected <= 0 {
			return false
		}
		delta := float64(w) - expected
		if delta < 0 {
			delta = -delta
		}
		if delta > ratioTolerance*expected {
			return false
		}
	}
	return true
}

func validLabels(window []run) bool {
	for _, r := range window {
		if r.label < raster.FirstRegionID {
			return false // abandoned or unlabelled pixel: not a real region
		}
	}
	return true
}

func polarityMatches(table *region.Table, window []run) bool {
	wantDark := [5]bool{true, false, true, false, true}
	for i, r := range window {
		if table.Get(r.label).Dark != wantDark[i] {
			return false
		}
	}
	return true
}

func areaRatioOK(ringArea, stoneArea int) bool {
	if stoneArea <= 0 {
		return false
	}
	ratio := float64(ringArea) / float64(stoneArea)
	return ratio >= 1.5 && ratio <= 4.0
}

// verticalProbe re-checks the 1:1:3:1:1 signature along the column through
// the candidate stone, confirming the ring really is a ring and not a
// coincidental horizontal run pattern (spec.md §4.D step 2).
func verticalProbe(buf *raster.Buffer, table *region.Table, x, y int, stoneID uint8) bool {
	if !buf.InBounds(x, y) || buf.Labels[buf.Index(x, y)] != stoneID {
		return false
	}
	runs := collectColumnRuns(buf, x)

	centre := -1
	for i, r := range runs {
		if r.label == stoneID && y >= r.start && y < r.end {
			centre = i
			break
		}
	}
	if centre < 2 || centre+2 >= len(runs) {
		return false
	}
	window := runs[centre-2 : centre+3]
	return validLabels(window) && window[0].label == window[4].label &&
		ratioMatches(window) && polarityMatches(table, window)
}

func collectColumnRuns(buf *raster.Buffer, x int) []run {
	var runs []run
	y := 0
	for y < buf.Height {
		label := buf.Labels[buf.Index(x, y)]
		start := y
		for y < buf.Height && buf.Labels[buf.Index(x, y)] == label {
			y++
		}
		runs = append(runs, run{label: label, start: start, end: y})
	}
	return runs
}

// ringCorners rescans the frame for every pixel carrying ringID and finds
// the four extremal pixels in the NW/NE/SE/SW directions, per spec.md
// §4.D step 4. Ties keep the first pixel found in raster order, which
// keeps the result deterministic.
func ringCorners(buf *raster.Buffer, ringID uint8) (corners [4]geom.Point, centre geom.Point, ok bool) {
	const (
		nw = iota
		ne
		se
		sw
	)
	var best [4]int
	var bestPt [4]geom.Point
	found := false
	var sumX, sumY, n int

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			if buf.Labels[buf.Index(x, y)] != ringID {
				continue
			}
			sumX += x
			sumY += y
			n++

			scores := [4]int{
				-x - y, // NW
				x - y,  // NE
				x + y,  // SE
				-x + y, // SW
			}
			for d := 0; d < 4; d++ {
				if !found || scores[d] > best[d] {
					best[d] = scores[d]
					bestPt[d] = geom.Point{X: x, Y: y}
				}
			}
			found = true
		}
	}
	if !found || n == 0 {
		return corners, centre, false
	}

	corners = [4]geom.Point{bestPt[nw], bestPt[ne], bestPt[se], bestPt[sw]}
	if degenerate(corners) {
		return corners, centre, false
	}
	centre = geom.Point{X: sumX / n, Y: sumY / n}
	return corners, centre, true
}

func degenerate(corners [4]geom.Point) bool {
	seen := map[geom.Point]bool{}
	for _, c := range corners {
		if seen[c] {
			return true
		}
		seen[c] = true
	}
	// Cross product of the two diagonals: zero means collinear corners.
	d1x, d1y := corners[2].X-corners[0].X, corners[2].Y-corners[0].Y
	d2x, d2y := corners[3].X-corners[1].X, corners[3].Y-corners[1].Y
	return d1x*d2y-d1y*d2x == 0
}
