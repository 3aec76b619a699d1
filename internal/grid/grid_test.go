package grid

import (
	"testing"

	"github.com/go-quirc/quirc/internal/capstone"
	"github.com/go-quirc/quirc/internal/geom"
	"github.com/go-quirc/quirc/internal/raster"
)

func TestCrossZHandedness(t *testing.T) {
	origin := geom.Point{X: 0, Y: 0}
	a := geom.Point{X: 10, Y: 0}
	b := geom.Point{X: 0, Y: 10}
	if crossZ(origin, a, b) <= 0 {
		t.Error("expected positive cross product for (10,0) x (0,10)")
	}
	if crossZ(origin, b, a) >= 0 {
		t.Error("expected negative cross product for (0,10) x (10,0)")
	}
}

func TestLegsConsistentRejectsLopsidedTriplet(t *testing.T) {
	tl := geom.Point{X: 0, Y: 0}
	tr := geom.Point{X: 100, Y: 0}
	bl := geom.Point{X: 1, Y: 1}
	if legsConsistent(tl, tr, bl) {
		t.Error("wildly different leg lengths should be rejected")
	}
	if !legsConsistent(tl, tr, geom.Point{X: 0, Y: 95}) {
		t.Error("comparable leg lengths should pass")
	}
}

func TestNearestValidGridSize(t *testing.T) {
	cases := map[int]int{
		21:  21,
		22:  21,
		23:  25,
		5:   21,
		200: 177,
		25:  25,
	}
	for raw, want := range cases {
		if got := nearestValidGridSize(raw); got != want {
			t.Errorf("nearestValidGridSize(%d) = %d, want %d", raw, got, want)
		}
	}
}

func TestPickTLClosestToRightAngle(t *testing.T) {
	caps := []capstone.Capstone{
		{Centre: geom.Point{X: 0, Y: 0}},   // TL: right angle here
		{Centre: geom.Point{X: 100, Y: 0}}, // TR
		{Centre: geom.Point{X: 0, Y: 100}}, // BL
	}
	tl, _, _, ok := pickTL(caps, 0, 1, 2)
	if !ok || tl != 0 {
		t.Errorf("pickTL = %d, ok=%v, want 0", tl, ok)
	}
}

// renderModuleLine paints a contiguous run of dark/light modules along a
// single pixel row (horizontal=true) or column, for exercising walkTiming
// without needing a full finder-pattern render.
func renderModuleLine(buf *raster.Buffer, horizontal bool, fixedPixel int, darkModules []bool, scale, margin int) {
	for i, dark := range darkModules {
		label := raster.White
		if dark {
			label = raster.Black
		}
		for p := 0; p < scale; p++ {
			coord := margin + i*scale + p
			for q := 0; q < scale; q++ {
				cross := fixedPixel + q - scale/2
				if horizontal {
					if buf.InBounds(coord, cross) {
						buf.Labels[buf.Index(coord, cross)] = label
					}
				} else {
					if buf.InBounds(cross, coord) {
						buf.Labels[buf.Index(cross, coord)] = label
					}
				}
			}
		}
	}
}

func TestWalkTimingEstimatesGridSize(t *testing.T) {
	const scale = 4
	const margin = 8
	const modules = 21
	size := margin*2 + modules*scale
	buf, err := raster.NewBuffer(size, size)
	if err != nil {
		t.Fatal(err)
	}
	for i := range buf.Labels {
		buf.Labels[i] = raster.White
	}

	// Row 3 (TL<->TR): capstone cross sections + a 7-module timing run.
	rowDark := []bool{true, false, true, true, true, false, true, // TL (0-6)
		true, false, true, false, true, false, true, // timing (7-13)
		true, false, true, true, true, false, true, // TR (14-20)
	}
	rowPixel := margin + 3*scale + scale/2
	renderModuleLine(buf, true, rowPixel, rowDark, scale, margin)

	tl := capstone.Capstone{
		Corners: [4]geom.Point{
			{X: margin, Y: margin}, {X: margin + 7*scale, Y: margin},
			{X: margin + 7*scale, Y: margin + 7*scale}, {X: margin, Y: margin + 7*scale},
		},
		Centre: geom.Point{X: margin + 3*scale + scale/2, Y: rowPixel},
	}
	tr := capstone.Capstone{
		Corners: [4]geom.Point{
			{X: margin + 14*scale, Y: margin}, {X: margin + 21*scale, Y: margin},
			{X: margin + 21*scale, Y: margin + 7*scale}, {X: margin + 14*scale, Y: margin + 7*scale},
		},
		Centre: geom.Point{X: margin + 17*scale + scale/2, Y: rowPixel},
	}

	gotSize, _, ok := walkTiming(buf, tl, tr)
	if !ok {
		t.Fatal("walkTiming failed to find a pattern")
	}
	if gotSize < 19 || gotSize > 23 {
		t.Errorf("walkTiming size estimate = %d, want close to 21", gotSize)
	}
}
