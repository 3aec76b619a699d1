// Package geom holds the small geometric primitives shared by the capstone
// finder and grid assembler: integer points, and the 8-parameter projective
// homography solved by hand-rolled Gauss-Jordan elimination (deliberately
// not a third-party linear-algebra dependency — an 8x8 dense solve does not
// earn one, and spec keeps floating point confined to exactly this solve).
package geom

import "golang.org/x/exp/constraints"

// Point is an integer image-space coordinate.
type Point struct {
	X, Y int
}

// Abs returns the absolute value of x.
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Clamp restricts x to [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	return Max(lo, Min(hi, x))
}

// Homography is the 8-parameter projective map used throughout the
// pipeline:
//
//	den := c6*u + c7*v + 1
//	x = (c0*u + c1*v + c2) / den
//	y = (c3*u + c4*v + c5) / den
type Homography struct {
	C [8]float64
}

// Map applies the homography to (u, v), returning the mapped (x, y).
func (h Homography) Map(u, v float64) (x, y float64) {
	den := h.C[6]*u + h.C[7]*v + 1
	x = (h.C[0]*u + h.C[1]*v + h.C[2]) / den
	y = (h.C[3]*u + h.C[4]*v + h.C[5]) / den
	return x, y
}

// MapPoint applies the homography and rounds to the nearest image pixel.
func (h Homography) MapPoint(u, v float64) Point {
	x, y := h.Map(u, v)
	return Point{X: int(x + 0.5), Y: int(y + 0.5)}
}

// Fit solves for the 8 homography parameters mapping each src[i] to
// dst[i]. len(src) must equal len(dst) and be at least 4; with more than 4
// points the system is solved in a least-squares sense via the normal
// equations. Returns false if the normal matrix is singular.
func Fit(src, dst []Point) (Homography, bool) {
	n := len(src)
	if n < 4 || len(dst) != n {
		return Homography{}, false
	}

	// Each correspondence (u,v)->(x,y) contributes two linear equations in
	// the 8 unknowns c0..c7:
	//   c0*u + c1*v + c2 - c6*u*x - c7*v*x = x
	//   c3*u + c4*v + c5 - c6*u*y - c7*v*y = y
	// Build the normal equations A^T A c = A^T b for an 8x8 system.
	var ata [8][8]float64
	var atb [8]float64

	addRow := func(row [8]float64, b float64) {
		for i := 0; i < 8; i++ {
			atb[i] += row[i] * b
			for j := 0; j < 8; j++ {
				ata[i][j] += row[i] * row[j]
			}
		}
	}

	for i := 0; i < n; i++ {
		u, v := float64(src[i].X), float64(src[i].Y)
		x, y := float64(dst[i].X), float64(dst[i].Y)

		addRow([8]float64{u, v, 1, 0, 0, 0, -u * x, -v * x}, x)
		addRow([8]float64{0, 0, 0, u, v, 1, -u * y, -v * y}, y)
	}

	c, ok := solve8(ata, atb)
	if !ok {
		return Homography{}, false
	}
	return Homography{C: c}, true
}

// solve8 solves the 8x8 linear system a*x = b via Gauss-Jordan elimination
// with partial pivoting.
func solve8(a [8][8]float64, b [8]float64) (x [8]float64, ok bool) {
	const n = 8
	var aug [n][n + 1]float64
	for i := 0; i < n; i++ {
		copy(aug[i][:n], a[i][:])
		aug[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		best := Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := Abs(aug[r][col]); v > best {
				best = v
				pivot = r
			}
		}
		if best < 1e-12 {
			return x, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		inv := 1 / aug[col][col]
		for k := col; k <= n; k++ {
			aug[col][k] *= inv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for k := col; k <= n; k++ {
				aug[r][k] -= factor * aug[col][k]
			}
		}
	}

	for i := 0; i < n; i++ {
		x[i] = aug[i][n]
	}
	return x, true
}
