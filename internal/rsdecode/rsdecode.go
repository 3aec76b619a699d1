// Package rsdecode implements Reed-Solomon error correction over GF(256)
// for QR Code data: syndrome calculation, Berlekamp-Massey, Chien search and
// Forney's formula, per ISO/IEC 18004 Annex E.
package rsdecode

import "github.com/go-quirc/quirc/internal/gf256"

// CorrectBlock corrects up to eccLen/2 byte errors in block in place.
// block holds data codewords followed by ECC codewords, highest-degree
// coefficient first (i.e. block[0] is the most significant data byte).
// Returns ErrUncorrectable if the block cannot be corrected within budget.
func CorrectBlock(block []byte, eccLen int) error {
	if eccLen <= 0 || eccLen > len(block) {
		return ErrShortBlock
	}

	syndromes := computeSyndromes(block, eccLen)
	if allZero(syndromes) {
		return nil // clean block
	}

	locator := berlekampMassey(syndromes, eccLen)
	t := eccLen / 2
	if len(locator)-1 > t {
		return ErrUncorrectable
	}

	errPos, ok := chienSearch(locator, len(block))
	if !ok || len(errPos) != len(locator)-1 {
		return ErrUncorrectable
	}
	if len(errPos) == 0 {
		// Non-zero syndromes but no error located: uncorrectable.
		return ErrUncorrectable
	}

	magnitudes := forney(syndromes, locator, errPos, len(block))
	for i, pos := range errPos {
		block[pos] ^= magnitudes[i]
	}

	// Verify: recomputed syndromes over the corrected block must vanish.
	if !allZero(computeSyndromes(block, eccLen)) {
		return ErrUncorrectable
	}
	return nil
}

// computeSyndromes returns S_0..S_(eccLen-1) evaluated by Horner's method,
// treating block as a polynomial with block[0] the highest-degree term.
// The codeword's generator polynomial (gf256.GeneratorPoly) is rooted at
// alpha^0..alpha^(eccLen-1), so a clean block's syndromes vanish at
// exactly these powers; forney's formula below is derived for this same
// zero-offset convention.
func computeSyndromes(block []byte, eccLen int) []byte {
	syn := make([]byte, eccLen)
	for i := 0; i < eccLen; i++ {
		syn[i] = gf256.Poly(block).EvalAt(gf256.Exp(i))
	}
	return syn
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// berlekampMassey computes the error-locator polynomial Lambda from the
// syndrome sequence. The returned polynomial is stored highest-degree
// first, with Lambda[len-1] == 1 (the constant term).
func berlekampMassey(syndromes []byte, eccLen int) gf256.Poly {
	c := gf256.Poly{1}     // current LFSR connection polynomial
	b := gf256.Poly{1}     // polynomial from the last length change
	var l, m int           // current LFSR length, steps since last update
	bCoeff := byte(1)
	m = 1

	for n := 0; n < eccLen; n++ {
		// Discrepancy, per the standard Berlekamp-Massey recurrence.
		delta := syndromes[n]
		for i := 1; i <= l; i++ {
			delta ^= gf256.Mul(c[len(c)-1-i], syndromes[n-i])
		}
		if delta == 0 {
			m++
			continue
		}

		t := make(gf256.Poly, len(c))
		copy(t, c)

		scale := gf256.Div(delta, bCoeff)
		shifted := make(gf256.Poly, len(b)+m)
		copy(shifted, b)
		for i := range shifted {
			shifted[i] = gf256.Mul(shifted[i], scale)
		}
		c = polyXorAligned(c, shifted)

		if 2*l <= n {
			l = n + 1 - l
			b = t
			bCoeff = delta
			m = 1
		} else {
			m++
		}
	}
	return c
}

// polyXorAligned XORs two polynomials stored highest-degree first, aligning
// them on their constant (last) terms.
func polyXorAligned(a, b gf256.Poly) gf256.Poly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(gf256.Poly, n)
	for i := 0; i < n; i++ {
		var av, bv byte
		ai := len(a) - n + i
		bi := len(b) - n + i
		if ai >= 0 {
			av = a[ai]
		}
		if bi >= 0 {
			bv = b[bi]
		}
		out[i] = av ^ bv
	}
	return out
}

// chienSearch finds the roots of the error locator polynomial by brute-force
// evaluation at alpha^-i for every candidate position i in [0,n), returning
// the corresponding error positions (index from the start of the block,
// block[0] being the highest-degree coefficient).
func chienSearch(locator gf256.Poly, n int) ([]int, bool) {
	var positions []int
	for i := 0; i < n; i++ {
		// Error locator roots are at alpha^(-pos); pos counts from the
		// block's low-order end, so translate to a slice index.
		x := gf256.Exp(255 - (i % 255))
		if locator.EvalAt(x) == 0 {
			positions = append(positions, n-1-i)
		}
	}
	return positions, true
}

// forney computes error magnitudes at the given positions using the
// syndrome polynomial and the error locator. blockLen is the total block
// length, needed to convert a byte position into its location number
// alpha^(blockLen-1-pos).
func forney(syndromes []byte, locator gf256.Poly, errPos []int, blockLen int) []byte {
	// Error evaluator polynomial: Omega(x) = S(x) * Lambda(x) mod x^eccLen,
	// with S(x) stored lowest-degree first for this step.
	sLow := make(gf256.Poly, len(syndromes))
	copy(sLow, syndromes) // syndromes[i] is S_i, already lowest-degree first
	lambdaLow := make(gf256.Poly, len(locator))
	for i, c := range locator {
		lambdaLow[len(locator)-1-i] = c
	}

	prod := make([]byte, len(sLow)+len(lambdaLow)-1)
	for i, sc := range sLow {
		if sc == 0 {
			continue
		}
		for j, lc := range lambdaLow {
			prod[i+j] ^= gf256.Mul(sc, lc)
		}
	}
	omega := prod
	if len(omega) > len(syndromes) {
		omega = omega[:len(syndromes)]
	}

	lambdaDeriv := formalDerivative(lambdaLow)

	magnitudes := make([]byte, len(errPos))
	for idx, pos := range errPos {
		// Xi is the location number of this position; the Chien search
		// found a root of Lambda at Xi's reciprocal.
		xi := gf256.Exp(blockLen - 1 - pos)
		xiInv := gf256.Inv(xi)

		num := evalLow(omega, xiInv)
		den := evalLow(lambdaDeriv, xiInv)
		if den == 0 {
			magnitudes[idx] = 0
			continue
		}
		magnitudes[idx] = gf256.Mul(xi, gf256.Div(num, den))
	}
	return magnitudes
}

// evalLow evaluates a polynomial stored lowest-degree first at x.
func evalLow(p []byte, x byte) byte {
	var y byte
	var pw byte = 1
	for _, c := range p {
		y ^= gf256.Mul(c, pw)
		pw = gf256.Mul(pw, x)
	}
	return y
}

// formalDerivative returns the formal derivative of a polynomial stored
// lowest-degree first: terms at odd powers survive (GF(2)-characteristic
// arithmetic kills the factor, leaving just the coefficient).
func formalDerivative(p []byte) []byte {
	if len(p) <= 1 {
		return nil
	}
	out := make([]byte, len(p)-1)
	for i := 1; i < len(p); i += 2 {
		out[i-1] = p[i]
	}
	return out
}
