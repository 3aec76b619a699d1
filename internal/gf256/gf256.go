// Package gf256 implements arithmetic over GF(256) with the QR Code
// primitive polynomial 0x11d, the field shared by the Reed-Solomon encoder
// (internal/qrtestgen, test-only) and decoder (internal/rsdecode).
package gf256

// Primitive polynomial x^8 + x^4 + x^3 + x^2 + 1, per ISO/IEC 18004 Annex A.
const primitivePoly = 0x11d

var (
	expTable [512]byte // exp[i] = alpha^i, doubled so Exp never needs a modulo
	logTable [256]byte // log[alpha^i] = i, log[0] is unused
)

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(x)
		logTable[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= primitivePoly
		}
	}
	for i := 255; i < 512; i++ {
		expTable[i] = expTable[i-255]
	}
}

// Exp returns alpha^power, where power may be any non-negative int.
func Exp(power int) byte {
	return expTable[power%255]
}

// Log returns the discrete log of a non-zero field element.
func Log(x byte) byte {
	return logTable[x]
}

// Mul multiplies two field elements.
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Div divides a by b (b must be non-zero).
func Div(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return expTable[(int(logTable[a])-int(logTable[b])+255)%255]
}

// Inv returns the multiplicative inverse of a non-zero field element.
func Inv(a byte) byte {
	return expTable[255-int(logTable[a])]
}

// Poly is a polynomial over GF(256), coefficients stored highest-degree
// first (poly[0] is the leading coefficient).
type Poly []byte

// EvalAt evaluates the polynomial at a field element using Horner's method.
func (p Poly) EvalAt(x byte) byte {
	var y byte
	if len(p) > 0 {
		y = p[0]
	}
	for i := 1; i < len(p); i++ {
		y = Mul(y, x) ^ p[i]
	}
	return y
}

// Mul returns the product of two polynomials.
func (p Poly) Mul(q Poly) Poly {
	if len(p) == 0 || len(q) == 0 {
		return Poly{}
	}
	result := make(Poly, len(p)+len(q)-1)
	for i, pc := range p {
		if pc == 0 {
			continue
		}
		for j, qc := range q {
			result[i+j] ^= Mul(pc, qc)
		}
	}
	return result
}

// GeneratorPoly computes the Reed-Solomon generator polynomial of the given
// degree: (x - alpha^0)(x - alpha^1)...(x - alpha^(degree-1)).
func GeneratorPoly(degree int) Poly {
	g := Poly{1}
	for i := 0; i < degree; i++ {
		g = g.Mul(Poly{1, Exp(i)})
	}
	return g
}
