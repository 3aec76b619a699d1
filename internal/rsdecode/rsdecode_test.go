package rsdecode

import (
	"bytes"
	"testing"

	"github.com/go-quirc/quirc/internal/gf256"
)

// encodeBlock appends eccLen Reed-Solomon check bytes to data, mirroring the
// polynomial division used by the QR encoder side (internal/qrtestgen).
func encodeBlock(data []byte, eccLen int) []byte {
	gen := gf256.GeneratorPoly(eccLen)
	remainder := make([]byte, eccLen)
	for _, b := range data {
		factor := b ^ remainder[0]
		copy(remainder, remainder[1:])
		remainder[len(remainder)-1] = 0
		for i, g := range gen[1:] {
			remainder[i] ^= gf256.Mul(g, factor)
		}
	}
	return append(append([]byte{}, data...), remainder...)
}

func TestCorrectBlockCleanBlock(t *testing.T) {
	data := []byte{0x10, 0x20, 0x0c, 0x56, 0x61, 0x80, 0xec, 0x11}
	eccLen := 10
	block := encodeBlock(data, eccLen)

	original := append([]byte{}, block...)
	if err := CorrectBlock(block, eccLen); err != nil {
		t.Fatalf("CorrectBlock on clean block: %v", err)
	}
	if !bytes.Equal(block, original) {
		t.Fatalf("clean block was mutated: got %x want %x", block, original)
	}
}

func TestCorrectBlockWithinBudget(t *testing.T) {
	data := []byte{0x10, 0x20, 0x0c, 0x56, 0x61, 0x80, 0xec, 0x11}
	eccLen := 10 // corrects up to 5 byte errors
	t_ := eccLen / 2

	for numErrors := 1; numErrors <= t_; numErrors++ {
		block := encodeBlock(data, eccLen)
		corrupted := append([]byte{}, block...)
		for i := 0; i < numErrors; i++ {
			corrupted[i] ^= byte(0x55 + i)
		}

		if err := CorrectBlock(corrupted, eccLen); err != nil {
			t.Fatalf("%d errors: CorrectBlock failed: %v", numErrors, err)
		}
		if !bytes.Equal(corrupted, block) {
			t.Fatalf("%d errors: got %x want %x", numErrors, corrupted, block)
		}
	}
}

func TestCorrectBlockBeyondBudget(t *testing.T) {
	data := []byte{0x10, 0x20, 0x0c, 0x56, 0x61, 0x80, 0xec, 0x11}
	eccLen := 10 // t=5; 6 errors should be uncorrectable (or at least not silently "fixed" wrong)
	block := encodeBlock(data, eccLen)
	corrupted := append([]byte{}, block...)
	for i := 0; i < 6; i++ {
		corrupted[i] ^= byte(0xAA + i)
	}

	err := CorrectBlock(corrupted, eccLen)
	if err == nil && bytes.Equal(corrupted, block) {
		t.Fatalf("6 errors against t=5 unexpectedly recovered the original block")
	}
}

func TestCorrectBlockShort(t *testing.T) {
	if err := CorrectBlock([]byte{1, 2}, 10); err != ErrShortBlock {
		t.Fatalf("got %v, want ErrShortBlock", err)
	}
}
