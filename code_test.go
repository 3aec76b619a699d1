package quirc

import (
	"bytes"
	"testing"
)

func TestCodeFlipIsInvolution(t *testing.T) {
	code := Code{Size: 5, Bitmap: make([]byte, (5*5+7)/8)}
	code.toBitstreamBitmap().Set(1, 2, true)
	code.toBitstreamBitmap().Set(4, 0, true)

	original := append([]byte(nil), code.Bitmap...)

	code.Flip()
	code.Flip()

	if !bytes.Equal(code.Bitmap, original) {
		t.Fatalf("flip should be its own inverse: got %v, want %v", code.Bitmap, original)
	}
}

func TestCodeFlipMirrorsHorizontally(t *testing.T) {
	code := Code{Size: 5, Bitmap: make([]byte, (5*5+7)/8)}
	code.toBitstreamBitmap().Set(0, 2, true)

	code.Flip()

	if code.toBitstreamBitmap().Get(0, 2) {
		t.Fatal("expected (0,2) cleared after flip")
	}
	if !code.toBitstreamBitmap().Get(4, 2) {
		t.Fatal("expected (4,2) set after flip")
	}
}
