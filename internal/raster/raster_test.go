package raster

import "testing"

func fillSolid(b *Buffer, value byte) {
	for i := range b.Gray {
		b.Gray[i] = value
	}
}

func TestThresholdUniformFieldIsAllWhite(t *testing.T) {
	b, err := NewBuffer(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	fillSolid(b, 230)

	Threshold(b)

	for i, label := range b.Labels {
		if label != White {
			t.Fatalf("pixel %d: got %d, want White on a uniform bright field", i, label)
		}
	}
}

func TestThresholdDarkSquareOnLightField(t *testing.T) {
	w, h := 64, 64
	b, err := NewBuffer(w, h)
	if err != nil {
		t.Fatal(err)
	}
	fillSolid(b, 230)
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			b.Gray[b.Index(x, y)] = 10
		}
	}

	Threshold(b)

	if got := b.Labels[b.Index(30, 30)]; got != Black {
		t.Errorf("centre of dark square: got %d, want Black", got)
	}
	if got := b.Labels[b.Index(5, 5)]; got != White {
		t.Errorf("corner of light field: got %d, want White", got)
	}
}

func TestNewBufferRejectsBadDimensions(t *testing.T) {
	if _, err := NewBuffer(0, 10); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := NewBuffer(10, -1); err == nil {
		t.Error("expected error for negative height")
	}
}
