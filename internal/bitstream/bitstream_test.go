package bitstream

import "testing"

func TestBitmapGetSetRoundTrip(t *testing.T) {
	bm := NewBitmap(21)
	bm.Set(0, 0, true)
	bm.Set(20, 20, true)
	bm.Set(5, 3, true)

	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			want := (x == 0 && y == 0) || (x == 20 && y == 20) || (x == 5 && y == 3)
			if got := bm.Get(x, y); got != want {
				t.Fatalf("Get(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestBitmapFlipMirrorsHorizontally(t *testing.T) {
	bm := NewBitmap(5)
	bm.Set(0, 2, true)
	bm.Flip()
	if bm.Get(0, 2) {
		t.Fatal("expected (0,2) to be cleared after flip")
	}
	if !bm.Get(4, 2) {
		t.Fatal("expected (4,2) to be set after flip")
	}
}

func TestBitReaderReadsMSBFirst(t *testing.T) {
	r := &bitReader{data: []byte{0b10110000}}
	for _, want := range []uint32{1, 0, 1, 1, 0, 0, 0, 0} {
		got, err := r.readBits(1)
		if err != nil {
			t.Fatalf("readBits: %v", err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
}

func TestBitReaderMultiBitField(t *testing.T) {
	r := &bitReader{data: []byte{0b01000000}}
	v, err := r.readBits(4)
	if err != nil {
		t.Fatalf("readBits: %v", err)
	}
	if v != 0b0100 {
		t.Fatalf("got %#b, want %#b", v, 0b0100)
	}
}

func TestBitReaderUnderflow(t *testing.T) {
	r := &bitReader{data: []byte{0xFF}}
	if _, err := r.readBits(9); err != ErrDataUnderflow {
		t.Fatalf("got %v, want ErrDataUnderflow", err)
	}
}

func TestCharCountBitsByTier(t *testing.T) {
	cases := []struct {
		mode    modeIndicator
		version int
		want    int
	}{
		{modeNumeric, 1, 10},
		{modeNumeric, 10, 12},
		{modeNumeric, 27, 14},
		{modeAlpha, 1, 9},
		{modeAlpha, 26, 11},
		{modeAlpha, 40, 13},
		{modeByte, 1, 8},
		{modeByte, 10, 16},
		{modeKanji, 9, 8},
		{modeKanji, 26, 10},
		{modeKanji, 40, 12},
	}
	for _, c := range cases {
		if got := charCountBits(c.mode, c.version); got != c.want {
			t.Errorf("charCountBits(%v, %d) = %d, want %d", c.mode, c.version, got, c.want)
		}
	}
}

// encodeNumericForTest packs digits the way a QR encoder would, for feeding
// back into decodeNumeric.
func encodeNumericForTest(digits string, version int) []byte {
	w := &bitWriter{}
	w.writeBits(uint32(len(digits)), charCountBits(modeNumeric, version))
	for i := 0; i < len(digits); i += 3 {
		end := i + 3
		if end > len(digits) {
			end = len(digits)
		}
		group := digits[i:end]
		var v uint32
		for _, d := range group {
			v = v*10 + uint32(d-'0')
		}
		bits := map[int]int{1: 4, 2: 7, 3: 10}[len(group)]
		w.writeBits(v, bits)
	}
	return w.bytes()
}

type bitWriter struct {
	bits []bool
}

func (w *bitWriter) writeBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.bits = append(w.bits, (v>>uint(i))&1 != 0)
	}
}

func (w *bitWriter) bytes() []byte {
	out := make([]byte, (len(w.bits)+7)/8)
	for i, b := range w.bits {
		if b {
			out[i>>3] |= 1 << uint(7-(i&7))
		}
	}
	return out
}

func TestDecodeNumericRoundTrip(t *testing.T) {
	data := encodeNumericForTest("0123456789", 1)
	r := &bitReader{data: data}
	got, err := decodeNumeric(r, 1)
	if err != nil {
		t.Fatalf("decodeNumeric: %v", err)
	}
	if string(got) != "0123456789" {
		t.Fatalf("got %q, want %q", got, "0123456789")
	}
}

func TestDecodeNumericShortRemainder(t *testing.T) {
	for _, digits := range []string{"1", "12", "123", "1234"} {
		data := encodeNumericForTest(digits, 1)
		r := &bitReader{data: data}
		got, err := decodeNumeric(r, 1)
		if err != nil {
			t.Fatalf("decodeNumeric(%q): %v", digits, err)
		}
		if string(got) != digits {
			t.Errorf("got %q, want %q", got, digits)
		}
	}
}

func TestDecodeAlphanumericRoundTrip(t *testing.T) {
	w := &bitWriter{}
	text := "HELLO"
	w.writeBits(uint32(len(text)), charCountBits(modeAlpha, 1))
	for i := 0; i < len(text); i += 2 {
		if i+1 < len(text) {
			hi := indexOf(alphanumericTable, text[i])
			lo := indexOf(alphanumericTable, text[i+1])
			w.writeBits(uint32(hi*45+lo), 11)
		} else {
			w.writeBits(uint32(indexOf(alphanumericTable, text[i])), 6)
		}
	}
	r := &bitReader{data: w.bytes()}
	got, err := decodeAlphanumeric(r, 1)
	if err != nil {
		t.Fatalf("decodeAlphanumeric: %v", err)
	}
	if string(got) != text {
		t.Fatalf("got %q, want %q", got, text)
	}
}

func indexOf(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func TestDecodeByteRoundTrip(t *testing.T) {
	w := &bitWriter{}
	payload := []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f}
	w.writeBits(uint32(len(payload)), charCountBits(modeByte, 1))
	for _, b := range payload {
		w.writeBits(uint32(b), 8)
	}
	r := &bitReader{data: w.bytes()}
	got, err := decodeByte(r, 1)
	if err != nil {
		t.Fatalf("decodeByte: %v", err)
	}
	if string(got) != "Hello" {
		t.Fatalf("got %q, want %q", got, "Hello")
	}
}

func TestReadECIDesignatorSingleByte(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(26, 8) // leading 0 bit + 7-bit value 26 (UTF-8)
	r := &bitReader{data: w.bytes()}
	got, err := readECIDesignator(r)
	if err != nil {
		t.Fatalf("readECIDesignator: %v", err)
	}
	if got != 26 {
		t.Fatalf("got %d, want 26", got)
	}
}

func TestReadECIDesignatorTwoByte(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(0b10, 2)
	w.writeBits(900, 14)
	r := &bitReader{data: w.bytes()}
	got, err := readECIDesignator(r)
	if err != nil {
		t.Fatalf("readECIDesignator: %v", err)
	}
	if got != 900 {
		t.Fatalf("got %d, want 900", got)
	}
}

func TestMaskInvertAllEightFunctions(t *testing.T) {
	for mask := uint8(0); mask < 8; mask++ {
		seenTrue, seenFalse := false, false
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				if maskInvert(mask, x, y) {
					seenTrue = true
				} else {
					seenFalse = true
				}
			}
		}
		if !seenTrue || !seenFalse {
			t.Errorf("mask %d: predicate should vary across an 8x8 window", mask)
		}
	}
}

func TestMaskInvertUnknownMaskIsFalse(t *testing.T) {
	if maskInvert(9, 0, 0) {
		t.Fatal("unknown mask value should never invert")
	}
}

func TestDataTypeBumpKeepsMaximum(t *testing.T) {
	r := &Result{}
	r.bumpType(DataNumeric)
	r.bumpType(DataByte)
	r.bumpType(DataAlpha)
	if r.DataType != DataByte {
		t.Fatalf("got %v, want %v", r.DataType, DataByte)
	}
}

func TestParseSegmentsTerminatesCleanly(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(uint32(modeByte), 4)
	w.writeBits(3, charCountBits(modeByte, 1))
	for _, b := range []byte("hi!") {
		w.writeBits(uint32(b), 8)
	}
	w.writeBits(uint32(modeTerminator), 4)

	result, err := parseSegments(w.bytes(), 1)
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}
	if string(result.Payload) != "hi!" {
		t.Fatalf("got %q, want %q", result.Payload, "hi!")
	}
	if result.DataType != DataByte {
		t.Fatalf("got %v, want %v", result.DataType, DataByte)
	}
}

func TestParseSegmentsWithECIDoesNotAffectDataType(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(uint32(modeECI), 4)
	w.writeBits(26, 8)
	w.writeBits(uint32(modeByte), 4)
	w.writeBits(2, charCountBits(modeByte, 1))
	w.writeBits(uint32('h'), 8)
	w.writeBits(uint32('i'), 8)
	w.writeBits(uint32(modeTerminator), 4)

	result, err := parseSegments(w.bytes(), 1)
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}
	if !result.HasECI || result.ECI != 26 {
		t.Fatalf("expected ECI 26, got hasECI=%v eci=%d", result.HasECI, result.ECI)
	}
	if result.DataType != DataByte {
		t.Fatalf("got %v, want %v", result.DataType, DataByte)
	}
}
