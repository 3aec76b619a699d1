// Package qrtext transcodes a decoded QR payload's raw bytes to a UTF-8
// Go string, using the symbol's ECI designator (or Shift-JIS for Kanji
// segments) to pick the source encoding. The core quirc package
// deliberately stops short of this: spec.md's open question on text
// transcoding leaves it to callers, the same way a caller picks an image
// codec by transfer syntax rather than the codec guessing one for them.
package qrtext

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/go-quirc/quirc"
)

// ECI designator values from AIM ITS/04-023 that this package knows how to
// transcode. Designators outside this set return ErrUnsupportedECI.
const (
	ECICp437     = 2
	ECIISO8859_1 = 3
	ECIISO8859_2 = 4
	ECIISO8859_7 = 9
	ECIShiftJIS  = 20
	ECIUTF16BE   = 25
	ECIUTF8      = 26
)

var eciEncodings = map[uint32]encoding.Encoding{
	ECICp437:     charmap.CodePage437,
	ECIISO8859_1: charmap.ISO8859_1,
	ECIISO8859_2: charmap.ISO8859_2,
	ECIISO8859_7: charmap.ISO8859_7,
	ECIShiftJIS:  japanese.ShiftJIS,
	ECIUTF16BE:   unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	ECIUTF8:      encoding.Nop,
}

// ErrUnsupportedECI is returned for a recognized-but-unhandled or unknown
// ECI designator.
type ErrUnsupportedECI uint32

func (e ErrUnsupportedECI) Error() string {
	return fmt.Sprintf("qrtext: unsupported ECI designator %d", uint32(e))
}

// Decode transcodes data to a UTF-8 string using enc.
func Decode(data []byte, enc encoding.Encoding) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// TranscodePayload converts a decoded quirc.Data's payload to a UTF-8
// string. Kanji-mode payloads are always Shift-JIS regardless of ECI
// (ISO/IEC 18004 8.4.5); everything else follows the symbol's ECI
// designator if present, defaulting to ISO-8859-1 (the QR spec's implicit
// default character set when no ECI segment appears).
func TranscodePayload(d *quirc.Data) (string, error) {
	if d.DataType == quirc.DataKanji {
		return Decode(d.Payload, japanese.ShiftJIS)
	}

	eci := uint32(ECIISO8859_1)
	if d.HasECI {
		eci = d.ECI
	}
	enc, ok := eciEncodings[eci]
	if !ok {
		return "", ErrUnsupportedECI(eci)
	}
	return Decode(d.Payload, enc)
}
