package qrtext

import (
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/go-quirc/quirc"
)

func TestDecodeISO8859_1(t *testing.T) {
	// "café" in ISO-8859-1: the trailing é is a single 0xE9 byte.
	data := []byte{'c', 'a', 'f', 0xE9}
	got, err := Decode(data, charmap.ISO8859_1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "café" {
		t.Fatalf("got %q, want %q", got, "café")
	}
}

func TestTranscodePayloadDefaultsToISO8859_1(t *testing.T) {
	d := &quirc.Data{
		DataType: quirc.DataByte,
		Payload:  []byte{'c', 'a', 'f', 0xE9},
	}
	got, err := TranscodePayload(d)
	if err != nil {
		t.Fatalf("TranscodePayload: %v", err)
	}
	if got != "café" {
		t.Fatalf("got %q, want %q", got, "café")
	}
}

func TestTranscodePayloadHonorsExplicitECI(t *testing.T) {
	d := &quirc.Data{
		DataType: quirc.DataByte,
		Payload:  []byte("hello"),
		ECI:      ECIUTF8,
		HasECI:   true,
	}
	got, err := TranscodePayload(d)
	if err != nil {
		t.Fatalf("TranscodePayload: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestTranscodePayloadUnsupportedECI(t *testing.T) {
	d := &quirc.Data{
		DataType: quirc.DataByte,
		Payload:  []byte("x"),
		ECI:      999,
		HasECI:   true,
	}
	if _, err := TranscodePayload(d); err == nil {
		t.Fatal("expected an error for an unsupported ECI designator")
	}
}

func TestTranscodePayloadKanjiIgnoresECI(t *testing.T) {
	// Shift-JIS encoding of "あ" (U+3042) is 0x82 0xA0.
	d := &quirc.Data{
		DataType: quirc.DataKanji,
		Payload:  []byte{0x82, 0xA0},
	}
	got, err := TranscodePayload(d)
	if err != nil {
		t.Fatalf("TranscodePayload: %v", err)
	}
	if got != "あ" {
		t.Fatalf("got %q, want %q", got, "あ")
	}
}
