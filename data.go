package quirc

import "github.com/go-quirc/quirc/internal/bitstream"

// DataType is the highest-valued segment mode found while parsing a
// symbol's payload (spec.md §9).
type DataType int

const (
	DataNone DataType = iota
	DataNumeric
	DataAlpha
	DataByte
	DataKanji
)

func (d DataType) String() string {
	return bitstream.DataType(d).String()
}

// Data is everything Decode recovers from a successfully read Code.
type Data struct {
	Version  int
	ECCLevel string
	Mask     uint8
	DataType DataType
	Payload  []byte
	ECI      uint32
	HasECI   bool
}
