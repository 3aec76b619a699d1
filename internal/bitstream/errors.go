package bitstream

import "errors"

var (
	ErrInvalidGridSize  = errors.New("bitstream: grid size out of range or not of the form 17+4k")
	ErrInvalidVersion   = errors.New("bitstream: version info uncorrectable or inconsistent with grid size")
	ErrFormatECC        = errors.New("bitstream: format info uncorrectable")
	ErrDataECC          = errors.New("bitstream: reed-solomon block uncorrectable")
	ErrUnknownDataType  = errors.New("bitstream: unrecognised segment mode indicator")
	ErrDataOverflow     = errors.New("bitstream: segment data exceeds payload capacity")
	ErrDataUnderflow    = errors.New("bitstream: declared length exceeds remaining bitstream")
)
