package rsdecode

import "errors"

var (
	// ErrUncorrectable indicates more errors were found than the block's
	// ECC budget can correct.
	ErrUncorrectable = errors.New("rsdecode: block has more errors than can be corrected")

	// ErrShortBlock indicates a block shorter than its ECC length.
	ErrShortBlock = errors.New("rsdecode: block shorter than ECC length")
)
