package bchcode

import "errors"

var (
	// ErrFormatUncorrectable indicates the 15-bit format word could not be
	// matched to any valid codeword within 3 bit errors.
	ErrFormatUncorrectable = errors.New("bchcode: format info uncorrectable")

	// ErrVersionUncorrectable indicates the 18-bit version word could not
	// be matched to any valid codeword within 3 bit errors.
	ErrVersionUncorrectable = errors.New("bchcode: version info uncorrectable")
)
