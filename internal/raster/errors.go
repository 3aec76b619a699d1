package raster

import "errors"

// ErrInvalidDimensions indicates a non-positive width or height was given
// to Resize.
var ErrInvalidDimensions = errors.New("raster: width and height must be positive")
