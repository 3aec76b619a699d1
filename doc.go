// Package quirc locates and decodes QR codes from grayscale image buffers.
//
// A typical caller resizes a Context to the frame dimensions, writes
// grayscale luminance into the buffer returned by Begin, calls End to run
// detection, then iterates Count/Extract/Decode to read out whatever
// symbols were found.
package quirc
