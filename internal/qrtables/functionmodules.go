package qrtables

// This file locates every "function module" position shared by the
// decoder's bitstream stage and the test-only symbol generator: finder
// patterns, timing patterns, alignment patterns, and the format/version
// info strips. Coordinates and bit ordering are grounded directly on the
// encoder's placement logic (so a generated symbol and this decoder always
// agree on geometry) rather than re-derived independently.

// FinderCenters returns the centre module of each of the three finder
// patterns for the given grid size.
func FinderCenters(size int) [3][2]int {
	return [3][2]int{{3, 3}, {size - 4, 3}, {3, size - 4}}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// IsFunctionModule reports whether (x,y) belongs to a finder pattern
// (including its separator), a timing pattern, an alignment pattern,
// the format-info strips, or (for version >= 7) the version-info blocks.
// Function modules carry no data and are excluded from masking/codeword
// assembly.
func IsFunctionModule(x, y, size, version int) bool {
	if x == 6 || y == 6 {
		return true
	}
	for _, c := range FinderCenters(size) {
		if absInt(x-c[0]) <= 4 && absInt(y-c[1]) <= 4 {
			return true
		}
	}
	if isAlignmentModule(x, y, version) {
		return true
	}
	if isFormatModule(x, y, size) {
		return true
	}
	if version >= 7 && isVersionModule(x, y, size) {
		return true
	}
	return false
}

func isAlignmentModule(x, y, version int) bool {
	positions := AlignmentPatternPositions(version)
	n := len(positions)
	for i, ay := range positions {
		for j, ax := range positions {
			if (i == 0 && j == 0) || (i == 0 && j == n-1) || (i == n-1 && j == 0) {
				continue // the three finder corners never get an alignment pattern
			}
			if absInt(x-ax) <= 2 && absInt(y-ay) <= 2 {
				return true
			}
		}
	}
	return false
}

func isFormatModule(x, y, size int) bool {
	if x == 8 && y < 9 && y != 6 {
		return true
	}
	if y == 8 && x < 9 && x != 6 {
		return true
	}
	if x == 8 && y >= size-7 {
		return true
	}
	if y == 8 && x >= size-8 {
		return true
	}
	if x == 8 && y == size-8 {
		return true // the always-dark module beside the second format copy
	}
	return false
}

func isVersionModule(x, y, size int) bool {
	if x >= size-11 && x <= size-9 && y >= 0 && y <= 5 {
		return true
	}
	if y >= size-11 && y <= size-9 && x >= 0 && x <= 5 {
		return true
	}
	return false
}

// FormatBitCoords returns the module coordinates of the two redundant
// 15-bit format-info copies, in bit order (index 0 = least significant
// bit of the drawn/read word).
func FormatBitCoords(size int) (copy1, copy2 [15][2]int) {
	for i := 0; i < 6; i++ {
		copy1[i] = [2]int{8, i}
	}
	copy1[6] = [2]int{8, 7}
	copy1[7] = [2]int{8, 8}
	copy1[8] = [2]int{7, 8}
	for i := 9; i < 15; i++ {
		copy1[i] = [2]int{14 - i, 8}
	}

	for i := 0; i < 8; i++ {
		copy2[i] = [2]int{size - 1 - i, 8}
	}
	for i := 8; i < 15; i++ {
		copy2[i] = [2]int{8, size - 15 + i}
	}
	return copy1, copy2
}

// VersionBitCoords returns the module coordinates of the two redundant
// 18-bit version-info copies, in bit order (index 0 = least significant
// bit). Only meaningful for version >= 7.
func VersionBitCoords(size int) (copyA, copyB [18][2]int) {
	for i := 0; i < 18; i++ {
		a := size - 11 + i%3
		b := i / 3
		copyA[i] = [2]int{a, b}
		copyB[i] = [2]int{b, a}
	}
	return copyA, copyB
}
