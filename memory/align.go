// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

// IsPowerOfTwo reports whether x is a non-zero power of two.
func IsPowerOfTwo(x uintptr) bool {
	return x != 0 && x&(x-1) == 0
}

// AlignUp rounds x up to the next multiple of alignment.
// alignment must be a power of two.
func AlignUp(x, alignment uintptr) uintptr {
	return (x + alignment - 1) &^ (alignment - 1)
}

// AlignForwardAdjustment returns how many bytes addr must move forward to be
// aligned to alignment. alignment must be a power of two.
func AlignForwardAdjustment(addr, alignment uintptr) uintptr {
	adjustment := alignment - addr&(alignment-1)
	if adjustment == alignment {
		return 0
	}
	return adjustment
}

// alignForwardAdjustmentWithHeader is AlignForwardAdjustment with at least
// header bytes of room in front of the aligned address.
func alignForwardAdjustmentWithHeader(addr, alignment, header uintptr) uintptr {
	adjustment := AlignForwardAdjustment(addr, alignment)
	if adjustment >= header {
		return adjustment
	}
	return adjustment + AlignUp(header-adjustment, alignment)
}
