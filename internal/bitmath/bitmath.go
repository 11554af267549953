// Package bitmath provides exact population-count and Hamming-distance
// primitives for 32-bit binary spectra.
package bitmath

// BitCount returns the number of set bits in u, in [0, 32].
//
// This is the classic shift-and-mask form (octal masks, tree reduction). It
// is exact on every platform; Distances switches to a hardware popcount path
// where one is available.
func BitCount(u uint32) int {
	tmp := u - ((u >> 1) & 0xDB6DB6DB) - ((u >> 2) & 0x49249249)
	tmp = (tmp + (tmp >> 3)) & 0xC71C71C7
	tmp = tmp + (tmp >> 6)
	tmp = (tmp + (tmp >> 12) + (tmp >> 24)) & 0x3F

	return int(tmp)
}

// Distances writes into counts the Hamming distance between ref and every
// word: counts[i] = popcount(ref ^ words[i]). counts must be at least as
// long as words; nothing is allocated.
func Distances(ref uint32, words []uint32, counts []int32) {
	distancesImpl(ref, words, counts)
}

var distancesImpl = distancesGeneric

func distancesGeneric(ref uint32, words []uint32, counts []int32) {
	for n, w := range words {
		counts[n] = int32(BitCount(ref ^ w))
	}
}
