//go:build amd64 && !purego

package bitmath

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

func init() {
	if cpu.X86.HasPOPCNT {
		distancesImpl = distancesPopcnt
	}
}

// distancesPopcnt is the hardware-popcount comparison loop. bits.OnesCount32
// lowers to POPCNT here, so the loop is unrolled four wide to keep the
// instruction stream dense.
func distancesPopcnt(ref uint32, words []uint32, counts []int32) {
	n := 0
	for ; n+4 <= len(words); n += 4 {
		counts[n] = int32(bits.OnesCount32(ref ^ words[n]))
		counts[n+1] = int32(bits.OnesCount32(ref ^ words[n+1]))
		counts[n+2] = int32(bits.OnesCount32(ref ^ words[n+2]))
		counts[n+3] = int32(bits.OnesCount32(ref ^ words[n+3]))
	}
	for ; n < len(words); n++ {
		counts[n] = int32(bits.OnesCount32(ref ^ words[n]))
	}
}
