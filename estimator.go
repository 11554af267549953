// estimator.go implements the binary-spectrum delay estimator.

package delayest

import (
	"github.com/thesyncim/delayest/fixed"
	"github.com/thesyncim/delayest/internal/bitmath"
)

// Sentinel values returned by Process and LastDelay.
const (
	// DelayUnknown is returned before any delay has ever been accepted.
	DelayUnknown = -2

	// DelayError is reserved for signaling an estimator-level error state.
	// The estimator never produces it itself; it exists for callers and
	// extensions that need to propagate a failure through the same channel.
	DelayError = -1
)

// Smoothing of the per-candidate Hamming distances uses a right-shift factor
// that decreases linearly with the number of set bits in the far-end
// spectrum: more far-end activity means the new sample is trusted faster.
const (
	shiftsAtZero      = 13 // right shifts at zero far-end bit count
	shiftsLinearSlope = 3
)

// Gating thresholds for the accept/reject decision, in Q9.
const (
	probabilityOffset     int32 = 1024 // 2 in Q9
	probabilityLowerLimit int32 = 8704 // 17 in Q9
	probabilityMinSpread  int32 = 2816 // 5.5 in Q9
)

// Initial values in Q9. 32 is the maximum possible smoothed distance, so any
// real candidate can only improve on it.
const (
	initialMeanBitCount int32 = 20 << 9
	initialProbability  int32 = 32 << 9
)

// Estimator tracks the delay between a far-end and a near-end stream of
// 32-bit binary spectra, one pair per audio frame.
//
// An Estimator instance maintains internal state and is NOT safe for
// concurrent use. Each stream pair should own its own instance.
type Estimator struct {
	// Far-end history. Index 0 is the most recent frame, index
	// historySize-1 the oldest candidate delay. farBitCounts holds the
	// population count of each entry; 0 means the candidate carries no
	// discriminating energy.
	binaryFarHistory []uint32
	farBitCounts     []int32

	// Near-end ring, length lookahead+1. Only used to realize the
	// lookahead offset.
	binaryNearHistory []uint32

	// Per-candidate Hamming distance of the current frame (raw, [0,32])
	// and its Q9 exponentially smoothed version (the decision metric).
	bitCounts     []int32
	meanBitCounts []int32

	// Adaptive confidence floor (Q9). Never increases across frames,
	// bounded below by probabilityLowerLimit.
	minimumProbability int32

	// Confidence of the currently accepted delay (Q9). Incremented every
	// frame, reset when a stronger candidate is accepted.
	lastDelayProbability int32

	lastDelay int

	historySize     int // maxDelay + lookahead
	nearHistorySize int // lookahead + 1
	lookahead       int
}

// NewEstimator creates a delay estimator tracking maxDelay+lookahead
// candidate delays.
//
// maxDelay and lookahead must be non-negative and their sum must be greater
// than 1. All buffers are allocated here; Process never allocates.
func NewEstimator(maxDelay, lookahead int) (*Estimator, error) {
	if maxDelay < 0 {
		return nil, ErrInvalidMaxDelay
	}
	if lookahead < 0 {
		return nil, ErrInvalidLookahead
	}
	historySize := maxDelay + lookahead
	if historySize <= 1 {
		return nil, ErrHistoryTooShort
	}

	e := &Estimator{
		binaryFarHistory:  make([]uint32, historySize),
		farBitCounts:      make([]int32, historySize),
		binaryNearHistory: make([]uint32, lookahead+1),
		bitCounts:         make([]int32, historySize),
		meanBitCounts:     make([]int32, historySize),
		historySize:       historySize,
		nearHistorySize:   lookahead + 1,
		lookahead:         lookahead,
	}
	e.Reset()
	return e, nil
}

// Reset reinitializes the estimator to its post-construction state without
// reallocating. Any previously accepted delay is forgotten.
func (e *Estimator) Reset() {
	for i := range e.binaryFarHistory {
		e.binaryFarHistory[i] = 0
		e.farBitCounts[i] = 0
		e.bitCounts[i] = 0
		e.meanBitCounts[i] = initialMeanBitCount
	}
	for i := range e.binaryNearHistory {
		e.binaryNearHistory[i] = 0
	}
	e.minimumProbability = initialProbability
	e.lastDelayProbability = initialProbability
	e.lastDelay = DelayUnknown
}

// Process advances the estimator by one frame and returns the currently
// accepted delay as a raw candidate index (subtract Lookahead for the signed
// delay in frames), or DelayUnknown if no delay has been accepted yet.
//
// The call always succeeds and always mutates state; it performs no
// allocation and runs in O(HistorySize).
func (e *Estimator) Process(farSpectrum, nearSpectrum uint32) int {
	// Shift the far-end history and its bit counts in lock-step, inserting
	// the current spectrum at index 0.
	copy(e.binaryFarHistory[1:], e.binaryFarHistory)
	e.binaryFarHistory[0] = farSpectrum
	copy(e.farBitCounts[1:], e.farBitCounts)
	e.farBitCounts[0] = int32(bitmath.BitCount(farSpectrum))

	if e.nearHistorySize > 1 {
		// With lookahead, insert the current near-end spectrum and pull
		// out the delayed one for comparison.
		copy(e.binaryNearHistory[1:], e.binaryNearHistory)
		e.binaryNearHistory[0] = nearSpectrum
		nearSpectrum = e.binaryNearHistory[e.nearHistorySize-1]
	}

	// Hamming distance between the near-end spectrum and every candidate.
	bitmath.Distances(nearSpectrum, e.binaryFarHistory, e.bitCounts)

	// Smooth the distances. bitCounts is constrained to [0, 32], so the Q9
	// promotion cannot overflow. Candidates whose far-end entry has no set
	// bits are skipped: a weak far-end signal means a poor echo condition
	// and updating on it would only inject noise.
	for i := 0; i < e.historySize; i++ {
		if e.farBitCounts[i] > 0 {
			shifts := shiftsAtZero - int((shiftsLinearSlope*e.farBitCounts[i])>>4)
			fixed.MeanEstimator(e.bitCounts[i]<<9, shifts, &e.meanBitCounts[i])
		}
	}

	// Locate the best (minimum) and worst (maximum) smoothed candidates.
	// First minimum in index order wins, preferring the smaller delay.
	candidateDelay := -1
	valueBestCandidate := int32(32 << 9)
	valueWorstCandidate := int32(0)
	for i := 0; i < e.historySize; i++ {
		if e.meanBitCounts[i] < valueBestCandidate {
			valueBestCandidate = e.meanBitCounts[i]
			candidateDelay = i
		}
		if e.meanBitCounts[i] > valueWorstCandidate {
			valueWorstCandidate = e.meanBitCounts[i]
		}
	}

	// valueBestCandidate indicates how probable candidateDelay is (a small
	// value is a good binary match). The accepted delay only moves when the
	// valley in the smoothed curve is distinct enough, and then only if the
	// best value undercuts the adaptive floor or the (decaying) confidence
	// of the previous acceptance.

	// Lower the adaptive floor toward the best candidate. It never rises,
	// and never drops below probabilityLowerLimit.
	if e.minimumProbability > probabilityLowerLimit &&
		valueWorstCandidate-valueBestCandidate > probabilityMinSpread {
		threshold := valueBestCandidate + probabilityOffset
		if threshold < probabilityLowerLimit {
			threshold = probabilityLowerLimit
		}
		if e.minimumProbability > threshold {
			e.minimumProbability = threshold
		}
	}

	// Markov-style decay: trust in the previous acceptance erodes by one Q9
	// step per frame until reaffirmed.
	e.lastDelayProbability++

	if valueWorstCandidate > valueBestCandidate+probabilityOffset {
		// Reliable valley this frame.
		if valueBestCandidate < e.minimumProbability {
			e.lastDelay = candidateDelay
		}
		if valueBestCandidate < e.lastDelayProbability {
			e.lastDelay = candidateDelay
			// Snap confidence to the newly accepted candidate.
			e.lastDelayProbability = valueBestCandidate
		}
	}

	return e.lastDelay
}

// LastDelay returns the last accepted delay as a raw candidate index without
// advancing the estimator. It returns DelayUnknown if no delay has been
// accepted since construction or the last Reset.
func (e *Estimator) LastDelay() int {
	return e.lastDelay
}

// Estimate returns the last accepted delay as a raw candidate index and
// whether a delay has been accepted at all. ok is false for both the
// DelayUnknown and DelayError states.
func (e *Estimator) Estimate() (delay int, ok bool) {
	if e.lastDelay < 0 {
		return e.lastDelay, false
	}
	return e.lastDelay, true
}

// Lookahead returns the number of near-end frames the estimator buffers
// before comparison. Raw candidate index i corresponds to a signed delay of
// i - Lookahead() frames.
func (e *Estimator) Lookahead() int {
	return e.lookahead
}

// HistorySize returns the number of candidate delays tracked,
// maxDelay + lookahead.
func (e *Estimator) HistorySize() int {
	return e.historySize
}
