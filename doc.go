// Package delayest estimates the time offset between a far-end (loudspeaker)
// and a near-end (microphone) audio signal from compact binary spectra.
//
// Each audio frame is summarized upstream as a 32-bit fingerprint of its
// spectrum. Instead of running a full cross-correlation, the estimator keeps
// a sliding history of far-end fingerprints and scores every candidate delay
// by the Hamming distance between the (lookahead-adjusted) near-end
// fingerprint and the corresponding far-end history entry. The per-candidate
// distances are smoothed in Q9 fixed point, and a two-stage gating decision
// with an adaptive confidence floor turns the best-scoring candidate into a
// committed delay estimate. An acoustic echo canceller uses that estimate to
// align the far-end reference with the captured signal before adaptive
// filtering.
//
// # Delay indexing and lookahead
//
// Candidates are raw indices in [0, maxDelay+lookahead). Index 0 is the most
// recent far-end frame. A lookahead of L frames delays the near-end signal by
// L frames before comparison, so raw index i corresponds to a signed delay of
// i - L frames; callers subtract Lookahead from the returned index. This is
// what lets the estimator report delays where the near signal would otherwise
// precede the far signal in raw indexing.
//
// # Q9 fixed point
//
// Smoothed distances and confidence thresholds are stored as integers with 9
// fractional bits (true value = stored value / 512). The tuning constants in
// this package are calibrated in that representation and are part of the
// estimator's contract.
//
// # Usage
//
//	est, err := delayest.NewEstimator(100, 10)
//	if err != nil {
//		// invalid sizing
//	}
//	for { // per audio frame
//		est.Process(farSpectrum, nearSpectrum)
//		if d, ok := est.Estimate(); ok {
//			align(d - est.Lookahead())
//		}
//	}
//
// An Estimator is not safe for concurrent use. Each audio stream needs its
// own instance.
package delayest
