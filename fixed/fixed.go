// Package fixed provides the fixed-point smoothing primitive shared by the
// delay estimator and fixed-point spectrum front ends.
package fixed

// QBits is the number of fractional bits used by the delay estimator's Q9
// values (true value = stored value / 512).
const QBits = 9

// MeanEstimator updates *mean recursively with the new sample, using a step
// size of 2^-factor: mean += (newValue - mean) >> factor. A larger factor
// means more historical inertia; a smaller one trusts the new sample more.
//
// The shift is applied to the magnitude of the difference with the sign
// reattached, so positive and negative corrections of equal magnitude round
// identically. factor must be non-negative.
func MeanEstimator(newValue int32, factor int, mean *int32) {
	diff := newValue - *mean

	if diff < 0 {
		diff = -((-diff) >> factor)
	} else {
		diff = diff >> factor
	}
	*mean += diff
}
