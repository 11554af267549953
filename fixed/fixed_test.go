package fixed

import "testing"

// TestMeanEstimatorConverges drives the mean toward a constant sample and
// checks it settles within one step quantum (2^factor) of the sample and
// stays put. The shift floors the correction magnitude, so the stall band is
// the closest a nonzero factor can get.
func TestMeanEstimatorConverges(t *testing.T) {
	const target = int32(25 << QBits)
	const factor = 8

	mean := int32(0)
	for i := 0; i < 10000; i++ {
		MeanEstimator(target, factor, &mean)
	}
	if diff := target - mean; diff < 0 || diff >= 1<<factor {
		t.Fatalf("mean = %d after convergence, want within [%d, %d]",
			mean, target-(1<<factor)+1, target)
	}

	// Settled: further identical samples do not move it.
	settled := mean
	MeanEstimator(target, factor, &mean)
	if mean != settled {
		t.Fatalf("mean moved from %d to %d after settling", settled, mean)
	}

	// Factor 0 adopts the sample in one step and is idempotent there.
	MeanEstimator(target, 0, &mean)
	if mean != target {
		t.Fatalf("mean = %d with factor 0, want %d", mean, target)
	}
	MeanEstimator(target, factor, &mean)
	if mean != target {
		t.Fatalf("mean = %d after update at fixed point, want %d", mean, target)
	}
}

// TestMeanEstimatorSignSymmetry checks that corrections toward m+d and m-d
// have equal magnitude for the same |d| and shift.
func TestMeanEstimatorSignSymmetry(t *testing.T) {
	for _, d := range []int32{1, 7, 100, 511, 512, 513, 16384} {
		for factor := 0; factor <= 13; factor++ {
			base := int32(10 << QBits)

			up := base
			MeanEstimator(base+d, factor, &up)
			down := base
			MeanEstimator(base-d, factor, &down)

			if up-base != base-down {
				t.Errorf("d=%d factor=%d: +correction %d, -correction %d",
					d, factor, up-base, base-down)
			}
		}
	}
}

func TestMeanEstimatorZeroDiff(t *testing.T) {
	mean := int32(1234)
	MeanEstimator(1234, 5, &mean)
	if mean != 1234 {
		t.Fatalf("mean changed to %d on zero diff", mean)
	}
}

// TestMeanEstimatorStepSize pins the step arithmetic on an exact case:
// a difference of 512 shifted by 4 moves the mean by 32, in both directions.
func TestMeanEstimatorStepSize(t *testing.T) {
	mean := int32(0)
	MeanEstimator(512, 4, &mean)
	if mean != 32 {
		t.Fatalf("mean = %d, want 32", mean)
	}
	mean = 0
	MeanEstimator(-512, 4, &mean)
	if mean != -32 {
		t.Fatalf("mean = %d, want -32", mean)
	}
}
