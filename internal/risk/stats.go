package risk

import "math"

// calculateMean returns the arithmetic mean, or 0 for an empty slice.
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleVariance returns the n-1 denominator variance. The second return
// value is false when fewer than two observations are available.
func sampleVariance(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	mean := calculateMean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values)-1), true
}

// sampleStdDev returns the sample standard deviation. The second return
// value is false when fewer than two observations are available.
func sampleStdDev(values []float64) (float64, bool) {
	variance, ok := sampleVariance(values)
	if !ok {
		return 0, false
	}
	return math.Sqrt(variance), true
}

// centralMoment returns the k-th population central moment.
func centralMoment(values []float64, k int) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := calculateMean(values)
	sum := 0.0
	for _, v := range values {
		sum += math.Pow(v-mean, float64(k))
	}
	return sum / float64(len(values))
}

// percentileValue returns the level-th percentile (level in (0,100)) of
// the sorted slice using linear interpolation between order statistics:
// the value at fractional rank level/100 * (n-1).
func percentileValue(sorted []float64, level float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := level / 100 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
