package risk

// rollingMax computes the trailing maximum of values over a window of w
// points. The window shrinks at the head: output i covers the min(i+1, w)
// most recent values, so every position has a defined maximum.
//
// Uses a monotonic deque of indices, O(n) total instead of O(n*w).
func rollingMax(values []float64, w int) []float64 {
	out := make([]float64, len(values))
	deque := make([]int, 0, len(values)) // indices, values decreasing

	for i, v := range values {
		// Expire indices that fell out of the trailing window.
		for len(deque) > 0 && deque[0] <= i-w {
			deque = deque[1:]
		}
		// Drop smaller values; they can never be a future maximum.
		for len(deque) > 0 && values[deque[len(deque)-1]] <= v {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		out[i] = values[deque[0]]
	}
	return out
}

// windowStat maintains the mean and the sum of squared deviations of a
// sliding window of observations using Welford-style incremental updates,
// so rolling standard deviation costs O(1) per step.
type windowStat struct {
	n    int
	mean float64
	m2   float64
}

// push adds an observation.
func (s *windowStat) push(x float64) {
	s.n++
	d := x - s.mean
	s.mean += d / float64(s.n)
	s.m2 += d * (x - s.mean)
}

// drop removes an observation previously pushed. This is the exact inverse
// of push; rounding can leave m2 marginally negative, which is clamped.
func (s *windowStat) drop(x float64) {
	if s.n <= 1 {
		s.n, s.mean, s.m2 = 0, 0, 0
		return
	}
	oldMean := s.mean
	s.n--
	s.mean = oldMean - (x-oldMean)/float64(s.n)
	s.m2 -= (x - oldMean) * (x - s.mean)
	if s.m2 < 0 {
		s.m2 = 0
	}
}

// variance returns the sample (n-1 denominator) variance of the current
// window. It requires at least two observations; the second return value
// is false otherwise.
func (s *windowStat) variance() (float64, bool) {
	if s.n < 2 {
		return 0, false
	}
	return s.m2 / float64(s.n-1), true
}
