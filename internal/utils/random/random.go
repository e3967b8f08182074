package random

import "math/rand"

// IntBetween returns a uniform value in [min, max] inclusive.
func IntBetween(r *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// Pick returns a uniformly chosen element of the slice.
func Pick[T any](r *rand.Rand, slice []T) T {
	return slice[r.Intn(len(slice))]
}

// PickWeighted returns an index chosen with probability proportional to weights.
// Weights must be non-negative with a positive sum.
func PickWeighted(r *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := r.Intn(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}
