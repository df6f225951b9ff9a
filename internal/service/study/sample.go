package study

import (
	"math/rand"
)

// weightedSample draws k distinct indexes without replacement, using the
// given non-negative weights as sampling probabilities. When every
// remaining weight is zero the draw falls back to a uniform pick, so the
// function never divides by zero and always returns min(k, len(weights))
// indexes. Pure function over the supplied rng — no other state.
func weightedSample(rng *rand.Rand, weights []float64, k int) []int {
	n := len(weights)
	if k > n {
		k = n
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	picked := make([]int, 0, k)
	for len(picked) < k {
		var total float64
		for _, idx := range remaining {
			if weights[idx] > 0 {
				total += weights[idx]
			}
		}

		var pos int
		if total <= 0 {
			// Degenerate case: uniform over whatever is left.
			pos = rng.Intn(len(remaining))
		} else {
			r := rng.Float64() * total
			var acc float64
			pos = -1
			for i, idx := range remaining {
				if weights[idx] <= 0 {
					continue
				}
				acc += weights[idx]
				if r < acc {
					pos = i
					break
				}
				pos = i // floating-point slack: the last positive weight wins
			}
		}

		picked = append(picked, remaining[pos])
		remaining = append(remaining[:pos], remaining[pos+1:]...)
	}

	return picked
}
