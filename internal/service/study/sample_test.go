package study

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedSample_ReturnsDistinctIndexes(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	weights := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}

	picked := weightedSample(rng, weights, 4)

	require.Len(t, picked, 4)
	seen := map[int]bool{}
	for _, idx := range picked {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, len(weights))
		assert.False(t, seen[idx], "index %d picked twice", idx)
		seen[idx] = true
	}
}

func TestWeightedSample_KLargerThanN(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(2))
	weights := []float64{1, 2, 3}

	picked := weightedSample(rng, weights, 10)

	require.Len(t, picked, 3)
	seen := map[int]bool{}
	for _, idx := range picked {
		seen[idx] = true
	}
	assert.Len(t, seen, 3)
}

func TestWeightedSample_AllZeroWeightsFallsBackToUniform(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	weights := []float64{0, 0, 0, 0, 0}

	picked := weightedSample(rng, weights, 3)

	require.Len(t, picked, 3)
	seen := map[int]bool{}
	for _, idx := range picked {
		seen[idx] = true
	}
	assert.Len(t, seen, 3)
}

func TestWeightedSample_ZeroWeightSkippedWhilePositiveRemain(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(4))
	weights := []float64{0, 1, 0}

	for i := 0; i < 100; i++ {
		picked := weightedSample(rng, weights, 1)
		require.Len(t, picked, 1)
		assert.Equal(t, 1, picked[0])
	}
}

func TestWeightedSample_HeavyWeightDominates(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(5))
	weights := []float64{1000, 1, 1, 1, 1}

	hits := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		picked := weightedSample(rng, weights, 1)
		if picked[0] == 0 {
			hits++
		}
	}

	// Expected hit rate is 1000/1004; anything above 95% passes comfortably.
	assert.Greater(t, hits, trials*95/100)
}
