// Package sweep implements the rules engine of a minesweeper game: grid
// generation, adjacency counting, flood-fill reveal, marking and win/loss
// evaluation. It owns no I/O and assumes the caller serializes actions.
package sweep

import (
	"math"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// MineDensity is the fixed ratio of mines to cells on a generated grid.
const MineDensity = 0.15

// Uniform produces numbers in [0, 1) and drives mine placement.
// *rand.Rand from math/rand/v2 satisfies it; tests inject seeded sources.
type Uniform interface {
	Float64() float64
}

// shuffle permutes v with a Fisher-Yates pass from the end, picking the
// swap target as floor(uniform * (i+1)).
func shuffle(v []int, src Uniform) {
	for i := len(v) - 1; i > 0; i-- {
		j := int(math.Floor(src.Float64() * float64(i+1)))
		v[i], v[j] = v[j], v[i]
	}
}

// randomIndices samples count distinct indices from [0, n) by shuffling the
// whole index range and truncating. Uniform over unordered samples.
func randomIndices(n, count int, src Uniform) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	shuffle(indices, src)
	return indices[:count]
}
