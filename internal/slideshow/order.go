package slideshow

import "math/rand"

// Identity returns the order 0, 1, ..., n-1.
func Identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// Permutation returns a random permutation of 0..n-1 drawn from rng.
func Permutation(n int, rng *rand.Rand) []int {
	order := Identity(n)
	rng.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}
