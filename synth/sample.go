package synth

import "math/rand/v2"

// uniform returns an integer in [lo, hi].
func uniform(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int64N(hi-lo+1)
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.IntN(len(items))]
}

// sampleTags draws a count in [0, maxTags] and returns that many distinct
// entries of vocab, sampled without replacement. The count is capped at the
// vocabulary size. The result is never nil.
func sampleTags(rng *rand.Rand, vocab []string, maxTags int) []string {
	n := rng.IntN(maxTags + 1)
	if n > len(vocab) {
		n = len(vocab)
	}
	tags := make([]string, 0, n)
	for _, i := range rng.Perm(len(vocab))[:n] {
		tags = append(tags, vocab[i])
	}
	return tags
}

// temperature returns one of steps+1 values 0.0, 0.1, ... spaced a tenth apart.
func temperature(rng *rand.Rand, steps int) float64 {
	return float64(rng.IntN(steps+1)) / 10
}
