package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleTagsUniqueAndFromVocabulary(t *testing.T) {
	vocab := []string{"todo", "demo", "favorite", "unlike", "test"}
	rng := newRand(10)

	for i := 0; i < 2000; i++ {
		tags := sampleTags(rng, vocab, 3)
		assert.LessOrEqual(t, len(tags), 3)
		seen := map[string]bool{}
		for _, tag := range tags {
			assert.Contains(t, vocab, tag)
			assert.False(t, seen[tag], "duplicate tag %q", tag)
			seen[tag] = true
		}
	}
}

func TestSampleTagsSmallVocabularyTerminates(t *testing.T) {
	rng := newRand(11)
	vocab := []string{"only", "two"}

	maxSeen := 0
	for i := 0; i < 500; i++ {
		tags := sampleTags(rng, vocab, 3)
		assert.LessOrEqual(t, len(tags), 2)
		maxSeen = max(maxSeen, len(tags))
	}
	assert.Equal(t, 2, maxSeen)
}

func TestSampleTagsEmptyVocabulary(t *testing.T) {
	tags := sampleTags(newRand(12), nil, 3)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestSampleTagsZeroMax(t *testing.T) {
	tags := sampleTags(newRand(13), []string{"a", "b"}, 0)
	assert.Empty(t, tags)
}

func TestUniformBounds(t *testing.T) {
	rng := newRand(14)
	for i := 0; i < 1000; i++ {
		v := uniform(rng, 5, 8)
		assert.GreaterOrEqual(t, v, int64(5))
		assert.LessOrEqual(t, v, int64(8))
	}
	assert.Equal(t, int64(3), uniform(rng, 3, 3))
}

func TestTemperatureGrid(t *testing.T) {
	rng := newRand(15)
	for i := 0; i < 1000; i++ {
		v := temperature(rng, 20)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 2.0)
	}
}
