package identity

import (
	"fmt"
	"math/rand/v2"

	"github.com/creastat/sessiongen"
)

// Pool holds the identities of a run and a skewed sampling sequence in which
// each identity appears weight times. Drawing uniformly from the sequence
// selects identity i with probability weight_i / sum(weights).
type Pool struct {
	identities []string
	weights    map[string]int
	skewed     []string
}

// PoolOption is a functional option for BuildPool.
type PoolOption func(*poolConfig)

type poolConfig struct {
	minWeight int
	maxWeight int
}

// WithWeightRange sets the inclusive range each identity's repeat count is
// drawn from. The default is [1, 3].
func WithWeightRange(lo, hi int) PoolOption {
	return func(c *poolConfig) {
		c.minWeight = lo
		c.maxWeight = hi
	}
}

// BuildPool draws n unique labels from gen, then a weight per identity from
// rng, and builds the skewed sequence.
func BuildPool(n int, gen LabelGenerator, rng *rand.Rand, opts ...PoolOption) (*Pool, error) {
	cfg := poolConfig{minWeight: 1, maxWeight: 3}
	for _, opt := range opts {
		opt(&cfg)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: identity count must be positive, got %d", sessiongen.ErrInvalidConfig, n)
	}
	if cfg.minWeight < 1 || cfg.maxWeight < cfg.minWeight {
		return nil, fmt.Errorf("%w: weight range [%d, %d]", sessiongen.ErrInvalidConfig, cfg.minWeight, cfg.maxWeight)
	}

	p := &Pool{
		identities: make([]string, 0, n),
		weights:    make(map[string]int, n),
	}
	for i := 0; i < n; i++ {
		label, err := gen.UniqueLabel()
		if err != nil {
			return nil, fmt.Errorf("failed to generate identity %d: %w", i, err)
		}
		if _, dup := p.weights[label]; dup {
			return nil, fmt.Errorf("failed to generate identity %d: label %q issued twice", i, label)
		}
		p.identities = append(p.identities, label)
		p.weights[label] = 0
	}

	for _, id := range p.identities {
		w := cfg.minWeight + rng.IntN(cfg.maxWeight-cfg.minWeight+1)
		p.weights[id] = w
		for j := 0; j < w; j++ {
			p.skewed = append(p.skewed, id)
		}
	}
	return p, nil
}

// Identities returns the identities in generation order.
func (p *Pool) Identities() []string {
	out := make([]string, len(p.identities))
	copy(out, p.identities)
	return out
}

// Weight returns how many times id appears in the skewed sequence.
func (p *Pool) Weight(id string) int {
	return p.weights[id]
}

// Size returns the length of the skewed sequence.
func (p *Pool) Size() int {
	return len(p.skewed)
}

// Draw picks one entry of the skewed sequence uniformly.
func (p *Pool) Draw(rng *rand.Rand) string {
	return p.skewed[rng.IntN(len(p.skewed))]
}
