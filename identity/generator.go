// Package identity builds the synthetic user population and the skewed pool
// sessions are assigned from.
package identity

import (
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

// ErrLabelsExhausted is returned when a generator cannot produce a new unique label.
var ErrLabelsExhausted = errors.New("unique labels exhausted")

// defaultMaxRetries bounds consecutive collisions before giving up.
const defaultMaxRetries = 1000

// LabelGenerator issues identity labels. A label is never issued twice by the
// same generator.
type LabelGenerator interface {
	UniqueLabel() (string, error)
}

// FakerGenerator issues unique first names.
type FakerGenerator struct {
	faker      *gofakeit.Faker
	issued     map[string]struct{}
	maxRetries int
}

// NewFakerGenerator creates a generator seeded with seed. A zero seed draws a
// random one.
func NewFakerGenerator(seed uint64) *FakerGenerator {
	return &FakerGenerator{
		faker:      gofakeit.New(seed),
		issued:     make(map[string]struct{}),
		maxRetries: defaultMaxRetries,
	}
}

// UniqueLabel implements LabelGenerator. Collisions are redrawn up to a
// bounded number of times.
func (g *FakerGenerator) UniqueLabel() (string, error) {
	for i := 0; i < g.maxRetries; i++ {
		name := g.faker.FirstName()
		if _, dup := g.issued[name]; dup {
			continue
		}
		g.issued[name] = struct{}{}
		return name, nil
	}
	return "", fmt.Errorf("%w after %d labels", ErrLabelsExhausted, len(g.issued))
}

// Compile-time check that FakerGenerator implements LabelGenerator.
var _ LabelGenerator = (*FakerGenerator)(nil)
