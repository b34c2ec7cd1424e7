package session

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/sessiongen"
)

// fixedPool always draws identities in round-robin order.
type fixedPool struct {
	ids  []string
	next int
}

func (p *fixedPool) Identities() []string { return p.ids }

func (p *fixedPool) Draw(rng *rand.Rand) string {
	id := p.ids[p.next%len(p.ids)]
	p.next++
	return id
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestAggregatorSeedsEveryIdentity(t *testing.T) {
	agg := NewAggregator(&fixedPool{ids: []string{"Ann", "Bob", "Cid"}}, newRand(1))

	store := agg.Store()
	assert.Equal(t, []string{"Ann", "Bob", "Cid"}, store.Identities())
	assert.Equal(t, 0, store.Len())
}

func TestAggregatorAdd(t *testing.T) {
	agg := NewAggregator(&fixedPool{ids: []string{"Ann", "Bob", "Cid"}}, newRand(1))

	identity, replaced := agg.Add("c1", &sessiongen.Session{ClientName: "GPT-4o"})
	assert.Equal(t, "Ann", identity)
	assert.False(t, replaced)

	identity, _ = agg.Add("c2", &sessiongen.Session{})
	assert.Equal(t, "Bob", identity)

	store := agg.Store()
	sess, err := store.Get("Ann", "c1")
	require.NoError(t, err)
	assert.Equal(t, "GPT-4o", sess.ClientName)
	assert.Empty(t, store["Cid"])
	assert.NotNil(t, store["Cid"])
}

func TestAggregatorInsertLastWriteWins(t *testing.T) {
	agg := NewAggregator(&fixedPool{ids: []string{"Ann"}}, newRand(1))
	first := &sessiongen.Session{ClientName: "GPT-4o"}
	second := &sessiongen.Session{ClientName: "GPT-4o-mini"}

	assert.False(t, agg.Insert("Ann", "c1", first))
	assert.True(t, agg.Insert("Ann", "c1", second))

	got, err := agg.Store().Get("Ann", "c1")
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, 1, agg.Overwrites())
}
