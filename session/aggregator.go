// Package session assigns synthesized sessions to identities and persists
// the resulting store.
package session

import (
	"math/rand/v2"

	"github.com/creastat/sessiongen"
)

// IdentityPool is the sampling structure sessions are assigned from.
type IdentityPool interface {
	Identities() []string
	Draw(rng *rand.Rand) string
}

// Aggregator places sessions into a two-level store keyed by identity and
// conversation ID. It has a single writer and is not safe for concurrent use.
type Aggregator struct {
	pool       IdentityPool
	rng        *rand.Rand
	store      sessiongen.Store
	overwrites int
}

// NewAggregator creates an Aggregator whose store already holds an empty
// entry for every identity of pool.
func NewAggregator(pool IdentityPool, rng *rand.Rand) *Aggregator {
	return &Aggregator{
		pool:  pool,
		rng:   rng,
		store: sessiongen.NewStore(pool.Identities()),
	}
}

// Add draws an identity from the pool and inserts sess under it.
func (a *Aggregator) Add(conversationID string, sess *sessiongen.Session) (identity string, replaced bool) {
	identity = a.pool.Draw(a.rng)
	return identity, a.Insert(identity, conversationID, sess)
}

// Insert stores sess under identity and conversationID. If the key already
// exists the new session replaces the old one (last write wins) and Insert
// returns true.
func (a *Aggregator) Insert(identity, conversationID string, sess *sessiongen.Session) bool {
	replaced := a.store.Put(identity, conversationID, sess)
	if replaced {
		a.overwrites++
	}
	return replaced
}

// Store returns the aggregated store.
func (a *Aggregator) Store() sessiongen.Store {
	return a.store
}

// Overwrites returns how many inserts replaced an existing session.
func (a *Aggregator) Overwrites() int {
	return a.overwrites
}
