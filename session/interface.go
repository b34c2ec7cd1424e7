package session

import (
	"context"

	"github.com/creastat/sessiongen"
)

// Sink defines the interface for persisting a generated store.
type Sink interface {
	// Write persists the whole store, replacing anything written before.
	// Every identity is persisted, including those with no sessions.
	Write(ctx context.Context, store sessiongen.Store) error

	// Load reads back the store last written.
	// Returns sessiongen.ErrNotFound if nothing has been written.
	Load(ctx context.Context) (sessiongen.Store, error)

	// Close closes the sink and releases any resources.
	Close() error
}
