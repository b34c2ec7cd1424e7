package supabase

import (
	"context"

	"github.com/creastat/sessiongen"
)

// Store provides access to generated sessions kept in Supabase.
type Store interface {
	// Write replaces the stored dataset with store.
	Write(ctx context.Context, store sessiongen.Store) error

	// Load reads the whole dataset back.
	Load(ctx context.Context) (sessiongen.Store, error)

	// ListSessions retrieves the sessions of one identity.
	ListSessions(ctx context.Context, identity string) ([]SessionRow, error)

	// Close closes the Supabase client and releases resources
	Close() error
}

// IdentityRow is a row of the identities table. Every generated identity has
// one, including identities without sessions.
type IdentityRow struct {
	Name string `json:"name"`
}

// SessionRow is a row of the sessions table.
type SessionRow struct {
	Identity       string             `json:"identity"`
	ConversationID string             `json:"conversation_id"`
	Session        sessiongen.Session `json:"session"`
}
