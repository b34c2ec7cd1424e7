package supabase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/creastat/sessiongen"
	"github.com/creastat/sessiongen/session"
)

const (
	defaultSessionsTable   = "sessions"
	defaultIdentitiesTable = "identities"
	defaultBatchSize       = 500
	defaultPageSize        = 1000
)

// Config holds Supabase connection configuration
type Config struct {
	URL             string
	APIKey          string
	SessionsTable   string        // Default: sessions
	IdentitiesTable string        // Default: identities
	BatchSize       int           // rows per upsert, default 500
	PageSize        int           // rows per select, default 1000
	CacheTTL        time.Duration // Default: 5 minutes
}

// Client implements the Store interface using Supabase
type Client struct {
	client          *supabase.Client
	sessionsTable   string
	identitiesTable string
	batchSize       int
	pageSize        int
	cache           *cache
	cacheTTL        time.Duration
}

// cache holds ListSessions results per identity
type cache struct {
	mu         sync.RWMutex
	byIdentity map[string]*cacheEntry[[]SessionRow]
}

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// New creates a new Supabase client
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: supabase URL is required", sessiongen.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: supabase API key is required", sessiongen.ErrInvalidConfig)
	}

	if cfg.SessionsTable == "" {
		cfg.SessionsTable = defaultSessionsTable
	}
	if cfg.IdentitiesTable == "" {
		cfg.IdentitiesTable = defaultIdentitiesTable
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		client:          client,
		sessionsTable:   cfg.SessionsTable,
		identitiesTable: cfg.IdentitiesTable,
		batchSize:       cfg.BatchSize,
		pageSize:        cfg.PageSize,
		cacheTTL:        cfg.CacheTTL,
		cache: &cache{
			byIdentity: make(map[string]*cacheEntry[[]SessionRow]),
		},
	}, nil
}

// Write clears both tables, then upserts every identity and every session in
// batches.
func (c *Client) Write(ctx context.Context, store sessiongen.Store) error {
	defer c.clearCache()

	if _, _, err := c.client.From(c.sessionsTable).
		Delete("minimal", "").
		Neq("identity", "").
		Execute(); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	if _, _, err := c.client.From(c.identitiesTable).
		Delete("minimal", "").
		Neq("name", "").
		Execute(); err != nil {
		return fmt.Errorf("failed to clear identities: %w", err)
	}

	identities := store.Identities()
	idRows := make([]IdentityRow, 0, len(identities))
	for _, identity := range identities {
		idRows = append(idRows, IdentityRow{Name: identity})
	}
	for start := 0; start < len(idRows); start += c.batchSize {
		end := min(start+c.batchSize, len(idRows))
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, _, err := c.client.From(c.identitiesTable).
			Upsert(idRows[start:end], "name", "minimal", "").
			Execute(); err != nil {
			return fmt.Errorf("failed to upsert identities: %w", err)
		}
	}

	batch := make([]SessionRow, 0, c.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, _, err := c.client.From(c.sessionsTable).
			Upsert(batch, "identity,conversation_id", "minimal", "").
			Execute(); err != nil {
			return fmt.Errorf("failed to upsert sessions: %w", err)
		}
		batch = batch[:0]
		return nil
	}
	for _, identity := range identities {
		for _, id := range store.ConversationIDs(identity) {
			batch = append(batch, SessionRow{
				Identity:       identity,
				ConversationID: id,
				Session:        *store[identity][id],
			})
			if len(batch) == c.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	return flush()
}

// Load reads both tables back into a store.
func (c *Client) Load(ctx context.Context) (sessiongen.Store, error) {
	identities, err := selectAll[IdentityRow](ctx, c, c.identitiesTable, "name")
	if err != nil {
		return nil, fmt.Errorf("failed to get identities: %w", err)
	}
	if len(identities) == 0 {
		return nil, sessiongen.ErrNotFound
	}

	store := sessiongen.Store{}
	for _, row := range identities {
		store.Ensure(row.Name)
	}

	rows, err := selectAll[SessionRow](ctx, c, c.sessionsTable, "identity", "conversation_id")
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}
	for i := range rows {
		store.Put(rows[i].Identity, rows[i].ConversationID, &rows[i].Session)
	}
	return store, nil
}

// selectAll pages through table ordered by columns.
func selectAll[T any](ctx context.Context, c *Client, table string, columns ...string) ([]T, error) {
	var all []T
	for offset := 0; ; offset += c.pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		query := c.client.From(table).Select("*", "", false)
		for _, column := range columns {
			query = query.Order(column, &postgrest.OrderOpts{Ascending: true})
		}

		var page []T
		if _, err := query.Range(offset, offset+c.pageSize-1, "").ExecuteTo(&page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < c.pageSize {
			return all, nil
		}
	}
}

// ListSessions retrieves the sessions assigned to identity
func (c *Client) ListSessions(ctx context.Context, identity string) ([]SessionRow, error) {
	// Check cache first
	if cached := c.getFromCache(identity); cached != nil {
		return cached, nil
	}

	var rows []SessionRow
	_, err := c.client.From(c.sessionsTable).
		Select("*", "", false).
		Eq("identity", identity).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions for %s: %w", identity, err)
	}

	c.addToCache(identity, rows)
	return rows, nil
}

// Close closes the Supabase client
func (c *Client) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

// getFromCache retrieves rows from cache by identity
func (c *Client) getFromCache(identity string) []SessionRow {
	c.cache.mu.RLock()
	defer c.cache.mu.RUnlock()

	if e, ok := c.cache.byIdentity[identity]; ok {
		if time.Now().Before(e.expiresAt) {
			return e.value
		}
	}
	return nil
}

// addToCache adds rows to cache
func (c *Client) addToCache(identity string, rows []SessionRow) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	c.cache.byIdentity[identity] = &cacheEntry[[]SessionRow]{
		value:     rows,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}

func (c *Client) clearCache() {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	c.cache.byIdentity = make(map[string]*cacheEntry[[]SessionRow])
}

// Compile-time checks that Client implements Store and session.Sink
var (
	_ Store        = (*Client)(nil)
	_ session.Sink = (*Client)(nil)
)
