package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/sessiongen"
)

// fakePostgREST serves the identities and sessions tables from memory.
type fakePostgREST struct {
	mu         sync.Mutex
	identities []IdentityRow
	sessions   []SessionRow
	gets       int
	posts      int
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	q := r.URL.Query()

	switch r.Method {
	case http.MethodDelete:
		if table == "sessions" {
			f.sessions = nil
		} else {
			f.identities = nil
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodPost:
		f.posts++
		body, _ := io.ReadAll(r.Body)
		if table == "sessions" {
			var rows []SessionRow
			if err := json.Unmarshal(body, &rows); err != nil {
				http.Error(w, `{"code":"400","message":"bad body"}`, http.StatusBadRequest)
				return
			}
			f.sessions = append(f.sessions, rows...)
		} else {
			var rows []IdentityRow
			if err := json.Unmarshal(body, &rows); err != nil {
				http.Error(w, `{"code":"400","message":"bad body"}`, http.StatusBadRequest)
				return
			}
			f.identities = append(f.identities, rows...)
		}
		w.WriteHeader(http.StatusCreated)

	case http.MethodGet:
		f.gets++
		var out []any
		if table == "sessions" {
			rows := append([]SessionRow(nil), f.sessions...)
			sort.Slice(rows, func(i, j int) bool {
				if rows[i].Identity != rows[j].Identity {
					return rows[i].Identity < rows[j].Identity
				}
				return rows[i].ConversationID < rows[j].ConversationID
			})
			want := strings.TrimPrefix(q.Get("identity"), "eq.")
			for _, row := range rows {
				if q.Get("identity") == "" || row.Identity == want {
					out = append(out, row)
				}
			}
		} else {
			rows := append([]IdentityRow(nil), f.identities...)
			sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
			for _, row := range rows {
				out = append(out, row)
			}
		}
		out = page(out, q.Get("offset"), q.Get("limit"))
		if out == nil {
			out = []any{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func page(rows []any, offset, limit string) []any {
	if limit == "" {
		return rows
	}
	from, _ := strconv.Atoi(offset)
	n, _ := strconv.Atoi(limit)
	if from >= len(rows) {
		return nil
	}
	return rows[from:min(from+n, len(rows))]
}

func setupClient(t *testing.T, cfg Config) (*Client, *fakePostgREST) {
	fake := &fakePostgREST{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg.URL = srv.URL
	cfg.APIKey = "test-key"
	client, err := New(cfg)
	require.NoError(t, err)
	return client, fake
}

func sampleStore() sessiongen.Store {
	store := sessiongen.NewStore([]string{"Ann", "Bob", "Cid"})
	for _, id := range []string{"c1", "c2", "c3"} {
		store.Put("Ann", id, &sessiongen.Session{
			ClientName: "GPT-4o",
			Tags:       []string{"demo"},
			Messages:   sessiongen.Messages{Contents: []sessiongen.Message{{Role: "user", Content: "Hi", Tokens: 1}}},
		})
	}
	store.Put("Bob", "c4", &sessiongen.Session{
		ClientName: "GPT-4o-mini",
		Tags:       []string{},
		Messages:   sessiongen.Messages{Contents: []sessiongen.Message{}},
	})
	return store
}

func TestNewRequiresURLAndKey(t *testing.T) {
	_, err := New(Config{APIKey: "k"})
	assert.ErrorIs(t, err, sessiongen.ErrInvalidConfig)

	_, err = New(Config{URL: "http://localhost"})
	assert.ErrorIs(t, err, sessiongen.ErrInvalidConfig)
}

func TestWriteAndLoad(t *testing.T) {
	client, fake := setupClient(t, Config{BatchSize: 2, PageSize: 2})
	ctx := context.Background()

	_, err := client.Load(ctx)
	assert.ErrorIs(t, err, sessiongen.ErrNotFound)

	store := sampleStore()
	require.NoError(t, client.Write(ctx, store))

	assert.Len(t, fake.identities, 3)
	assert.Len(t, fake.sessions, 4)
	// 2 identity batches + 2 session batches
	assert.Equal(t, 4, fake.posts)

	loaded, err := client.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, store, loaded)
	assert.Empty(t, loaded["Cid"])
}

func TestWriteReplacesPrevious(t *testing.T) {
	client, fake := setupClient(t, Config{})
	ctx := context.Background()

	require.NoError(t, client.Write(ctx, sampleStore()))
	require.NoError(t, client.Write(ctx, sessiongen.NewStore([]string{"Zed"})))

	assert.Equal(t, []IdentityRow{{Name: "Zed"}}, fake.identities)
	assert.Empty(t, fake.sessions)
}

func TestListSessionsCaches(t *testing.T) {
	client, fake := setupClient(t, Config{})
	ctx := context.Background()
	require.NoError(t, client.Write(ctx, sampleStore()))

	rows, err := client.ListSessions(ctx, "Ann")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ann", rows[0].Identity)
	assert.Equal(t, "GPT-4o", rows[0].Session.ClientName)

	gets := fake.gets
	_, err = client.ListSessions(ctx, "Ann")
	require.NoError(t, err)
	assert.Equal(t, gets, fake.gets)

	// a write invalidates the cache
	require.NoError(t, client.Write(ctx, sampleStore()))
	_, err = client.ListSessions(ctx, "Ann")
	require.NoError(t, err)
	assert.Equal(t, gets+1, fake.gets)
}
