package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/creastat/sessiongen"
)

// SinkType represents the type of sink.
type SinkType string

const (
	SinkTypeFile   SinkType = "file"
	SinkTypeMemory SinkType = "memory"
	SinkTypeRedis  SinkType = "redis"
)

const (
	defaultPath      = "db.json"
	defaultKeyPrefix = "sessions"
)

// NewSink creates a new Sink based on the given type.
// Supports "file", "memory" and "redis" driver types.
// For Redis, requires WithRedisClient option.
func NewSink(sinkType SinkType, opts ...SinkOption) (Sink, error) {
	config := &sinkConfig{}

	// Apply options
	for _, opt := range opts {
		opt(config)
	}

	switch sinkType {
	case SinkTypeFile:
		path := config.path
		if path == "" {
			path = defaultPath
		}
		return &fileSink{path: path}, nil

	case SinkTypeMemory:
		return &memorySink{}, nil

	case SinkTypeRedis:
		if config.redisClient == nil {
			return nil, sessiongen.ErrInvalidConfig
		}
		prefix := config.keyPrefix
		if prefix == "" {
			prefix = defaultKeyPrefix
		}
		return &redisSink{
			client: config.redisClient,
			ttl:    config.redisTTL,
			prefix: prefix,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", sessiongen.ErrInvalidStoreType, sinkType)
	}
}

// fileSink writes the store as one indented JSON document.
type fileSink struct {
	path string
}

// Write implements Sink. The document goes to a temporary file first and is
// renamed into place, so a failed write leaves any previous file intact.
func (s *fileSink) Write(ctx context.Context, store sessiongen.Store) error {
	data, err := EncodeStore(store)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".sessions-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// Load implements Sink.
func (s *fileSink) Load(ctx context.Context) (sessiongen.Store, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, sessiongen.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return DecodeStore(data)
}

// Close implements Sink.
func (s *fileSink) Close() error {
	return nil
}

// memorySink keeps the last written store in memory.
type memorySink struct {
	mu    sync.RWMutex
	store sessiongen.Store
}

// Write implements Sink.
func (s *memorySink) Write(ctx context.Context, store sessiongen.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store = store
	return nil
}

// Load implements Sink.
func (s *memorySink) Load(ctx context.Context) (sessiongen.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store == nil {
		return nil, sessiongen.ErrNotFound
	}
	return s.store, nil
}

// Close implements Sink.
func (s *memorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store = nil
	return nil
}

// redisSink stores one hash per identity (field = conversation ID, value =
// session JSON) plus a set listing every identity, so identities without
// sessions survive a round trip.
type redisSink struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// Write implements Sink.
// Uses WATCH/MULTI/EXEC so the previous store is replaced atomically.
func (s *redisSink) Write(ctx context.Context, store sessiongen.Store) error {
	setKey := s.identitiesKey()

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		previous, err := tx.SMembers(ctx, setKey).Result()
		if err != nil {
			return fmt.Errorf("redis smembers failed: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			stale := make([]string, 0, len(previous)+1)
			stale = append(stale, setKey)
			for _, identity := range previous {
				stale = append(stale, s.identityKey(identity))
			}
			pipe.Del(ctx, stale...)

			identities := store.Identities()
			if len(identities) == 0 {
				return nil
			}
			members := make([]any, len(identities))
			for i, identity := range identities {
				members[i] = identity
			}
			pipe.SAdd(ctx, setKey, members...)
			s.expire(ctx, pipe, setKey)

			for _, identity := range identities {
				sessions := store[identity]
				if len(sessions) == 0 {
					continue
				}
				fields := make(map[string]any, len(sessions))
				for id, sess := range sessions {
					val, err := json.Marshal(sess)
					if err != nil {
						return fmt.Errorf("failed to marshal session %s: %w", id, err)
					}
					fields[id] = val
				}
				key := s.identityKey(identity)
				pipe.HSet(ctx, key, fields)
				s.expire(ctx, pipe, key)
			}
			return nil
		})
		return err
	}, setKey)
}

// Load implements Sink.
func (s *redisSink) Load(ctx context.Context) (sessiongen.Store, error) {
	identities, err := s.client.SMembers(ctx, s.identitiesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}
	if len(identities) == 0 {
		return nil, sessiongen.ErrNotFound
	}

	store := sessiongen.NewStore(identities)
	for _, identity := range identities {
		fields, err := s.client.HGetAll(ctx, s.identityKey(identity)).Result()
		if err != nil {
			return nil, fmt.Errorf("redis hgetall failed: %w", err)
		}
		for id, val := range fields {
			var sess sessiongen.Session
			if err := json.Unmarshal([]byte(val), &sess); err != nil {
				return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
			}
			store.Put(identity, id, &sess)
		}
	}
	return store, nil
}

// Close implements Sink.
func (s *redisSink) Close() error {
	return s.client.Close()
}

func (s *redisSink) expire(ctx context.Context, pipe redis.Pipeliner, key string) {
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
}

func (s *redisSink) identitiesKey() string {
	return s.prefix + ":identities"
}

func (s *redisSink) identityKey(identity string) string {
	return s.prefix + ":user:" + identity
}

// EncodeStore renders store as the persisted JSON document: two-space
// indentation and no HTML escaping.
func EncodeStore(store sessiongen.Store) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(store); err != nil {
		return nil, fmt.Errorf("failed to encode store: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeStore parses a persisted JSON document.
func DecodeStore(data []byte) (sessiongen.Store, error) {
	var store sessiongen.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("failed to decode store: %w", err)
	}
	if store == nil {
		store = sessiongen.Store{}
	}
	for identity, sessions := range store {
		if sessions == nil {
			store[identity] = make(map[string]*sessiongen.Session)
		}
	}
	return store, nil
}

// Compile-time checks that the drivers implement Sink.
var (
	_ Sink = (*fileSink)(nil)
	_ Sink = (*memorySink)(nil)
	_ Sink = (*redisSink)(nil)
)
