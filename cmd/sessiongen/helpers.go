package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/creastat/sessiongen/config"
	"github.com/creastat/sessiongen/logger"
	"github.com/creastat/sessiongen/session"
	"github.com/creastat/sessiongen/supabase"
)

// sinkSupabase selects the supabase package, which lives outside the session factory.
const sinkSupabase = "supabase"

// openSink builds the sink named kind. path is used by the file sink.
func openSink(ctx context.Context, cfg *config.Config, kind, path string) (session.Sink, error) {
	logger.Debug("opening sink", "sink", kind)
	switch kind {
	case sinkSupabase:
		client, err := supabase.New(supabase.Config{
			URL:           cfg.Supabase.URL,
			APIKey:        cfg.Supabase.APIKey,
			SessionsTable: cfg.Supabase.Table,
		})
		if err != nil {
			return nil, err
		}
		return client, nil

	case string(session.SinkTypeRedis):
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return session.NewSink(session.SinkTypeRedis,
			session.WithRedisClient(client),
			session.WithKeyPrefix(cfg.Redis.Prefix))

	default:
		return session.NewSink(session.SinkType(kind), session.WithPath(path))
	}
}
