// Package pipeline runs one generation pass: build the identity pool, filter
// the corpus, synthesize a session per accepted conversation and assign it to
// a pool-drawn identity.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/creastat/sessiongen"
	"github.com/creastat/sessiongen/config"
	"github.com/creastat/sessiongen/corpus"
	"github.com/creastat/sessiongen/identity"
	"github.com/creastat/sessiongen/logger"
	"github.com/creastat/sessiongen/session"
	"github.com/creastat/sessiongen/synth"
)

// Options holds the collaborators of a run. Config, Source and Counter are
// required.
type Options struct {
	Config  *config.Config
	Source  corpus.Source
	Counter sessiongen.TokenCounter

	// Labels issues identity labels. Defaults to first names seeded from Config.Seed.
	Labels identity.LabelGenerator

	// Rand drives every draw. Defaults to a PCG source seeded from Config.Seed.
	Rand *rand.Rand

	// Logger defaults to logger.DefaultLogger.
	Logger *slog.Logger
}

// Stats summarizes a run.
type Stats struct {
	Seed            uint64
	Scanned         int
	Accepted        int
	Rejected        int
	Identities      int
	EmptyIdentities int
	Overwrites      int
	Duration        time.Duration
}

// Result is the outcome of a successful run.
type Result struct {
	Store sessiongen.Store
	Stats Stats
}

// Run executes the pipeline. Any source, tokenizer or record error aborts the
// run and no store is returned.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil || opts.Source == nil || opts.Counter == nil {
		return nil, fmt.Errorf("%w: config, source and counter are required", sessiongen.ErrInvalidConfig)
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	labels := opts.Labels
	if labels == nil {
		labels = identity.NewFakerGenerator(seed)
	}
	log := opts.Logger
	if log == nil {
		log = logger.DefaultLogger
	}

	start := time.Now()
	pool, err := identity.BuildPool(cfg.Identities, labels, rng,
		identity.WithWeightRange(cfg.MinWeight, cfg.MaxWeight))
	if err != nil {
		return nil, fmt.Errorf("failed to build identity pool: %w", err)
	}
	log.Info("identity pool built", "identities", len(pool.Identities()), "pool_size", pool.Size(), "seed", seed)

	filter := corpus.NewFilter(opts.Source,
		corpus.WithMinTurn(cfg.MinTurn),
		corpus.WithLanguage(cfg.Language),
		corpus.WithLimit(cfg.Limit))
	synthesizer := synth.New(cfg, opts.Counter, rng)
	agg := session.NewAggregator(pool, rng)

	for {
		conv, err := filter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus after %d records: %w", filter.Scanned(), err)
		}

		sess, err := synthesizer.Synthesize(conv)
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize %s: %w", conv.ConversationID, err)
		}

		name, replaced := agg.Add(conv.ConversationID, sess)
		if replaced {
			log.Warn("session replaced", "conversation_id", conv.ConversationID, "identity", name)
		}
		log.Debug("processed", "conversation_id", conv.ConversationID, "identity", name)
	}

	store := agg.Store()
	stats := Stats{
		Seed:       seed,
		Scanned:    filter.Scanned(),
		Accepted:   filter.Accepted(),
		Rejected:   filter.Rejected(),
		Identities: len(store),
		Overwrites: agg.Overwrites(),
		Duration:   time.Since(start),
	}
	for _, sessions := range store {
		if len(sessions) == 0 {
			stats.EmptyIdentities++
		}
	}

	log.Info("generation finished",
		"scanned", stats.Scanned,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"identities", stats.Identities,
		"empty_identities", stats.EmptyIdentities,
		"overwrites", stats.Overwrites,
		"duration", stats.Duration)

	return &Result{Store: store, Stats: stats}, nil
}
