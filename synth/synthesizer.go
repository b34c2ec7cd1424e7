// Package synth turns accepted conversations into enriched sessions.
package synth

import (
	"errors"
	"math/rand/v2"

	"github.com/creastat/sessiongen"
	"github.com/creastat/sessiongen/config"
)

// ErrNilConversation is returned when Synthesize is given no conversation.
var ErrNilConversation = errors.New("nil conversation")

// Synthesizer builds one Session per conversation. It is not safe for
// concurrent use: all draws come from a single random source.
type Synthesizer struct {
	cfg     *config.Config
	counter sessiongen.TokenCounter
	rng     *rand.Rand
}

// New creates a Synthesizer drawing from rng and counting tokens with counter.
func New(cfg *config.Config, counter sessiongen.TokenCounter, rng *rand.Rand) *Synthesizer {
	return &Synthesizer{cfg: cfg, counter: counter, rng: rng}
}

// Synthesize builds the session for conv. Timestamps are drawn first so the
// chain created <= lastOpen <= lastExit holds.
func (s *Synthesizer) Synthesize(conv *sessiongen.Conversation) (*sessiongen.Session, error) {
	if conv == nil {
		return nil, ErrNilConversation
	}

	sess := &sessiongen.Session{}
	sess.TimeCreated = uniform(s.rng, s.cfg.WindowStart, s.cfg.WindowEnd)
	sess.TimeLastOpen = uniform(s.rng, sess.TimeCreated, s.cfg.WindowEnd)
	sess.TimeLastExit = uniform(s.rng, sess.TimeLastOpen, sess.TimeLastOpen+s.cfg.ExitSpan)
	sess.APIKey = s.cfg.APIKey
	sess.Messages = sessiongen.BuildMessages(conv.Conversation, s.counter)
	sess.TotalPromptTokens = sessiongen.RoleTokens(sess.Messages.Contents, sessiongen.RoleUser)
	sess.TotalCompletionTokens = sessiongen.RoleTokens(sess.Messages.Contents, sessiongen.RoleAssistant)
	sess.ClientName = pick(s.rng, s.cfg.Clients)
	sess.Description = s.cfg.Description
	sess.Tags = sampleTags(s.rng, s.cfg.Tags, s.cfg.MaxTags)
	sess.APIURL = s.cfg.APIURL
	sess.MaxTokens = s.cfg.MaxTokens
	sess.Temperature = temperature(s.rng, s.cfg.TemperatureSteps)
	return sess, nil
}
