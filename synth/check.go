package synth

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/creastat/sessiongen"
	"github.com/creastat/sessiongen/config"
)

// Checker verifies that a session satisfies the generation invariants for a
// given configuration.
type Checker struct {
	cfg *config.Config
}

// NewChecker creates a Checker for cfg.
func NewChecker(cfg *config.Config) *Checker {
	return &Checker{cfg: cfg}
}

// Check returns every violated invariant joined into one error, or nil.
func (c *Checker) Check(s *sessiongen.Session) error {
	if s == nil {
		return errors.New("nil session")
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if s.TimeCreated < c.cfg.WindowStart || s.TimeCreated > c.cfg.WindowEnd {
		fail("timeCreated %d outside [%d, %d]", s.TimeCreated, c.cfg.WindowStart, c.cfg.WindowEnd)
	}
	if s.TimeLastOpen < s.TimeCreated {
		fail("timeLastOpen %d before timeCreated %d", s.TimeLastOpen, s.TimeCreated)
	}
	if s.TimeLastExit < s.TimeLastOpen {
		fail("timeLastExit %d before timeLastOpen %d", s.TimeLastExit, s.TimeLastOpen)
	}
	if s.TimeLastExit-s.TimeLastOpen > c.cfg.ExitSpan {
		fail("session open for %ds, more than %ds", s.TimeLastExit-s.TimeLastOpen, c.cfg.ExitSpan)
	}

	if want := sessiongen.RoleTokens(s.Messages.Contents, sessiongen.RoleUser); s.TotalPromptTokens != want {
		fail("totalPromptTokens %d, user messages sum to %d", s.TotalPromptTokens, want)
	}
	if want := sessiongen.RoleTokens(s.Messages.Contents, sessiongen.RoleAssistant); s.TotalCompletionTokens != want {
		fail("totalCompletionTokens %d, assistant messages sum to %d", s.TotalCompletionTokens, want)
	}
	for i, m := range s.Messages.Contents {
		if m.Tokens < 0 {
			fail("message %d has negative token count %d", i, m.Tokens)
		}
	}

	if !slices.Contains(c.cfg.Clients, s.ClientName) {
		fail("unknown clientName %q", s.ClientName)
	}

	if len(s.Tags) > c.cfg.MaxTags {
		fail("%d tags, at most %d allowed", len(s.Tags), c.cfg.MaxTags)
	}
	seen := make(map[string]bool, len(s.Tags))
	for _, tag := range s.Tags {
		if seen[tag] {
			fail("duplicate tag %q", tag)
		}
		seen[tag] = true
		if !slices.Contains(c.cfg.Tags, tag) {
			fail("unknown tag %q", tag)
		}
	}

	steps := s.Temperature * 10
	if s.Temperature < 0 || steps > float64(c.cfg.TemperatureSteps)+1e-9 || math.Abs(steps-math.Round(steps)) > 1e-9 {
		fail("temperature %v is not a tenth in [0, %v]", s.Temperature, float64(c.cfg.TemperatureSteps)/10)
	}

	if s.APIKey != c.cfg.APIKey {
		fail("apiKey differs from the configured placeholder")
	}
	if s.APIURL != c.cfg.APIURL {
		fail("apiURL %q differs from %q", s.APIURL, c.cfg.APIURL)
	}
	if s.MaxTokens != c.cfg.MaxTokens {
		fail("maxTokens %d differs from %d", s.MaxTokens, c.cfg.MaxTokens)
	}
	if s.Description != c.cfg.Description {
		fail("description %q differs from %q", s.Description, c.cfg.Description)
	}

	return errors.Join(errs...)
}

// CheckStore checks every session in store and reports violations keyed by
// "identity/conversation_id".
func (c *Checker) CheckStore(store sessiongen.Store) map[string]error {
	violations := make(map[string]error)
	for _, identity := range store.Identities() {
		for _, id := range store.ConversationIDs(identity) {
			if err := c.Check(store[identity][id]); err != nil {
				violations[identity+"/"+id] = err
			}
		}
	}
	return violations
}
