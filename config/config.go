// Package config holds the run parameters of the session generator.
// Defaults reproduce the reference dataset; a YAML file and environment
// variables can override them.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/creastat/sessiongen"
)

// MaskedAPIKey is the obfuscated credential placeholder stored in every session.
const MaskedAPIKey = "Q\rTF\x04\b\x06\x05WYYA\x07Q\x04\tZ\x0e\\A\x03\x03\x00\x00Q\n\bA\x00VPP"

// Config holds every parameter of a generation run.
type Config struct {
	// Seed drives all random draws. Zero means seed from the clock.
	Seed uint64 `yaml:"seed"`

	// Identities is the number of synthetic users (SESSIONGEN_IDENTITIES).
	Identities int `yaml:"identities"`

	// Limit caps the number of accepted conversations (SESSIONGEN_LIMIT).
	Limit int `yaml:"limit"`

	// MinTurn is the minimum turn count of an eligible conversation.
	MinTurn int `yaml:"min_turn"`

	// Language is the only eligible corpus language.
	Language string `yaml:"language"`

	// MinWeight and MaxWeight bound the per-identity repeat count in the skewed pool.
	MinWeight int `yaml:"min_weight"`
	MaxWeight int `yaml:"max_weight"`

	// WindowStart and WindowEnd bound timeCreated and timeLastOpen (unix seconds).
	WindowStart int64 `yaml:"window_start"`
	WindowEnd   int64 `yaml:"window_end"`

	// ExitSpan is the maximum seconds between timeLastOpen and timeLastExit.
	ExitSpan int64 `yaml:"exit_span"`

	Clients []string `yaml:"clients"`
	Tags    []string `yaml:"tags"`

	// MaxTags is the largest tag count drawn per session.
	MaxTags int `yaml:"max_tags"`

	// TemperatureSteps is the number of tenths above zero; 20 gives 0.0..2.0.
	TemperatureSteps int `yaml:"temperature_steps"`

	Description string `yaml:"description"`
	APIURL      string `yaml:"api_url"`
	APIKey      string `yaml:"api_key"`
	MaxTokens   int    `yaml:"max_tokens"`

	// Encoding names the tiktoken encoding, or "estimate" for the heuristic counter.
	Encoding string `yaml:"encoding"`

	Redis    RedisConfig    `yaml:"redis"`
	Supabase SupabaseConfig `yaml:"supabase"`
}

// RedisConfig configures the redis sink.
type RedisConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// SupabaseConfig configures the supabase sink.
type SupabaseConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Table  string `yaml:"table"`
}

// Default returns the parameters of the reference dataset.
func Default() *Config {
	return &Config{
		Identities:       500,
		Limit:            20000,
		MinTurn:          2,
		Language:         "English",
		MinWeight:        1,
		MaxWeight:        3,
		WindowStart:      1740787200,
		WindowEnd:        1748736000,
		ExitSpan:         7200,
		Clients:          []string{"GPT-4o", "GPT-4o-mini"},
		Tags:             []string{"todo", "demo", "favorite", "unlike", "test"},
		MaxTags:          3,
		TemperatureSteps: 20,
		Description:      "This is a demo description",
		APIURL:           "https://hkust.azure-api.net/openai/deployments/gpt-4o/chat/completions?api-version=2024-06-01",
		APIKey:           MaskedAPIKey,
		MaxTokens:        8192,
		Encoding:         "r50k_base",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "sessions",
		},
		Supabase: SupabaseConfig{
			Table: "sessions",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables on cfg.
func (c *Config) ApplyEnv() error {
	var err error
	if c.Seed, err = getEnvUint("SESSIONGEN_SEED", c.Seed); err != nil {
		return err
	}
	if c.Identities, err = getEnvInt("SESSIONGEN_IDENTITIES", c.Identities); err != nil {
		return err
	}
	if c.Limit, err = getEnvInt("SESSIONGEN_LIMIT", c.Limit); err != nil {
		return err
	}
	c.Encoding = getEnvDefault("SESSIONGEN_ENCODING", c.Encoding)
	c.Redis.Addr = getEnvDefault("REDIS_ADDR", c.Redis.Addr)
	c.Supabase.URL = getEnvDefault("SUPABASE_URL", c.Supabase.URL)
	c.Supabase.APIKey = getEnvDefault("SUPABASE_API_KEY", c.Supabase.APIKey)
	return nil
}

// Validate checks that the parameters describe a run that terminates and
// produces well-formed sessions.
func (c *Config) Validate() error {
	switch {
	case c.Identities <= 0:
		return invalid("identities must be positive, got %d", c.Identities)
	case c.Limit <= 0:
		return invalid("limit must be positive, got %d", c.Limit)
	case c.MinWeight < 1 || c.MaxWeight < c.MinWeight:
		return invalid("weight range [%d, %d] is invalid", c.MinWeight, c.MaxWeight)
	case c.WindowEnd < c.WindowStart:
		return invalid("window end %d precedes start %d", c.WindowEnd, c.WindowStart)
	case c.WindowStart < 0:
		return invalid("window start must not be negative, got %d", c.WindowStart)
	case c.ExitSpan < 0:
		return invalid("exit span must not be negative, got %d", c.ExitSpan)
	case c.ExitSpan > math.MaxInt64-1-c.WindowEnd:
		// lastExit is drawn from [lastOpen, lastOpen+ExitSpan] with lastOpen <= WindowEnd.
		return invalid("window end %d plus exit span %d overflows", c.WindowEnd, c.ExitSpan)
	case len(c.Clients) == 0:
		return invalid("client vocabulary is empty")
	case c.MaxTags < 0:
		return invalid("max tags must not be negative, got %d", c.MaxTags)
	case c.TemperatureSteps < 0:
		return invalid("temperature steps must not be negative, got %d", c.TemperatureSteps)
	case c.Encoding == "":
		return invalid("encoding is required")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", sessiongen.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", sessiongen.ErrInvalidConfig, key, v)
	}
	return n, nil
}

func getEnvUint(key string, fallback uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an unsigned integer", sessiongen.ErrInvalidConfig, key, v)
	}
	return n, nil
}
