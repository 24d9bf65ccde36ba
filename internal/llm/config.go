package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/store"
)

// Config selects and configures a backend.
type Config struct {
	Provider string // anthropic, openai, gemini or openrouter
	Model    string // empty uses the backend default
	APIKey   string
	BaseURL  string
	Timeout  time.Duration // per request, including retries
	Backoff  Backoff
}

// wellKnownKeys lists the vendor API key variables probed by Discover,
// in priority order.
var wellKnownKeys = []struct{ provider, env string }{
	{"anthropic", "ANTHROPIC_API_KEY"},
	{"openai", "OPENAI_API_KEY"},
	{"gemini", "GEMINI_API_KEY"},
	{"openrouter", "OPENROUTER_API_KEY"},
}

// Discover fills in a missing provider or API key from the vendors'
// standard environment variables. It reports false when no backend can
// be configured.
func Discover(cfg Config) (Config, bool) {
	if cfg.Backoff.Attempts == 0 {
		cfg.Backoff = DefaultBackoff()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Provider != "" && cfg.APIKey != "" {
		return cfg, true
	}
	for _, k := range wellKnownKeys {
		if cfg.Provider != "" && cfg.Provider != k.provider {
			continue
		}
		if v := os.Getenv(k.env); v != "" {
			cfg.Provider = k.provider
			cfg.APIKey = v
			return cfg, true
		}
	}
	return cfg, false
}

// New builds the configured backend wrapped so that each request is
// recorded and transient failures are retried:
// caller -> retry -> recording -> backend.
func New(ctx context.Context, cfg Config, repo store.TutorEventRepo, logger *zap.Logger) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropic(cfg.APIKey, cfg.Model)
	case "openai":
		base, err = NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "openrouter":
		base, err = NewOpenRouter(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "gemini":
		base, err = NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithRetry(WithRecording(base, repo, logger), cfg.Backoff), nil
}
