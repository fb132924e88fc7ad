package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/edgard/outing/internal/config"
)

// Provider names accepted in llm.provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ProviderFactory builds runners for the configured provider.
type ProviderFactory struct {
	cfg        config.LLMConfig
	httpClient *http.Client
	log        *slog.Logger
}

// Option customizes a ProviderFactory.
type Option func(*ProviderFactory)

// WithHTTPClient makes every runner use the given HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *ProviderFactory) {
		f.httpClient = c
	}
}

// NewFactory returns a factory for cfg.Provider.
func NewFactory(cfg config.LLMConfig, log *slog.Logger, opts ...Option) *ProviderFactory {
	if log == nil {
		log = slog.Default()
	}
	f := &ProviderFactory{
		cfg: cfg,
		log: log.With("component", "llm"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New returns a runner that authenticates with credential.
func (f *ProviderFactory) New(ctx context.Context, credential Credential) (Runner, error) {
	if credential.Empty() {
		return nil, ErrMissingCredential
	}

	maxSteps := f.cfg.MaxSteps
	if maxSteps < 1 {
		maxSteps = config.DefaultLLMMaxSteps
	}

	switch f.cfg.Provider {
	case ProviderOpenAI, "":
		return newOpenAIRunner(credential, f.cfg.Model, f.cfg.BaseURL, maxSteps, f.httpClient, f.log), nil
	case ProviderGemini:
		r, err := newGeminiRunner(ctx, credential, f.cfg.Model, f.cfg.BaseURL, maxSteps, f.httpClient, f.log)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, f.cfg.Provider)
	}
}
