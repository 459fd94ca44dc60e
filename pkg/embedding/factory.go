package embedding

import (
	"context"
	"fmt"
	"strings"

	"aelfgpt/config"
	"aelfgpt/pkg/gemini"
	"aelfgpt/pkg/voyage"
)

// Provider names accepted in embedding.provider.
const (
	ProviderGemini = "gemini"
	ProviderVoyage = "voyage"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// New builds the configured embedder, wrapped in a Cached layer when a cache
// directory or size is set. The caller closes the returned embedder.
func New(ctx context.Context, cfg config.EmbeddingConfig) (*Cached, error) {
	inner, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewCached(inner, CacheConfig{Dir: cfg.CacheDir, Size: cfg.CacheSize})
}

// NewProvider builds the bare embedder for cfg.Provider.
func NewProvider(ctx context.Context, cfg config.EmbeddingConfig) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "":
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:     cfg.APIKey,
			EmbedModel: cfg.Model,
			BaseURL:    cfg.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		model := cfg.Model
		if model == "" {
			model = gemini.DefaultEmbedModel
		}
		return NewGemini(client, model), nil

	case ProviderVoyage:
		client, err := voyage.New(voyage.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model})
		if err != nil {
			return nil, err
		}
		return NewVoyage(client), nil

	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("embedding provider openai: API key is required")
		}
		return NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, nil), nil

	case ProviderOllama:
		return NewOllama(cfg.BaseURL, cfg.Model, nil)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
