package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"aelfgpt/config"
	"aelfgpt/pkg/gemini"
)

// NewConfig converts config.LLMConfig into a Manager Config.
func NewConfig(cfg *config.LLMConfig, wordsPerFragment int) (*Config, error) {
	out := &Config{
		FallbackEnabled:  cfg.FallbackEnabled,
		RetryAttempts:    cfg.RetryAttempts,
		StreamMode:       cfg.StreamMode,
		WordsPerFragment: wordsPerFragment,
	}

	var err error
	if cfg.RetryDelay != "" {
		if out.RetryDelay, err = time.ParseDuration(cfg.RetryDelay); err != nil {
			return nil, fmt.Errorf("invalid llm.retry_delay: %w", err)
		}
	}
	if cfg.MaxTotalTimeout != "" {
		if out.MaxTotalTimeout, err = time.ParseDuration(cfg.MaxTotalTimeout); err != nil {
			return nil, fmt.Errorf("invalid llm.max_total_timeout: %w", err)
		}
	}
	return out, nil
}

// InitializeProviders creates Provider instances from config.LLMConfig
// Returns providers sorted by priority (ascending) with disabled providers filtered out
// Skips providers that fail to initialize instead of failing the entire service
func InitializeProviders(ctx context.Context, cfg *config.LLMConfig) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}

	var enabledProviders []config.ProviderConfig
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabledProviders = append(enabledProviders, p)
		}
	}

	if len(enabledProviders) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	sort.Slice(enabledProviders, func(i, j int) bool {
		return enabledProviders[i].Priority < enabledProviders[j].Priority
	})

	var providers []Provider
	var initErrors []string

	for _, p := range enabledProviders {
		provider, err := createProvider(ctx, p)
		if err != nil {
			initErrors = append(initErrors, fmt.Sprintf("%s (priority %d): %v", p.Name, p.Priority, err))
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers successfully initialized: %s", strings.Join(initErrors, "; "))
	}

	return providers, nil
}

// createProvider creates a concrete provider instance based on the provider config
func createProvider(ctx context.Context, cfg config.ProviderConfig) (Provider, error) {
	httpClient := &http.Client{}
	if cfg.Timeout != "" {
		timeout, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("provider %s: invalid timeout: %w", cfg.Name, err)
		}
		httpClient.Timeout = timeout
	}

	name := strings.ToLower(cfg.Name)
	if name != "ollama" && cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s: API key is required", cfg.Name)
	}

	switch name {
	case "gemini":
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewGeminiAdapter(client), nil

	case "openai", "llamaapi", "deepseek", "qwen":
		if cfg.Model == "" {
			return nil, fmt.Errorf("provider %s: model is required", cfg.Name)
		}
		return NewOpenAIAdapter(name, cfg.APIKey, openAIBaseURL(name, cfg.BaseURL), cfg.Model, httpClient), nil

	case "ollama":
		if cfg.Model == "" {
			return nil, fmt.Errorf("provider %s: model is required", cfg.Name)
		}
		return NewOllamaAdapter(cfg.BaseURL, cfg.Model, httpClient)

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}

func openAIBaseURL(name, configured string) string {
	if configured != "" {
		return configured
	}
	switch name {
	case "deepseek":
		return DefaultDeepSeekBaseURL
	case "qwen":
		return DefaultQwenBaseURL
	case "llamaapi":
		return DefaultLlamaAPIBaseURL
	}
	return ""
}
