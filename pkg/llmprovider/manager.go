package llmprovider

import (
	"context"
	"fmt"
	"time"

	"aelfgpt/pkg/log"
)

const (
	StreamModeNative    = "native"
	StreamModeSimulated = "simulated"

	defaultWordsPerFragment = 4
)

// Manager orchestrates provider selection, fallback, and retry logic
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
}

// Config defines configuration for the Provider Manager
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxTotalTimeout time.Duration // bounds the whole fallback chain, up to the first streamed fragment

	// StreamMode selects native token streaming or a simulated stream over a complete generation.
	StreamMode       string
	WordsPerFragment int
}

// NewManager creates a new Provider Manager with the given providers, config, and logger
func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// Providers returns the providers in the order they are tried.
func (m *Manager) Providers() []Provider {
	return m.providers
}

// GenerateContent iterates through providers in priority order with fallback logic
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	var cancel context.CancelFunc
	if m.config.MaxTotalTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error
	for _, provider := range m.providers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("global timeout exceeded after trying %d provider(s): %w", len(m.providers), err)
		}

		resp, err := m.generateWithRetry(ctx, provider, req)
		if err == nil {
			m.logSuccess(ctx, provider, resp)
			return resp, nil
		}

		m.logFailure(ctx, provider, err)
		lastErr = &ProviderError{Provider: provider.Name(), Err: err}

		if !m.config.FallbackEnabled {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

// StreamContent opens a fragment stream. Providers are tried in priority order
// until one delivers its first fragment; once fragments flow there is no fallback.
func (m *Manager) StreamContent(ctx context.Context, req *Request) (Stream, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	if m.config.StreamMode == StreamModeSimulated {
		resp, err := m.GenerateContent(ctx, req)
		if err != nil {
			return nil, err
		}
		words := m.config.WordsPerFragment
		if words <= 0 {
			words = defaultWordsPerFragment
		}
		return NewChunkedStream(resp.Content.Content, words), nil
	}

	streamCtx, cancel := context.WithCancel(ctx)
	var timer *time.Timer
	if m.config.MaxTotalTimeout > 0 {
		timer = time.AfterFunc(m.config.MaxTotalTimeout, cancel)
	}
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	var lastErr error
	for _, provider := range m.providers {
		if err := streamCtx.Err(); err != nil {
			stopTimer()
			cancel()
			return nil, fmt.Errorf("global timeout exceeded after trying %d provider(s): %w", len(m.providers), err)
		}

		s, err := m.openWithRetry(streamCtx, provider, req)
		if err == nil {
			stopTimer()
			m.logger.Infof(ctx, "LLM stream opened: provider=%s model=%s", provider.Name(), provider.Model())
			s.release = cancel
			return s, nil
		}

		m.logFailure(ctx, provider, err)
		lastErr = &ProviderError{Provider: provider.Name(), Err: err}

		if !m.config.FallbackEnabled {
			break
		}
	}

	stopTimer()
	cancel()
	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

func (m *Manager) attempts() int {
	if m.config.RetryAttempts <= 0 {
		return 1
	}
	return m.config.RetryAttempts
}

// wait sleeps before retry number attempt (linear backoff).
func (m *Manager) wait(ctx context.Context, attempt int) error {
	if attempt == 0 {
		return nil
	}
	select {
	case <-time.After(time.Duration(attempt) * m.config.RetryDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// generateWithRetry implements retry mechanism with linear backoff
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < m.attempts(); attempt++ {
		if err := m.wait(ctx, attempt); err != nil {
			return nil, err
		}

		resp, err := provider.GenerateContent(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// openWithRetry opens a stream and pulls its first fragment.
func (m *Manager) openWithRetry(ctx context.Context, provider Provider, req *Request) (*primedStream, error) {
	var lastErr error

	for attempt := 0; attempt < m.attempts(); attempt++ {
		if err := m.wait(ctx, attempt); err != nil {
			return nil, err
		}

		s, err := provider.StreamContent(ctx, req)
		if err == nil {
			var primed *primedStream
			if primed, err = prime(s); err == nil {
				return primed, nil
			}
		}
		lastErr = err
	}

	return nil, lastErr
}

// logSuccess logs successful LLM generation with metrics
func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response) {
	if resp.Usage == nil {
		m.logger.Infof(ctx, "LLM generation successful: provider=%s model=%s", provider.Name(), provider.Model())
		return
	}
	m.logger.Infof(ctx, "LLM generation successful: provider=%s model=%s input_tokens=%d output_tokens=%d",
		provider.Name(), provider.Model(), resp.Usage.InputTokens, resp.Usage.OutputTokens)
}

// logFailure logs failed LLM generation attempts
func (m *Manager) logFailure(ctx context.Context, provider Provider, err error) {
	m.logger.Warnf(ctx, "LLM generation failed: provider=%s model=%s error=%v", provider.Name(), provider.Model(), err)
}
