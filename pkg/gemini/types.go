package gemini

import (
	"errors"
	"net/http"
)

// Config holds Gemini client settings.
type Config struct {
	APIKey     string
	Model      string
	EmbedModel string
	BaseURL    string // overrides the public endpoint, used by tests and proxies
	HTTPClient *http.Client
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("gemini: API key is required")
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.EmbedModel == "" {
		c.EmbedModel = DefaultEmbedModel
	}
	return nil
}

// Request is a provider-neutral generation request.
type Request struct {
	SystemInstruction string
	Messages          []Content
	Temperature       float64
	MaxTokens         int
}

// Content is one conversation turn. Role is RoleUser or RoleModel.
type Content struct {
	Role string
	Text string
}

// Response is a complete generation result.
type Response struct {
	Text  string
	Usage Usage
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
