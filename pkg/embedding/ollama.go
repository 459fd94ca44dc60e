package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "nomic-embed-text"
)

type ollamaEmbedder struct {
	client *api.Client
	model  string
}

// NewOllama creates an embedder backed by a local Ollama server.
func NewOllama(baseURL, model string, httpClient *http.Client) (Embedder, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ollamaEmbedder{client: api.NewClient(u, httpClient), model: model}, nil
}

func (e *ollamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	resp, err := e.client.Embed(ctx, &api.EmbedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("ollama: embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, ErrDimensionMismatch
	}
	return resp.Embeddings, nil
}

func (e *ollamaEmbedder) Model() string {
	return e.model
}
