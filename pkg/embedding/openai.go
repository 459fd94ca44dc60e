package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = string(openai.SmallEmbedding3)

type openAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an embedder for any OpenAI-compatible /embeddings endpoint.
func NewOpenAI(apiKey, baseURL, model string, httpClient *http.Client) Embedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &openAIEmbedder{client: openai.NewClientWithConfig(cfg), model: model}
}

func (e *openAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai: create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, ErrDimensionMismatch
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, ErrDimensionMismatch
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func (e *openAIEmbedder) Model() string {
	return e.model
}
