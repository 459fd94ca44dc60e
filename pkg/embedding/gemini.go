package embedding

import (
	"context"

	"aelfgpt/pkg/gemini"
)

type geminiEmbedder struct {
	client gemini.IGemini
	model  string
}

// NewGemini adapts a Gemini client. model names the embedding model the client was built with.
func NewGemini(client gemini.IGemini, model string) Embedder {
	return &geminiEmbedder{client: client, model: model}
}

func (e *geminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	return e.client.Embed(ctx, texts)
}

func (e *geminiEmbedder) Model() string {
	return e.model
}
