package embedding

import (
	"context"

	"aelfgpt/pkg/voyage"
)

type voyageEmbedder struct {
	client voyage.IVoyage
}

// NewVoyage adapts a Voyage AI client.
func NewVoyage(client voyage.IVoyage) Embedder {
	return &voyageEmbedder{client: client}
}

func (e *voyageEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	// The same vectors serve documents and queries, so no input type is set.
	return e.client.Embed(ctx, texts, "")
}

func (e *voyageEmbedder) Model() string {
	return e.client.Model()
}
