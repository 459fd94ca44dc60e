package repository

import (
	"context"

	"aelfgpt/internal/model"
	"aelfgpt/pkg/embedding"
)

// QueryOptions defines similarity search parameters.
type QueryOptions struct {
	Text string // Natural language query
	TopK int    // Max results
}

// EmbedMissing fills in embeddings for nodes that have none, in one batch.
func EmbedMissing(ctx context.Context, e embedding.Embedder, nodes []model.Node) error {
	var (
		idx   []int
		texts []string
	)
	for i, n := range nodes {
		if len(n.Embedding) == 0 {
			idx = append(idx, i)
			texts = append(texts, n.Text)
		}
	}
	if len(texts) == 0 {
		return nil
	}

	vecs, err := e.Embed(ctx, texts)
	if err != nil {
		return err
	}
	if len(vecs) != len(texts) {
		return embedding.ErrDimensionMismatch
	}
	for j, i := range idx {
		nodes[i].Embedding = vecs[j]
	}
	return nil
}
