package repository

import (
	"context"

	"aelfgpt/internal/model"
)

// VectorRepository is the vector index handle. Implementations embed node text
// and query strings themselves and keep no local copy of search results.
type VectorRepository interface {
	// Add embeds nodes that carry no embedding yet and stores them.
	Add(ctx context.Context, nodes []model.Node) error

	// Query returns the nodes nearest to the query text, best first.
	Query(ctx context.Context, opt QueryOptions) ([]model.ScoredNode, error)

	// DeleteDocument removes every node belonging to a document.
	DeleteDocument(ctx context.Context, documentID string) error
}
