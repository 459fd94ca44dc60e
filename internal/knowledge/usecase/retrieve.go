package usecase

import (
	"context"
	"fmt"
	"strings"

	"aelfgpt/internal/knowledge"
	"aelfgpt/internal/knowledge/repository"
)

// Retrieve returns the nodes most similar to the query.
func (uc *implUseCase) Retrieve(ctx context.Context, input knowledge.RetrieveInput) (knowledge.RetrieveOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return knowledge.RetrieveOutput{}, knowledge.ErrEmptyQuery
	}

	topK := input.TopK
	if topK <= 0 {
		topK = knowledge.DefaultTopK
	}

	nodes, err := uc.vectorRepo.Query(ctx, repository.QueryOptions{Text: query, TopK: topK})
	if err != nil {
		uc.l.Errorf(ctx, "Retrieve: vector query failed: %v", err)
		return knowledge.RetrieveOutput{}, fmt.Errorf("failed to retrieve context: %w", err)
	}

	uc.l.Debugf(ctx, "Retrieve: %d nodes for %q", len(nodes), query)
	return knowledge.RetrieveOutput{Nodes: nodes}, nil
}

// DeleteDocument removes a document from the index.
func (uc *implUseCase) DeleteDocument(ctx context.Context, documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return knowledge.ErrEmptyDocument
	}
	if err := uc.vectorRepo.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
