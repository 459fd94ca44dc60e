package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"aelfgpt/internal/knowledge/repository"
	"aelfgpt/internal/model"
	"aelfgpt/pkg/embedding"
	pkgQdrant "aelfgpt/pkg/qdrant"
)

// pointNamespace seeds deterministic point IDs (DNS namespace).
var pointNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Add embeds nodes and upserts them as points.
func (r *implRepository) Add(ctx context.Context, nodes []model.Node) error {
	if len(nodes) == 0 {
		return nil
	}

	if err := repository.EmbedMissing(ctx, r.embedder, nodes); err != nil {
		r.l.Errorf(ctx, "qdrant repository: failed to generate embeddings: %v", err)
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	size := r.vectorSize
	if size <= 0 {
		size = len(nodes[0].Embedding)
	}
	if err := r.ensureCollection(ctx, size); err != nil {
		return err
	}

	points := make([]pkgQdrant.Point, len(nodes))
	for i, n := range nodes {
		points[i] = pkgQdrant.Point{
			ID:     nodeIDToUUID(n.ID),
			Vector: n.Embedding,
			Payload: map[string]any{
				"node_id":     n.ID,
				"document_id": n.DocumentID,
				"text":        n.Text,
				"metadata":    n.Metadata,
			},
		}
	}

	if err := r.client.UpsertPoints(ctx, r.collectionName, pkgQdrant.UpsertPointsRequest{Points: points}); err != nil {
		r.l.Errorf(ctx, "qdrant repository: failed to upsert %d points: %v", len(points), err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	r.l.Infof(ctx, "qdrant repository: upserted %d nodes", len(points))
	return nil
}

// Query performs semantic search.
func (r *implRepository) Query(ctx context.Context, opt repository.QueryOptions) ([]model.ScoredNode, error) {
	vector, err := embedding.EmbedOne(ctx, r.embedder, opt.Text)
	if err != nil {
		r.l.Errorf(ctx, "qdrant repository: failed to generate query embedding: %v", err)
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	resp, err := r.client.SearchPoints(ctx, r.collectionName, pkgQdrant.SearchRequest{
		Vector:      vector,
		Limit:       opt.TopK,
		WithPayload: true,
	})
	if err != nil {
		r.l.Errorf(ctx, "qdrant repository: failed to search: %v", err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]model.ScoredNode, 0, len(resp.Result))
	for _, scored := range resp.Result {
		text, ok := scored.Payload["text"].(string)
		if !ok {
			r.l.Warnf(ctx, "qdrant repository: text missing in payload for point %v", scored.ID)
			continue
		}
		nodeID, _ := scored.Payload["node_id"].(string)
		docID, _ := scored.Payload["document_id"].(string)
		meta, _ := scored.Payload["metadata"].(map[string]any)

		results = append(results, model.ScoredNode{
			Node: model.Node{
				ID:         nodeID,
				DocumentID: docID,
				Text:       text,
				Metadata:   meta,
			},
			Score: scored.Score,
		})
	}

	r.l.Debugf(ctx, "qdrant repository: found %d nodes for query %q", len(results), opt.Text)
	return results, nil
}

// DeleteDocument removes all points of a document.
func (r *implRepository) DeleteDocument(ctx context.Context, documentID string) error {
	err := r.client.DeleteByFilter(ctx, r.collectionName, pkgQdrant.MatchKey("document_id", documentID))
	if err != nil {
		r.l.Errorf(ctx, "qdrant repository: failed to delete document %s: %v", documentID, err)
		return fmt.Errorf("failed to delete document: %w", err)
	}

	r.l.Infof(ctx, "qdrant repository: deleted document %s", documentID)
	return nil
}

func (r *implRepository) ensureCollection(ctx context.Context, size int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.collReady {
		return nil
	}
	err := r.client.EnsureCollection(ctx, pkgQdrant.CreateCollectionRequest{
		Name:    r.collectionName,
		Vectors: pkgQdrant.VectorConfig{Size: size, Distance: "Cosine"},
	})
	if err != nil {
		r.l.Errorf(ctx, "qdrant repository: failed to ensure collection %s: %v", r.collectionName, err)
		return fmt.Errorf("failed to ensure collection: %w", err)
	}
	r.collReady = true
	return nil
}

// nodeIDToUUID maps a node ID to a deterministic UUIDv5, since Qdrant point IDs
// must be UUIDs or integers.
func nodeIDToUUID(nodeID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(nodeID)).String()
}
