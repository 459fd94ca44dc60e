package atlas

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"aelfgpt/internal/knowledge/repository"
	"aelfgpt/internal/model"
	"aelfgpt/pkg/embedding"
)

// document is the stored shape of a node.
type document struct {
	ID         string         `bson:"id"`
	DocumentID string         `bson:"document_id"`
	Text       string         `bson:"text"`
	Embedding  []float32      `bson:"embedding,omitempty"`
	Metadata   map[string]any `bson:"metadata,omitempty"`
	Score      float64        `bson:"score,omitempty"`
}

// Add embeds and inserts nodes.
func (r *implRepository) Add(ctx context.Context, nodes []model.Node) error {
	if len(nodes) == 0 {
		return nil
	}

	if err := repository.EmbedMissing(ctx, r.embedder, nodes); err != nil {
		r.l.Errorf(ctx, "atlas repository: failed to generate embeddings: %v", err)
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	docs := make([]any, len(nodes))
	for i, n := range nodes {
		docs[i] = document{
			ID:         n.ID,
			DocumentID: n.DocumentID,
			Text:       n.Text,
			Embedding:  n.Embedding,
			Metadata:   n.Metadata,
		}
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		r.l.Errorf(ctx, "atlas repository: failed to insert %d nodes: %v", len(docs), err)
		return fmt.Errorf("failed to insert nodes: %w", err)
	}

	r.l.Infof(ctx, "atlas repository: inserted %d nodes", len(docs))
	return nil
}

// Query runs a $vectorSearch aggregation.
func (r *implRepository) Query(ctx context.Context, opt repository.QueryOptions) ([]model.ScoredNode, error) {
	vector, err := embedding.EmbedOne(ctx, r.embedder, opt.Text)
	if err != nil {
		r.l.Errorf(ctx, "atlas repository: failed to generate query embedding: %v", err)
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	cur, err := r.coll.Aggregate(ctx, buildSearchPipeline(r.indexName, vector, opt.TopK))
	if err != nil {
		r.l.Errorf(ctx, "atlas repository: vector search failed: %v", err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	results := make([]model.ScoredNode, 0, len(docs))
	for _, d := range docs {
		results = append(results, model.ScoredNode{
			Node: model.Node{
				ID:         d.ID,
				DocumentID: d.DocumentID,
				Text:       d.Text,
				Metadata:   d.Metadata,
			},
			Score: d.Score,
		})
	}

	r.l.Debugf(ctx, "atlas repository: found %d nodes for query %q", len(results), opt.Text)
	return results, nil
}

// DeleteDocument removes all nodes of a document.
func (r *implRepository) DeleteDocument(ctx context.Context, documentID string) error {
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "document_id", Value: documentID}})
	if err != nil {
		r.l.Errorf(ctx, "atlas repository: failed to delete document %s: %v", documentID, err)
		return fmt.Errorf("failed to delete document: %w", err)
	}

	r.l.Infof(ctx, "atlas repository: deleted %d nodes of document %s", res.DeletedCount, documentID)
	return nil
}

// buildSearchPipeline returns the Atlas Vector Search aggregation for one query.
func buildSearchPipeline(index string, vector []float32, topK int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: topK * 10},
			{Key: "limit", Value: topK},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "embedding", Value: 0},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}
