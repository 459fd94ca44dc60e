package atlas

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"aelfgpt/internal/knowledge/repository"
	"aelfgpt/pkg/embedding"
	pkgLog "aelfgpt/pkg/log"
)

// Collection is the subset of *mongo.Collection the repository uses.
type Collection interface {
	InsertMany(ctx context.Context, documents any, opts ...options.Lister[options.InsertManyOptions]) (*mongo.InsertManyResult, error)
	Aggregate(ctx context.Context, pipeline any, opts ...options.Lister[options.AggregateOptions]) (*mongo.Cursor, error)
	DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongo.DeleteResult, error)
}

type implRepository struct {
	coll      Collection
	embedder  embedding.Embedder
	indexName string
	l         pkgLog.Logger
}

// New creates a MongoDB Atlas Vector Search repository.
func New(coll Collection, embedder embedding.Embedder, indexName string, l pkgLog.Logger) repository.VectorRepository {
	return &implRepository{
		coll:      coll,
		embedder:  embedder,
		indexName: indexName,
		l:         l,
	}
}
