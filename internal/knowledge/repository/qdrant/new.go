package qdrant

import (
	"sync"

	"aelfgpt/internal/knowledge/repository"
	"aelfgpt/pkg/embedding"
	pkgLog "aelfgpt/pkg/log"
	pkgQdrant "aelfgpt/pkg/qdrant"
)

type implRepository struct {
	client         *pkgQdrant.Client
	embedder       embedding.Embedder
	collectionName string
	vectorSize     int
	l              pkgLog.Logger

	mu        sync.Mutex
	collReady bool
}

// New creates a new Qdrant repository. The collection is created on first write.
func New(client *pkgQdrant.Client, embedder embedding.Embedder, collectionName string, vectorSize int, l pkgLog.Logger) repository.VectorRepository {
	return &implRepository{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     vectorSize,
		l:              l,
	}
}
