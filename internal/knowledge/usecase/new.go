package usecase

import (
	"aelfgpt/internal/knowledge"
	"aelfgpt/internal/knowledge/repository"
	pkgLog "aelfgpt/pkg/log"
)

const (
	defaultSentencesPerChunk = 5
	defaultBatchSize         = 32
)

// Config tunes ingestion.
type Config struct {
	Patterns          []string // default ingest patterns
	SentencesPerChunk int
	SentenceOverlap   int
	BatchSize         int // nodes per Add call
}

type implUseCase struct {
	l          pkgLog.Logger
	vectorRepo repository.VectorRepository
	cfg        Config
}

// New creates a new knowledge UseCase instance.
func New(l pkgLog.Logger, vectorRepo repository.VectorRepository, cfg Config) knowledge.UseCase {
	if cfg.SentencesPerChunk <= 0 {
		cfg.SentencesPerChunk = defaultSentencesPerChunk
	}
	if cfg.SentenceOverlap < 0 || cfg.SentenceOverlap >= cfg.SentencesPerChunk {
		cfg.SentenceOverlap = 0
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &implUseCase{
		l:          l,
		vectorRepo: vectorRepo,
		cfg:        cfg,
	}
}
