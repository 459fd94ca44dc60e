// Package app wires configuration into the knowledge and chat use cases
// shared by the API server, the ingest CLI and the terminal shell.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aelfgpt/config"
	"aelfgpt/internal/chat"
	"aelfgpt/internal/chat/session"
	chatUC "aelfgpt/internal/chat/usecase"
	"aelfgpt/internal/knowledge"
	"aelfgpt/internal/knowledge/repository"
	atlasRepo "aelfgpt/internal/knowledge/repository/atlas"
	qdrantRepo "aelfgpt/internal/knowledge/repository/qdrant"
	knowledgeUC "aelfgpt/internal/knowledge/usecase"
	"aelfgpt/pkg/chatmemory"
	"aelfgpt/pkg/embedding"
	"aelfgpt/pkg/llmprovider"
	"aelfgpt/pkg/log"
	pkgMongo "aelfgpt/pkg/mongo"
	pkgQdrant "aelfgpt/pkg/qdrant"
)

const (
	appName     = "aelfgpt"
	pingTimeout = 5 * time.Second
)

// App holds the use cases built from one configuration.
type App struct {
	Knowledge knowledge.UseCase
	Chat      chat.UseCase
	Sessions  *session.Store

	l       log.Logger
	cfg     *config.Config
	closers []func(context.Context) error
}

// New builds the retrieval pipeline and, when withChat is set, the LLM
// providers and chat engine on top of it.
func New(ctx context.Context, cfg *config.Config, l log.Logger, withChat bool) (*App, error) {
	a := &App{l: l, cfg: cfg}

	embedder, err := embedding.New(ctx, cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return embedder.Close() })
	l.Infof(ctx, "Embedding model: %s", embedder.Model())

	repo, err := a.newVectorRepository(ctx, embedder)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.Knowledge = knowledgeUC.New(l, repo, knowledgeUC.Config{
		Patterns:          cfg.Ingest.Patterns,
		SentencesPerChunk: cfg.Ingest.SentencesPerChunk,
		SentenceOverlap:   cfg.Ingest.SentenceOverlap,
		BatchSize:         cfg.Ingest.BatchSize,
	})

	if !withChat {
		return a, nil
	}

	if err := a.initChat(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *App) newVectorRepository(ctx context.Context, embedder embedding.Embedder) (repository.VectorRepository, error) {
	vs := a.cfg.VectorStore

	if vs.Provider == config.VectorStoreQdrant {
		client := pkgQdrant.NewClient(vs.Qdrant.URL, nil)
		a.l.Infof(ctx, "Vector store: qdrant collection=%s", vs.Qdrant.CollectionName)
		return qdrantRepo.New(client, embedder, vs.Qdrant.CollectionName, vs.Qdrant.VectorSize, a.l), nil
	}

	client, err := pkgMongo.Connect(pkgMongo.Config{
		URI:      vs.Atlas.URI,
		Database: vs.Atlas.Database,
		AppName:  appName,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Disconnect)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		// Turns fail individually at the retrieve stage until the cluster is reachable.
		a.l.Warnf(ctx, "MongoDB Atlas not reachable yet: %v", err)
	}

	a.l.Infof(ctx, "Vector store: atlas db=%s collection=%s index=%s", vs.Atlas.Database, vs.Atlas.Collection, vs.Atlas.Index)
	return atlasRepo.New(client.Collection(vs.Atlas.Collection), embedder, vs.Atlas.Index, a.l), nil
}

func (a *App) initChat(ctx context.Context) error {
	providers, err := llmprovider.InitializeProviders(ctx, &a.cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm providers: %w", err)
	}
	for _, p := range providers {
		a.l.Infof(ctx, "LLM provider: %s model=%s", p.Name(), p.Model())
	}

	managerCfg, err := llmprovider.NewConfig(&a.cfg.LLM, a.cfg.Chat.ChunkSize)
	if err != nil {
		return err
	}
	manager := llmprovider.NewManager(providers, managerCfg, a.l)

	chatCfg := a.cfg.Chat
	a.Sessions = session.NewStore(chatCfg.MaxSessions, chatCfg.SessionTTL, func() *chatmemory.Buffer {
		return chatmemory.New(chatCfg.MemoryTokenLimit, nil)
	})

	a.Chat = chatUC.New(a.l, a.Knowledge, manager, chatUC.Config{
		SystemPrompt: chatCfg.SystemPrompt,
		TopK:         chatCfg.TopK,
		MaxTokens:    a.cfg.LLM.MaxTokens,
		Temperature:  a.cfg.LLM.Temperature,
	})
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
