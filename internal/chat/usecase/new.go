package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"aelfgpt/internal/chat"
	"aelfgpt/internal/knowledge"
	"aelfgpt/pkg/llmprovider"
	pkgLog "aelfgpt/pkg/log"
)

const tracerName = "aelfgpt/internal/chat/usecase"

// LLM opens a fragment stream for a request. *llmprovider.Manager implements it.
type LLM interface {
	StreamContent(ctx context.Context, req *llmprovider.Request) (llmprovider.Stream, error)
}

// Config holds the chat engine settings.
type Config struct {
	SystemPrompt string
	TopK         int
	MaxTokens    int
	Temperature  float64
}

type implUseCase struct {
	l         pkgLog.Logger
	knowledge knowledge.UseCase
	llm       LLM
	cfg       Config
	tracer    trace.Tracer
}

// New creates a new chat UseCase instance.
func New(l pkgLog.Logger, knowledgeUC knowledge.UseCase, llm LLM, cfg Config) chat.UseCase {
	if cfg.TopK <= 0 {
		cfg.TopK = knowledge.DefaultTopK
	}
	return &implUseCase{
		l:         l,
		knowledge: knowledgeUC,
		llm:       llm,
		cfg:       cfg,
		tracer:    otel.Tracer(tracerName),
	}
}
