package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"aelfgpt/internal/chat"
	"aelfgpt/internal/chat/session"
	"aelfgpt/internal/knowledge"
	"aelfgpt/internal/model"
	"aelfgpt/pkg/llmprovider"
)

// SendMessage runs one turn: record the user message, retrieve context, stream
// the reply through r and record it. Any failure after the user message is
// recorded ends the turn with an error marker in history and leaves memory untouched.
func (uc *implUseCase) SendMessage(ctx context.Context, sess *session.Session, input chat.SendMessageInput, r chat.Renderer) (chat.SendMessageOutput, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return chat.SendMessageOutput{}, chat.ErrEmptyInput
	}

	if err := sess.Begin(); err != nil {
		return chat.SendMessageOutput{}, chat.ErrTurnInProgress
	}
	defer sess.End()

	ctx, span := uc.tracer.Start(ctx, "chat.SendMessage", trace.WithAttributes(
		attribute.String("session.id", sess.ID()),
	))
	defer span.End()

	start := time.Now()
	user := model.NewMessage(model.RoleUser, content)
	sess.Append(user)

	out := uc.runTurn(ctx, sess, user, r)
	chatTurnDuration.Observe(time.Since(start).Seconds())
	chatTurnsTotal.WithLabelValues(string(out.Status), string(out.Stage)).Inc()

	if out.Failed() {
		sess.Append(out.Message)
		span.RecordError(out.Cause)
		span.SetStatus(codes.Error, string(out.Stage))
		uc.l.Warnf(ctx, "SendMessage: turn failed: session=%s stage=%s error=%v", sess.ID(), out.Stage, out.Cause)
		return out, nil
	}

	sess.Append(out.Message)
	sess.Memory().Put(user)
	sess.Memory().Put(out.Message)

	span.SetAttributes(attribute.Int("chat.fragments", out.Fragments))
	uc.l.Infof(ctx, "SendMessage: session=%s fragments=%d sources=%d duration=%s",
		sess.ID(), out.Fragments, len(out.Sources), time.Since(start).Round(time.Millisecond))
	return out, nil
}

// runTurn performs the delegated steps of a turn. It never panics and never
// returns a partially built success.
func (uc *implUseCase) runTurn(ctx context.Context, sess *session.Session, user model.Message, r chat.Renderer) (out chat.SendMessageOutput) {
	stage := chat.StageRender
	defer func() {
		if p := recover(); p != nil {
			out = failed(stage, fmt.Errorf("panic: %v", p), out.Fragments)
		}
	}()

	if err := r.RenderUser(ctx, user); err != nil {
		return failed(stage, err, 0)
	}

	stage = chat.StageRetrieve
	nodes, err := uc.retrieve(ctx, user.Content)
	if err != nil {
		return failed(stage, err, 0)
	}

	stage = chat.StageGenerate
	req := uc.buildRequest(sess.Memory().Get(), user, nodes)
	stream, err := uc.generate(ctx, req)
	if err != nil {
		return failed(stage, err, 0)
	}
	defer stream.Close()

	var (
		text      strings.Builder
		fragments int
	)
	for {
		stage = chat.StageStream
		frag, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return failed(stage, err, fragments)
		}

		stage = chat.StageRender
		if err := r.RenderFragment(ctx, frag); err != nil {
			return failed(stage, err, fragments)
		}
		text.WriteString(frag)
		fragments++
		chatFragmentsTotal.Inc()
	}

	if strings.TrimSpace(text.String()) == "" {
		return failed(chat.StageStream, llmprovider.ErrEmptyResponse, fragments)
	}

	return chat.SendMessageOutput{
		Status:    chat.TurnSucceeded,
		Message:   model.NewMessage(model.RoleAssistant, text.String()),
		Fragments: fragments,
		Sources:   nodes,
	}
}

func (uc *implUseCase) retrieve(ctx context.Context, query string) ([]model.ScoredNode, error) {
	ctx, span := uc.tracer.Start(ctx, "chat.retrieve")
	defer span.End()

	res, err := uc.knowledge.Retrieve(ctx, knowledge.RetrieveInput{Query: query, TopK: uc.cfg.TopK})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("retrieve.nodes", len(res.Nodes)))
	return res.Nodes, nil
}

func (uc *implUseCase) generate(ctx context.Context, req *llmprovider.Request) (llmprovider.Stream, error) {
	ctx, span := uc.tracer.Start(ctx, "chat.generate", trace.WithAttributes(
		attribute.Int("llm.messages", len(req.Messages)),
	))
	defer span.End()

	s, err := uc.llm.StreamContent(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s, nil
}

func failed(stage chat.FailureStage, cause error, fragments int) chat.SendMessageOutput {
	marker := model.NewMessage(model.RoleAssistant, chat.ErrorMarkerText)
	marker.IsError = true
	return chat.SendMessageOutput{
		Status:    chat.TurnFailed,
		Message:   marker,
		Stage:     stage,
		Cause:     cause,
		Fragments: fragments,
	}
}

// History returns the session's ordered history.
func (uc *implUseCase) History(sess *session.Session) []model.Message {
	return sess.History()
}

// Reset clears the session's history and memory.
func (uc *implUseCase) Reset(sess *session.Session) error {
	if err := sess.Reset(); err != nil {
		return chat.ErrTurnInProgress
	}
	uc.l.Infof(context.Background(), "Reset: session=%s", sess.ID())
	return nil
}
