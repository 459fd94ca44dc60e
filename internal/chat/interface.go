package chat

import (
	"context"

	"aelfgpt/internal/chat/session"
	"aelfgpt/internal/model"
)

// UseCase defines the business logic interface for the chat domain.
type UseCase interface {
	// SendMessage runs one retrieval-augmented turn on the session, streaming
	// the reply through r. A failed turn is reported in the output, not as an error.
	SendMessage(ctx context.Context, sess *session.Session, input SendMessageInput, r Renderer) (SendMessageOutput, error)

	// History returns the session's ordered history.
	History(sess *session.Session) []model.Message

	// Reset clears the session's history and memory.
	Reset(sess *session.Session) error
}

// Renderer receives a turn's output as it is produced.
type Renderer interface {
	// RenderUser is called once, right after the user message is recorded.
	RenderUser(ctx context.Context, msg model.Message) error

	// RenderFragment is called for each streamed fragment, in order.
	RenderFragment(ctx context.Context, fragment string) error
}
