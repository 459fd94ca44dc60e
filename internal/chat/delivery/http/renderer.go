package http

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"aelfgpt/internal/model"
)

// sseRenderer pushes a turn to the client as server-sent events. Headers are
// written on the first event so that errors raised before the turn starts
// can still be answered with a plain JSON status.
type sseRenderer struct {
	h       *handler
	c       *gin.Context
	started bool
}

func (r *sseRenderer) start() {
	if r.started {
		return
	}
	r.started = true
	w := r.c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
}

func (r *sseRenderer) event(ctx context.Context, name string, data any) error {
	r.start()
	r.c.SSEvent(name, data)
	r.c.Writer.Flush()
	return ctx.Err()
}

func (r *sseRenderer) RenderUser(ctx context.Context, msg model.Message) error {
	return r.event(ctx, frameUser, r.h.newMessageResp(msg))
}

func (r *sseRenderer) RenderFragment(ctx context.Context, fragment string) error {
	return r.event(ctx, frameFragment, gin.H{"text": fragment})
}

// wsRenderer pushes a turn to the client as JSON frames.
type wsRenderer struct {
	h    *handler
	conn *websocket.Conn
}

func (r *wsRenderer) RenderUser(ctx context.Context, msg model.Message) error {
	m := r.h.newMessageResp(msg)
	return wsjson.Write(ctx, r.conn, wsFrame{Type: frameUser, Message: &m})
}

func (r *wsRenderer) RenderFragment(ctx context.Context, fragment string) error {
	return wsjson.Write(ctx, r.conn, wsFrame{Type: frameFragment, Fragment: fragment})
}
