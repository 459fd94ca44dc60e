package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"aelfgpt/internal/chat"
	"aelfgpt/internal/chat/session"
	"aelfgpt/pkg/response"
)

// Index serves the chat page and makes sure the browser holds a session cookie.
func (h *handler) Index(c *gin.Context) {
	h.session(c)
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// History godoc
// @Summary     Get chat history
// @Description Returns the ordered history of the caller's session, including error markers of failed turns.
// @Tags        Chat
// @Produce     json
// @Success     200 {object} historyResp
// @Router      /api/v1/chat/messages [GET]
func (h *handler) History(c *gin.Context) {
	sess := h.session(c)
	response.OK(c, h.newHistoryResp(sess.ID(), h.uc.History(sess)))
}

// Send godoc
// @Summary     Send a chat message
// @Description Runs one retrieval-augmented turn and streams it back as server-sent events:
// @Description "user" once, "fragment" per reply fragment, then "done" or "failed".
// @Tags        Chat
// @Accept      json
// @Produce     text/event-stream
// @Param       body body sendReq true "Message"
// @Success     200 {object} turnResp "final event payload"
// @Success     204 "Empty message, nothing to do"
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     409 {object} response.Resp "Turn already in progress"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/chat/messages [POST]
func (h *handler) Send(c *gin.Context) {
	req, err := h.processSendReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	sess := h.session(c)
	ctx, cancel := h.turnContext(c.Request.Context())
	defer cancel()

	r := &sseRenderer{h: h, c: c}
	out, err := h.uc.SendMessage(ctx, sess, req.toInput(), r)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyInput) {
			response.NoContent(c)
			return
		}
		h.l.Warnf(ctx, "uc.SendMessage: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	r.start()
	c.SSEvent(turnFrameType(out), h.newTurnResp(out))
	c.Writer.Flush()
}

// Reset godoc
// @Summary     Reset chat session
// @Description Clears the history and memory of the caller's session.
// @Tags        Chat
// @Produce     json
// @Success     200 {object} response.Resp "OK"
// @Failure     409 {object} response.Resp "Turn already in progress"
// @Router      /api/v1/chat/messages [DELETE]
func (h *handler) Reset(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.session(c)

	if err := h.uc.Reset(sess); err != nil {
		h.l.Warnf(ctx, "uc.Reset: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, nil)
}

// Stream godoc
// @Summary     Chat over WebSocket
// @Description Upgrades to a WebSocket. The client sends {"content": "..."} frames and receives
// @Description "user", "fragment", "done", "failed" and "error" frames for each turn.
// @Tags        Chat
// @Router      /api/v1/chat/ws [GET]
func (h *handler) Stream(c *gin.Context) {
	sess := h.session(c)

	conn, err := websocket.Accept(newUpgradeWriter(c.Writer), c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.l.Warnf(c.Request.Context(), "chat.Stream: accept: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := c.Request.Context()
	h.l.Debugf(ctx, "chat.Stream: connected session=%s", sess.ID())

	for {
		var req sendReq
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				h.l.Debugf(ctx, "chat.Stream: read: %v", err)
			}
			return
		}

		if err := h.streamTurn(ctx, conn, sess, req); err != nil {
			h.l.Debugf(ctx, "chat.Stream: write: %v", err)
			return
		}
	}
}

func (h *handler) streamTurn(ctx context.Context, conn *websocket.Conn, sess *session.Session, req sendReq) error {
	turnCtx, cancel := h.turnContext(ctx)
	defer cancel()

	if err := req.validate(); err != nil {
		return wsjson.Write(ctx, conn, wsFrame{Type: frameError, Error: err.Error()})
	}

	out, err := h.uc.SendMessage(turnCtx, sess, req.toInput(), &wsRenderer{h: h, conn: conn})
	if err != nil {
		if errors.Is(err, chat.ErrEmptyInput) {
			return nil
		}
		return wsjson.Write(ctx, conn, wsFrame{Type: frameError, Error: h.mapError(err).Error()})
	}

	turn := h.newTurnResp(out)
	return wsjson.Write(ctx, conn, wsFrame{Type: turnFrameType(out), Turn: &turn})
}

func (h *handler) turnContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.turnTimeout > 0 {
		return context.WithTimeout(ctx, h.turnTimeout)
	}
	return context.WithCancel(ctx)
}
