package http

import (
	"unicode/utf8"

	"aelfgpt/internal/chat"
	"aelfgpt/internal/model"
	"aelfgpt/pkg/response"
)

// --- Request DTOs ---

const maxContentLen = 8000

type sendReq struct {
	Content string `json:"content"`
}

func (r sendReq) validate() error {
	if utf8.RuneCountInString(r.Content) > maxContentLen {
		return errContentTooLong
	}
	return nil
}

func (r sendReq) toInput() chat.SendMessageInput {
	return chat.SendMessageInput{Content: r.Content}
}

// --- Response DTOs ---

type messageResp struct {
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	HTML      string            `json:"html,omitempty"`
	IsError   bool              `json:"is_error,omitempty"`
	CreatedAt response.DateTime `json:"created_at"`
}

func (h *handler) newMessageResp(msg model.Message) messageResp {
	resp := messageResp{
		Role:      string(msg.Role),
		Content:   msg.Content,
		IsError:   msg.IsError,
		CreatedAt: response.DateTime(msg.CreatedAt),
	}
	if msg.Role == model.RoleAssistant && !msg.IsError {
		html, err := h.md.ToHTML(msg.Content)
		if err == nil {
			resp.HTML = html
		}
	}
	return resp
}

// ---

type historyResp struct {
	SessionID string        `json:"session_id"`
	Messages  []messageResp `json:"messages"`
}

func (h *handler) newHistoryResp(sessionID string, msgs []model.Message) historyResp {
	resp := historyResp{
		SessionID: sessionID,
		Messages:  make([]messageResp, 0, len(msgs)),
	}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, h.newMessageResp(m))
	}
	return resp
}

// ---

type sourceResp struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	FileName   string  `json:"file_name,omitempty"`
	Score      float64 `json:"score"`
}

type turnResp struct {
	Status    string       `json:"status"`
	Message   messageResp  `json:"message"`
	Stage     string       `json:"stage,omitempty"`
	Fragments int          `json:"fragments"`
	Sources   []sourceResp `json:"sources,omitempty"`
}

func (h *handler) newTurnResp(out chat.SendMessageOutput) turnResp {
	resp := turnResp{
		Status:    string(out.Status),
		Message:   h.newMessageResp(out.Message),
		Stage:     string(out.Stage),
		Fragments: out.Fragments,
	}
	for _, n := range out.Sources {
		src := sourceResp{ID: n.ID, DocumentID: n.DocumentID, Score: n.Score}
		if name, ok := n.Metadata["file_name"].(string); ok {
			src.FileName = name
		}
		resp.Sources = append(resp.Sources, src)
	}
	return resp
}

// ---

// Frame types pushed to SSE and WebSocket clients.
const (
	frameUser     = "user"
	frameFragment = "fragment"
	frameDone     = "done"
	frameFailed   = "failed"
	frameError    = "error"
)

// wsFrame is one WebSocket message. Exactly one payload field is set per type.
type wsFrame struct {
	Type     string       `json:"type"`
	Message  *messageResp `json:"message,omitempty"`
	Fragment string       `json:"fragment,omitempty"`
	Turn     *turnResp    `json:"turn,omitempty"`
	Error    string       `json:"error,omitempty"`
}

func turnFrameType(out chat.SendMessageOutput) string {
	if out.Failed() {
		return frameFailed
	}
	return frameDone
}
