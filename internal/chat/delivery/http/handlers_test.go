package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aelfgpt/config"
	"aelfgpt/internal/chat"
	"aelfgpt/internal/chat/session"
	"aelfgpt/internal/middleware"
	"aelfgpt/internal/model"
	"aelfgpt/pkg/log"
	"aelfgpt/pkg/markdown"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUseCase replays a scripted turn through the renderer.
type fakeUseCase struct {
	fragments []string
	fail      bool
	err       error
}

func (f *fakeUseCase) SendMessage(ctx context.Context, sess *session.Session, in chat.SendMessageInput, r chat.Renderer) (chat.SendMessageOutput, error) {
	if f.err != nil {
		return chat.SendMessageOutput{}, f.err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return chat.SendMessageOutput{}, chat.ErrEmptyInput
	}

	user := model.NewMessage(model.RoleUser, content)
	sess.Append(user)
	if err := r.RenderUser(ctx, user); err != nil {
		return chat.SendMessageOutput{}, err
	}
	for _, frag := range f.fragments {
		if err := r.RenderFragment(ctx, frag); err != nil {
			return chat.SendMessageOutput{}, err
		}
	}

	if f.fail {
		marker := model.NewMessage(model.RoleAssistant, chat.ErrorMarkerText)
		marker.IsError = true
		sess.Append(marker)
		return chat.SendMessageOutput{
			Status:    chat.TurnFailed,
			Message:   marker,
			Stage:     chat.StageGenerate,
			Cause:     errors.New("provider down"),
			Fragments: len(f.fragments),
		}, nil
	}

	reply := model.NewMessage(model.RoleAssistant, strings.Join(f.fragments, ""))
	sess.Append(reply)
	return chat.SendMessageOutput{
		Status:    chat.TurnSucceeded,
		Message:   reply,
		Fragments: len(f.fragments),
		Sources: []model.ScoredNode{{
			Node:  model.Node{ID: "docs/a.md#0", DocumentID: "docs/a.md", Metadata: map[string]any{"file_name": "a.md"}},
			Score: 0.9,
		}},
	}, nil
}

func (f *fakeUseCase) History(sess *session.Session) []model.Message {
	return sess.History()
}

func (f *fakeUseCase) Reset(sess *session.Session) error {
	if err := sess.Reset(); err != nil {
		return chat.ErrTurnInProgress
	}
	return nil
}

func newTestRouter(uc chat.UseCase) (*gin.Engine, *session.Store) {
	store := session.NewStore(10, time.Hour, nil)
	h := New(log.NewNop(), uc, store, markdown.New(), Config{SessionTTL: time.Hour})
	mw := middleware.New(log.NewNop(), config.RateLimitConfig{})

	r := gin.New()
	RegisterPage(r, h)
	RegisterRoutes(r.Group("/api/v1"), h, mw)
	return r, store
}

func do(r http.Handler, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeHistory(t *testing.T, w *httptest.ResponseRecorder) historyResp {
	t.Helper()
	var body struct {
		ErrorCode int         `json:"error_code"`
		Data      historyResp `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Zero(t, body.ErrorCode)
	return body.Data
}

func TestIndex(t *testing.T) {
	r, store := newTestRouter(&fakeUseCase{})

	w := do(r, http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "AelfGPT")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	_, ok := store.Get(cookies[0].Value)
	assert.True(t, ok, "cookie must name a live session")
}

func TestSend(t *testing.T) {
	t.Run("Streams Events And Records History", func(t *testing.T) {
		r, _ := newTestRouter(&fakeUseCase{fragments: []string{"**Hel", "lo**"}})

		w := do(r, http.MethodPost, "/api/v1/chat/messages", `{"content":"hi"}`, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

		body := w.Body.String()
		iUser := strings.Index(body, "event:user")
		iFrag := strings.Index(body, "event:fragment")
		iDone := strings.Index(body, "event:done")
		require.True(t, iUser >= 0 && iFrag > iUser && iDone > iFrag, "unexpected event order:\n%s", body)
		assert.Equal(t, 2, strings.Count(body, "event:fragment"))
		assert.Contains(t, body, `"file_name":"a.md"`)

		h := decodeHistory(t, do(r, http.MethodGet, "/api/v1/chat/messages", "", w.Result().Cookies()))
		require.Len(t, h.Messages, 2)
		assert.Equal(t, "user", h.Messages[0].Role)
		assert.Equal(t, "**Hello**", h.Messages[1].Content)
		assert.Contains(t, h.Messages[1].HTML, "<strong>Hello</strong>")
	})

	t.Run("Failed Turn", func(t *testing.T) {
		r, _ := newTestRouter(&fakeUseCase{fragments: []string{"partial"}, fail: true})

		w := do(r, http.MethodPost, "/api/v1/chat/messages", `{"content":"hi"}`, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "event:failed")
		assert.NotContains(t, w.Body.String(), "event:done")

		h := decodeHistory(t, do(r, http.MethodGet, "/api/v1/chat/messages", "", w.Result().Cookies()))
		require.Len(t, h.Messages, 2)
		assert.True(t, h.Messages[1].IsError)
		assert.Equal(t, chat.ErrorMarkerText, h.Messages[1].Content)
		assert.Empty(t, h.Messages[1].HTML)
	})

	t.Run("Empty Input", func(t *testing.T) {
		r, _ := newTestRouter(&fakeUseCase{})

		w := do(r, http.MethodPost, "/api/v1/chat/messages", `{"content":"   "}`, nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		h := decodeHistory(t, do(r, http.MethodGet, "/api/v1/chat/messages", "", w.Result().Cookies()))
		assert.Empty(t, h.Messages)
	})

	t.Run("Turn In Progress", func(t *testing.T) {
		r, _ := newTestRouter(&fakeUseCase{err: chat.ErrTurnInProgress})

		w := do(r, http.MethodPost, "/api/v1/chat/messages", `{"content":"hi"}`, nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	})

	t.Run("Malformed Body", func(t *testing.T) {
		r, _ := newTestRouter(&fakeUseCase{})

		w := do(r, http.MethodPost, "/api/v1/chat/messages", `{"content":`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Content Too Long", func(t *testing.T) {
		r, _ := newTestRouter(&fakeUseCase{fragments: []string{"ok"}})

		body, err := json.Marshal(sendReq{Content: strings.Repeat("a", maxContentLen+1)})
		require.NoError(t, err)
		w := do(r, http.MethodPost, "/api/v1/chat/messages", string(body), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotContains(t, w.Body.String(), "event:")
	})

	t.Run("Unknown Cookie Starts Fresh Session", func(t *testing.T) {
		r, store := newTestRouter(&fakeUseCase{fragments: []string{"ok"}})

		forged := []*http.Cookie{{Name: SessionCookie, Value: "not-a-session"}}
		w := do(r, http.MethodPost, "/api/v1/chat/messages", `{"content":"hi"}`, forged)

		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.NotEqual(t, "not-a-session", cookies[0].Value)
		_, ok := store.Get("not-a-session")
		assert.False(t, ok)
	})
}

func TestReset(t *testing.T) {
	r, _ := newTestRouter(&fakeUseCase{fragments: []string{"ok"}})

	w := do(r, http.MethodPost, "/api/v1/chat/messages", `{"content":"hi"}`, nil)
	cookies := w.Result().Cookies()

	w = do(r, http.MethodDelete, "/api/v1/chat/messages", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	h := decodeHistory(t, do(r, http.MethodGet, "/api/v1/chat/messages", "", cookies))
	assert.Empty(t, h.Messages)
}

func TestResetWhileResponding(t *testing.T) {
	r, store := newTestRouter(&fakeUseCase{})

	w := do(r, http.MethodGet, "/", "", nil)
	cookies := w.Result().Cookies()
	sess, ok := store.Get(cookies[0].Value)
	require.True(t, ok)
	require.NoError(t, sess.Begin())
	defer sess.End()

	w = do(r, http.MethodDelete, "/api/v1/chat/messages", "", cookies)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStream(t *testing.T) {
	r, _ := newTestRouter(&fakeUseCase{fragments: []string{"Hel", "lo"}})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/chat/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	readTurn := func(content string) []wsFrame {
		require.NoError(t, wsjson.Write(ctx, conn, map[string]string{"content": content}))
		var frames []wsFrame
		for {
			var f wsFrame
			require.NoError(t, wsjson.Read(ctx, conn, &f))
			frames = append(frames, f)
			if f.Type == frameDone || f.Type == frameFailed || f.Type == frameError {
				return frames
			}
		}
	}

	frames := readTurn("hi")
	require.Len(t, frames, 4)
	assert.Equal(t, frameUser, frames[0].Type)
	require.NotNil(t, frames[0].Message)
	assert.Equal(t, "hi", frames[0].Message.Content)
	assert.Equal(t, "Hel", frames[1].Fragment)
	assert.Equal(t, "lo", frames[2].Fragment)
	assert.Equal(t, frameDone, frames[3].Type)
	require.NotNil(t, frames[3].Turn)
	assert.Equal(t, "Hello", frames[3].Turn.Message.Content)

	// A second turn on the same connection shares the session.
	frames = readTurn("again")
	assert.Equal(t, frameDone, frames[len(frames)-1].Type)
}

func TestStreamUseCaseError(t *testing.T) {
	r, _ := newTestRouter(&fakeUseCase{err: chat.ErrTurnInProgress})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/chat/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.NoError(t, wsjson.Write(ctx, conn, map[string]string{"content": "hi"}))
	var f wsFrame
	require.NoError(t, wsjson.Read(ctx, conn, &f))
	assert.Equal(t, frameError, f.Type)
	assert.NotEmpty(t, f.Error)
}

func dialStream(t *testing.T, ctx context.Context, srv *httptest.Server, opts *websocket.DialOptions) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	return websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/chat/ws", opts)
}

func TestStreamContentTooLong(t *testing.T) {
	r, _ := newTestRouter(&fakeUseCase{fragments: []string{"ok"}})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := dialStream(t, ctx, srv, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.NoError(t, wsjson.Write(ctx, conn, map[string]string{"content": strings.Repeat("a", maxContentLen+1)}))
	var f wsFrame
	require.NoError(t, wsjson.Read(ctx, conn, &f))
	assert.Equal(t, frameError, f.Type)
	assert.Equal(t, errContentTooLong.Error(), f.Error)

	// The connection stays usable.
	require.NoError(t, wsjson.Write(ctx, conn, map[string]string{"content": "hi"}))
	require.NoError(t, wsjson.Read(ctx, conn, &f))
	assert.Equal(t, frameUser, f.Type)
}

func TestStreamOrigin(t *testing.T) {
	r, _ := newTestRouter(&fakeUseCase{})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("Foreign Origin Rejected", func(t *testing.T) {
		_, resp, err := dialStream(t, ctx, srv, &websocket.DialOptions{
			HTTPHeader: http.Header{"Origin": {"http://evil.example"}},
		})
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Same Origin Accepted", func(t *testing.T) {
		conn, _, err := dialStream(t, ctx, srv, &websocket.DialOptions{
			HTTPHeader: http.Header{"Origin": {srv.URL}},
		})
		require.NoError(t, err)
		conn.Close(websocket.StatusNormalClosure, "")
	})
}
