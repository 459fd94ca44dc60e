package http

import (
	_ "embed"
	"time"

	"github.com/gin-gonic/gin"

	"aelfgpt/internal/chat"
	"aelfgpt/internal/chat/session"
	"aelfgpt/pkg/log"
	"aelfgpt/pkg/markdown"
)

// SessionCookie carries the chat session ID between page loads.
const SessionCookie = "aelfgpt_session"

//go:embed web/index.html
var indexHTML []byte

// Handler is the public interface for the chat HTTP delivery layer.
type Handler interface {
	Index(c *gin.Context)
	History(c *gin.Context)
	Send(c *gin.Context)
	Reset(c *gin.Context)
	Stream(c *gin.Context)
}

type handler struct {
	l           log.Logger
	uc          chat.UseCase
	sessions    *session.Store
	md          *markdown.Renderer
	turnTimeout time.Duration
	sessionTTL  time.Duration
	origins     []string
}

// Config holds the delivery settings.
type Config struct {
	TurnTimeout    time.Duration // 0 disables the per-turn deadline
	SessionTTL     time.Duration // cookie lifetime
	AllowedOrigins []string      // cross-origin hosts allowed on the WebSocket
}

// New creates a new HTTP handler for the chat domain.
func New(l log.Logger, uc chat.UseCase, sessions *session.Store, md *markdown.Renderer, cfg Config) Handler {
	return &handler{
		l:           l,
		uc:          uc,
		sessions:    sessions,
		md:          md,
		turnTimeout: cfg.TurnTimeout,
		sessionTTL:  cfg.SessionTTL,
		origins:     cfg.AllowedOrigins,
	}
}
