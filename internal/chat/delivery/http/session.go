package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aelfgpt/internal/chat/session"
)

// session resolves the caller's session from its cookie, starting a new one
// when the cookie is missing or refers to an expired session.
func (h *handler) session(c *gin.Context) *session.Session {
	id, _ := c.Cookie(SessionCookie)
	sess, created := h.sessions.GetOrCreate(id)
	if created {
		h.l.Debugf(c.Request.Context(), "chat.session: started session=%s", sess.ID())
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID(),
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}
