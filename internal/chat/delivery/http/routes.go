package http

import (
	"github.com/gin-gonic/gin"

	"aelfgpt/internal/middleware"
)

// RegisterRoutes maps the chat API under rg. Turn-starting routes are rate limited.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	chat := rg.Group("/chat")
	{
		chat.GET("/messages", h.History)
		chat.POST("/messages", mw.RateLimit(), h.Send)
		chat.DELETE("/messages", h.Reset)
		chat.GET("/ws", mw.RateLimit(), h.Stream)
	}
}

// RegisterPage serves the chat page at the site root.
func RegisterPage(r gin.IRoutes, h Handler) {
	r.GET("/", h.Index)
}
