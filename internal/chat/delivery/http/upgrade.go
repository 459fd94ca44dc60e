package http

import (
	"bufio"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// upgradeWriter lets websocket.Accept hijack a gin response. The 101 status
// goes straight to the server's writer because gin only records it, and gin's
// own Hijack refuses once its header has been flushed. Hijacking through gin
// marks the response as written so gin leaves the connection alone afterwards.
type upgradeWriter struct {
	gw  gin.ResponseWriter
	raw http.ResponseWriter
}

func newUpgradeWriter(gw gin.ResponseWriter) *upgradeWriter {
	w := &upgradeWriter{gw: gw}
	if u, ok := gw.(interface{ Unwrap() http.ResponseWriter }); ok {
		w.raw = u.Unwrap()
	}
	return w
}

func (w *upgradeWriter) Header() http.Header { return w.gw.Header() }

func (w *upgradeWriter) Write(b []byte) (int, error) { return w.gw.Write(b) }

func (w *upgradeWriter) WriteHeader(code int) {
	if code == http.StatusSwitchingProtocols && w.raw != nil {
		w.raw.WriteHeader(code)
	}
	w.gw.WriteHeader(code)
}

func (w *upgradeWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.gw.Hijack()
}
