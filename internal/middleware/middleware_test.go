package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"aelfgpt/config"
	"aelfgpt/pkg/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(m Middleware, mws ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mws...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"Forwarded For", map[string]string{"X-Forwarded-For": "1.1.1.1, 10.0.0.1"}, "10.0.0.2:1234", "1.1.1.1"},
		{"Real IP", map[string]string{"X-Real-IP": "2.2.2.2"}, "10.0.0.2:1234", "2.2.2.2"},
		{"Remote Addr", nil, "3.3.3.3:5678", "3.3.3.3"},
		{"Remote Addr Without Port", nil, "4.4.4.4", "4.4.4.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := extractIP(req); got != tt.want {
				t.Errorf("extractIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	t.Run("Blocks After Burst", func(t *testing.T) {
		m := New(log.NewNop(), config.RateLimitConfig{Enabled: true, RequestsPerMin: 20})
		r := newRouter(m, m.RateLimit())

		codes := map[int]int{}
		for range 5 {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.RemoteAddr = "9.9.9.9:1"
			r.ServeHTTP(w, req)
			codes[w.Code]++
		}

		if codes[http.StatusOK] != 2 {
			t.Errorf("expected burst of 2 allowed, got %v", codes)
		}
		if codes[http.StatusTooManyRequests] != 3 {
			t.Errorf("expected 3 throttled, got %v", codes)
		}
	})

	t.Run("Per Client", func(t *testing.T) {
		m := New(log.NewNop(), config.RateLimitConfig{Enabled: true, RequestsPerMin: 10})
		r := newRouter(m, m.RateLimit())

		for _, ip := range []string{"1.0.0.1:1", "1.0.0.2:1"} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.RemoteAddr = ip
			r.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", ip, w.Code)
			}
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		m := New(log.NewNop(), config.RateLimitConfig{Enabled: false, RequestsPerMin: 1})
		r := newRouter(m, m.RateLimit())

		for range 5 {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200 when disabled, got %d", w.Code)
			}
		}
	})
}

func TestMetrics(t *testing.T) {
	m := New(log.NewNop(), config.RateLimitConfig{})
	r := newRouter(m, m.Metrics(), m.Logging())

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "200"))
	for range 3 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "200"))

	if after-before != 3 {
		t.Errorf("expected 3 counted requests, got %v", after-before)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")); got < 1 {
		t.Errorf("expected unmatched 404 to be counted, got %v", got)
	}
}
