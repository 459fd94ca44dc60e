package middleware

import (
	"aelfgpt/config"
	"aelfgpt/pkg/log"
)

// Middleware bundles the gin middlewares shared by all domains.
type Middleware struct {
	l       log.Logger
	limiter *rateLimiter // nil when rate limiting is disabled
}

// New creates the middleware set.
func New(l log.Logger, rl config.RateLimitConfig) Middleware {
	m := Middleware{l: l}
	if rl.Enabled && rl.RequestsPerMin > 0 {
		m.limiter = newRateLimiter(rl.RequestsPerMin)
	}
	return m
}
