package log_test

import (
	"context"
	"testing"

	"aelfgpt/pkg/log"
)

func TestInit(t *testing.T) {
	cases := []log.ZapConfig{
		{Level: "debug", Mode: log.ModeDevelopment, Encoding: log.EncodingConsole, ColorEnabled: true},
		{Level: "info", Mode: log.ModeProduction, Encoding: log.EncodingJSON},
		{Level: "not-a-level", Mode: "", Encoding: ""},
	}

	for _, cfg := range cases {
		t.Run(cfg.Level, func(t *testing.T) {
			l := log.Init(cfg)
			if l == nil {
				t.Fatal("expected logger, got nil")
			}
			l.Debugf(context.Background(), "value=%d", 1)
			l.Info(context.Background(), "hello")
		})
	}
}

func TestNewNop(t *testing.T) {
	l := log.NewNop()
	l.Errorf(context.Background(), "discarded: %v", "x")
	l.Warn(nil, "nil context is tolerated")
}
