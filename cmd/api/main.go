package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aelfgpt/config"
	_ "aelfgpt/docs" // Swagger docs
	"aelfgpt/internal/app"
	chatHTTP "aelfgpt/internal/chat/delivery/http"
	"aelfgpt/internal/httpserver"
	"aelfgpt/internal/middleware"
	"aelfgpt/pkg/log"
	"aelfgpt/pkg/markdown"
)

// @title       AelfGPT API
// @description Retrieval-augmented chat over the aelf documentation.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting AelfGPT...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "LLM stream mode: %s", cfg.LLM.StreamMode)

	// 3. Retrieval pipeline and chat engine
	application, err := app.New(ctx, cfg, logger, true)
	if err != nil {
		logger.Error(ctx, "Failed to initialize application: ", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warnf(ctx, "Close: %v", err)
		}
	}()

	// 4. HTTP delivery
	chatHandler := chatHTTP.New(logger, application.Chat, application.Sessions, markdown.New(), chatHTTP.Config{
		TurnTimeout:    cfg.HTTPServer.TurnTimeout,
		SessionTTL:     cfg.Chat.SessionTTL,
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
	})

	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		Middleware:  middleware.New(logger, cfg.RateLimit),
		ChatHandler: chatHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 5. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
