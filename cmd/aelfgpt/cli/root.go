package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"aelfgpt/config"
	"aelfgpt/internal/app"
	"aelfgpt/pkg/log"
)

var verbose bool

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "aelfgpt",
	Short: "AelfGPT knowledge base and chat tools",
	Long: `aelfgpt maintains the vector index behind the AelfGPT chat service
and offers a terminal chat shell over the same retrieval pipeline.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	RootCmd.AddCommand(ingestCmd, queryCmd, deleteCmd, chatCmd)
}

// bootstrap loads configuration and builds the application for a subcommand.
func bootstrap(cmd *cobra.Command, withChat bool) (context.Context, *app.App, log.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	level := cfg.Logger.Level
	if verbose {
		level = "debug"
	} else if level == "debug" {
		level = "info"
	}
	logger := log.Init(log.ZapConfig{
		Level:        level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
	if withChat {
		// The chat shell owns the terminal.
		logger = log.NewNop()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	a, err := app.New(ctx, cfg, logger, withChat)
	if err != nil {
		stop()
		return nil, nil, nil, nil, err
	}

	cleanup := func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warnf(ctx, "Close: %v", err)
		}
		stop()
	}
	return ctx, a, logger, cleanup, nil
}
