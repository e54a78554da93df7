package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tubelens/internal/browser"
	"tubelens/internal/captions"
	"tubelens/internal/comments"
	"tubelens/internal/config"
	"tubelens/internal/core"
	"tubelens/internal/ipc"
	"tubelens/internal/llm"
	"tubelens/internal/logging"
	"tubelens/internal/notifications"
	"tubelens/internal/rag"
	"tubelens/internal/settings"
	"tubelens/internal/youtube"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runDaemon(cmd, cfg, ctx.socketPath(), logLevel)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	return cmd
}

func runDaemon(cmd *cobra.Command, cfg *config.Config, socketPath, logLevel string) error {
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another tubelens daemon holds %s", cfg.LockPath())
	}
	defer func() { _ = lock.Unlock() }()

	level := strings.TrimSpace(logLevel)
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: resolveLogFormat(cfg.Logging.Format),
		LogDir: cfg.Paths.LogDir,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := settings.Open(cfg.SettingsDBPath(), logger)
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}
	defer store.Close()

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Pipelines snapshot settings at entry; the subscription just surfaces
	// changes in the daemon log. The channel closes with the store.
	go watchSettingsChanges(logger, store.Subscribe())

	ytClient := youtube.NewClient(cfg.YouTube.RequestsPerMinute, logger,
		youtube.WithBaseURL(cfg.YouTube.BaseURL))
	dispatcher := llm.NewDispatcher(logger)
	bridge := browser.NewBridge(time.Duration(cfg.Browser.CommandTimeoutSeconds)*time.Second, logger)
	notifier := notifications.NewService(cfg.Notifications)

	captionsSvc := captions.NewService(ytClient, bridge, captions.CollectorConfig{}, logger)
	commentsSvc := comments.NewService(ytClient, dispatcher, notifier, logger)
	ragSvc := rag.NewService(dispatcher, ytClient, logger)
	analysis := core.NewService(store, captionsSvc, commentsSvc, ragSvc, notifier, logger)

	server, err := ipc.NewServer(signalCtx, socketPath, analysis, store, bridge, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer server.Close()
	server.Serve()

	logger.Info("tubelens daemon ready",
		logging.String("socket", socketPath),
		logging.String("data_dir", cfg.Paths.DataDir))

	<-signalCtx.Done()
	logger.Info("tubelens daemon shutting down")
	return nil
}

func watchSettingsChanges(logger *slog.Logger, changes <-chan string) {
	for key := range changes {
		logger.Info("setting changed", logging.String("key", key))
	}
}

// resolveLogFormat maps the "auto" config value to console on a terminal and
// JSON otherwise.
func resolveLogFormat(format string) string {
	if strings.ToLower(strings.TrimSpace(format)) != "auto" {
		return format
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return "console"
	}
	return "json"
}
