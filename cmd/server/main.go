package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jira_task_bot/internal/app"
	"jira_task_bot/internal/config"
	"jira_task_bot/internal/logger"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:   "jira-task-bot",
	Short: "Slack bot that files Jira tasks from a request form",
	Long: `jira-task-bot serves the Slack Events API and interactivity endpoints.
The "reportTask" shortcut opens a request form; each submission becomes a Jira task
whose reporter, assignee and component are resolved from the Slack workspace.`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().IntP("port", "p", 0, "HTTP port (overrides SLACK_PORT)")
	rootCmd.Flags().String("log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.Flags().Bool("sync", false, "File issues before acknowledging Slack (overrides PROCESS_SYNC)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.GetLogger().Info("starting server", zap.Int("port", cfg.Port), zap.String("env", string(cfg.Environment)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.GetLogger().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("port") {
		port, err := cmd.Flags().GetInt("port")
		if err != nil {
			return err
		}
		cfg.Port = port
	}
	if cmd.Flags().Changed("log-level") {
		level, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	if cmd.Flags().Changed("sync") {
		sync, err := cmd.Flags().GetBool("sync")
		if err != nil {
			return err
		}
		cfg.ProcessSync = sync
	}
	return nil
}
