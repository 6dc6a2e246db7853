package main

import (
	"context"
	"log"
	"os"

	"jira_task_bot/internal/app"
	"jira_task_bot/internal/config"
	"jira_task_bot/internal/logger"
	mcpserver "jira_task_bot/internal/service/mcp-server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// stdout carries the MCP protocol
	if err := logger.Init(cfg.LogLevel, "stderr"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	server := mcpserver.NewServer(cfg, a.Identities, a.Components, a.Pipeline, a.Jira)

	logger.GetLogger().Info("Starting jira task bot MCP server")
	if err := mcpserver.Serve(server); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}
