package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"jira_task_bot/internal/config"
	"jira_task_bot/internal/model"
	"jira_task_bot/internal/task"
)

// TaskRunner files a submission as a Jira issue
type TaskRunner interface {
	Run(ctx context.Context, sub model.Submission) (*task.Result, error)
}

// IssueLinker builds the browse link of an issue key
type IssueLinker interface {
	IssueURL(key string) string
}

type taskTools struct {
	identities task.IdentityResolver
	components task.ComponentResolver
	tasks      TaskRunner
	links      IssueLinker

	defaultProject    string
	dueDateOffsetDays int
	now               func() time.Time
}

// NewServer creates a new MCP server instance exposing the task pipeline
func NewServer(cfg *config.Config, identities task.IdentityResolver, components task.ComponentResolver, tasks TaskRunner, links IssueLinker) *server.MCPServer {
	s := server.NewMCPServer(
		"jira task bot",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	tools := &taskTools{
		identities:        identities,
		components:        components,
		tasks:             tasks,
		links:             links,
		defaultProject:    cfg.DefaultProjectLabel,
		dueDateOffsetDays: cfg.DueDateOffsetDays,
		now:               time.Now,
	}
	tools.register(s)

	return s
}

// Serve starts the MCP server
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
