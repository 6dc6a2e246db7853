package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"jira_task_bot/internal/form"
	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
)

// register adds the task tools to the server
func (t *taskTools) register(s *server.MCPServer) {
	resolveAccountTool := mcp.NewTool("resolve_jira_account",
		mcp.WithDescription("Find the Jira account id of a Slack user"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Slack user id (e.g., 'U024BE7LH')"),
		),
	)

	resolveComponentTool := mcp.NewTool("resolve_component",
		mcp.WithDescription("Get the id of the Jira component named after a project label, creating it when missing"),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project label (e.g., 'AWS')"),
		),
	)

	createTaskTool := mcp.NewTool("create_task",
		mcp.WithDescription("File a Jira task on behalf of a Slack user"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Slack user id of the reporter"),
		),
		mcp.WithString("task_name",
			mcp.Required(),
			mcp.Description("Issue summary"),
		),
		mcp.WithString("task_summary",
			mcp.Required(),
			mcp.Description("Issue description"),
		),
		mcp.WithString("project",
			mcp.Description("Project label; the default label is used when empty"),
		),
		mcp.WithString("assignee_id",
			mcp.Description("Slack user id of the assignee; the reporter when empty"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date as yyyy-MM-dd; one week from today when empty or unparsable"),
		),
	)

	s.AddTool(resolveAccountTool, t.handleResolveAccount)
	s.AddTool(resolveComponentTool, t.handleResolveComponent)
	s.AddTool(createTaskTool, t.handleCreateTask)
}

func (t *taskTools) handleResolveAccount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	accountID, err := t.identities.Resolve(ctx, userID)
	if err != nil {
		return toolError("resolve_jira_account", err), nil
	}
	return mcp.NewToolResultText(accountID), nil
}

func (t *taskTools) handleResolveComponent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	componentID, err := t.components.ResolveOrCreate(ctx, project)
	if err != nil {
		return toolError("resolve_component", err), nil
	}
	return mcp.NewToolResultText(componentID), nil
}

type createdTask struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	URL     string `json:"url,omitempty"`
	DueDate string `json:"due_date"`
}

func (t *taskTools) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sub := model.Submission{
		Project:    request.GetString("project", t.defaultProject),
		AssigneeID: request.GetString("assignee_id", ""),
	}
	var err error
	if sub.UserID, err = request.RequireString("user_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sub.TaskName, err = request.RequireString("task_name"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sub.TaskSummary, err = request.RequireString("task_summary"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sub.Project == "" {
		sub.Project = t.defaultProject
	}
	sub.DueDate = form.NormalizeDueDate(request.GetString("due_date", ""), t.now(), t.dueDateOffsetDays)

	result, err := t.tasks.Run(ctx, sub)
	if err != nil {
		return toolError("create_task", err), nil
	}

	out := createdTask{
		ID:      result.Issue.ID,
		Key:     result.Issue.Key,
		DueDate: sub.DueDate,
	}
	if out.Key != "" {
		out.URL = t.links.IssueURL(out.Key)
	}
	jsonResult, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %v", err)
	}
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func toolError(tool string, err error) *mcp.CallToolResult {
	logger.GetLogger().Error("tool call failed",
		zap.String("tool", tool),
		zap.String("kind", model.ErrorKind(err)),
		zap.Error(err))
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", model.ErrorKind(err), err.Error()))
}
