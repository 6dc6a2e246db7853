package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jira_task_bot/internal/config"
	"jira_task_bot/internal/model"
	"jira_task_bot/internal/task"
)

type fakeIdentities struct {
	err error
}

func (f *fakeIdentities) Resolve(ctx context.Context, chatUserID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "acc-" + chatUserID, nil
}

type fakeComponents struct{}

func (fakeComponents) ResolveOrCreate(ctx context.Context, label string) (string, error) {
	return "comp-" + label, nil
}

type fakeTasks struct {
	got model.Submission
	err error
}

func (f *fakeTasks) Run(ctx context.Context, sub model.Submission) (*task.Result, error) {
	f.got = sub
	if f.err != nil {
		return nil, f.err
	}
	return &task.Result{Issue: &model.CreatedIssue{ID: "20001", Key: "OPS-7"}}, nil
}

type fakeLinks struct{}

func (fakeLinks) IssueURL(key string) string {
	return "https://example.atlassian.net/browse/" + key
}

func newTools(identities *fakeIdentities, tasks *fakeTasks) *taskTools {
	return &taskTools{
		identities:        identities,
		components:        fakeComponents{},
		tasks:             tasks,
		links:             fakeLinks{},
		defaultProject:    "Others",
		dueDateOffsetDays: 7,
		now:               func() time.Time { return time.Date(2024, time.February, 26, 0, 0, 0, 0, time.UTC) },
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestResolveAccount(t *testing.T) {
	tools := newTools(&fakeIdentities{}, &fakeTasks{})

	result, err := tools.handleResolveAccount(context.Background(), callRequest(map[string]any{"user_id": "U123"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "acc-U123", resultText(t, result))
}

func TestResolveAccountErrors(t *testing.T) {
	t.Run("missing argument", func(t *testing.T) {
		tools := newTools(&fakeIdentities{}, &fakeTasks{})
		result, err := tools.handleResolveAccount(context.Background(), callRequest(map[string]any{}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("lookup failure", func(t *testing.T) {
		tools := newTools(&fakeIdentities{err: goerr.New("Unauthorized", goerr.T(model.TagTrackerLookup))}, &fakeTasks{})
		result, err := tools.handleResolveAccount(context.Background(), callRequest(map[string]any{"user_id": "U123"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "TrackerLookupError: Unauthorized", resultText(t, result))
	})
}

func TestResolveComponent(t *testing.T) {
	tools := newTools(&fakeIdentities{}, &fakeTasks{})

	result, err := tools.handleResolveComponent(context.Background(), callRequest(map[string]any{"project": "AWS"}))
	require.NoError(t, err)
	assert.Equal(t, "comp-AWS", resultText(t, result))
}

func TestCreateTask(t *testing.T) {
	tasks := &fakeTasks{}
	tools := newTools(&fakeIdentities{}, tasks)

	result, err := tools.handleCreateTask(context.Background(), callRequest(map[string]any{
		"user_id":      "U123",
		"task_name":    "Fix login",
		"task_summary": "Users cannot log in",
		"due_date":     "2024-03-01",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, model.Submission{
		UserID:      "U123",
		TaskName:    "Fix login",
		TaskSummary: "Users cannot log in",
		Project:     "Others",
		DueDate:     "2024-03-01",
	}, tasks.got)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, map[string]string{
		"id":       "20001",
		"key":      "OPS-7",
		"url":      "https://example.atlassian.net/browse/OPS-7",
		"due_date": "2024-03-01",
	}, out)
}

func TestCreateTaskDefaultsDueDate(t *testing.T) {
	tasks := &fakeTasks{}
	tools := newTools(&fakeIdentities{}, tasks)

	_, err := tools.handleCreateTask(context.Background(), callRequest(map[string]any{
		"user_id":      "U123",
		"task_name":    "Fix login",
		"task_summary": "Users cannot log in",
		"project":      "AWS",
		"assignee_id":  "U456",
		"due_date":     "next friday",
	}))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", tasks.got.DueDate)
	assert.Equal(t, "AWS", tasks.got.Project)
	assert.Equal(t, "U456", tasks.got.AssigneeID)
}

func TestCreateTaskFailure(t *testing.T) {
	tools := newTools(&fakeIdentities{}, &fakeTasks{err: goerr.New("Bad Request", goerr.T(model.TagIssueCreate))})

	result, err := tools.handleCreateTask(context.Background(), callRequest(map[string]any{
		"user_id":      "U123",
		"task_name":    "Fix login",
		"task_summary": "Users cannot log in",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "IssueCreateError: Bad Request", resultText(t, result))
}

func TestNewServer(t *testing.T) {
	s := NewServer(&config.Config{DefaultProjectLabel: "Others", DueDateOffsetDays: 7},
		&fakeIdentities{}, fakeComponents{}, &fakeTasks{}, fakeLinks{})
	assert.NotNil(t, s)
}
