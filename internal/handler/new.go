package handler

import (
	"context"
	"time"

	"github.com/slack-go/slack"

	"jira_task_bot/internal/config"
	"jira_task_bot/internal/model"
	"jira_task_bot/internal/task"
)

// Messenger is the part of the Slack client the handlers talk through
type Messenger interface {
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
	SendDirectMessage(ctx context.Context, userID string, text string) error
	SendMessage(ctx context.Context, channel string, text string, threadTS string) error
}

// TaskRunner files a submission as a Jira issue
type TaskRunner interface {
	Run(ctx context.Context, sub model.Submission) (*task.Result, error)
}

// SubmissionQueue hands a submission to another process that files it
type SubmissionQueue interface {
	Enqueue(ctx context.Context, sub model.Submission) error
}

// IssueLinker builds the browse link of an issue key
type IssueLinker interface {
	IssueURL(key string) string
}

type SlackHandler struct {
	messenger Messenger
	tasks     TaskRunner
	links     IssueLinker

	projectLabels     []string
	defaultProject    string
	dueDateOffsetDays int

	// queue, when set, receives submissions instead of a local goroutine
	queue SubmissionQueue
	// sync runs submissions before the HTTP response is written
	sync bool
	now  func() time.Time
}

// Option configures a SlackHandler
type Option func(*SlackHandler)

// WithQueue files submissions through queue. Used on Lambda, where goroutines do not outlive the response.
func WithQueue(queue SubmissionQueue) Option {
	return func(h *SlackHandler) {
		h.queue = queue
	}
}

func NewSlackHandler(cfg *config.Config, messenger Messenger, tasks TaskRunner, links IssueLinker, opts ...Option) *SlackHandler {
	h := &SlackHandler{
		messenger:         messenger,
		tasks:             tasks,
		links:             links,
		projectLabels:     cfg.ProjectLabels,
		defaultProject:    cfg.DefaultProjectLabel,
		dueDateOffsetDays: cfg.DueDateOffsetDays,
		sync:              cfg.ProcessSync,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
