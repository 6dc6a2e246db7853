package task

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
)

// IdentityResolver maps a Slack user id to a Jira account id
type IdentityResolver interface {
	Resolve(ctx context.Context, chatUserID string) (string, error)
}

// ComponentResolver maps a project label to a Jira component id
type ComponentResolver interface {
	ResolveOrCreate(ctx context.Context, label string) (string, error)
}

// Pipeline resolves the people and component of a submission and files the issue.
// Each stage runs only when the previous one succeeded.
type Pipeline struct {
	identities IdentityResolver
	components ComponentResolver
	submitter  *Submitter
}

// Result is what a successful run produced
type Result struct {
	Form  model.IssueForm
	Issue *model.CreatedIssue
}

// NewPipeline creates a Pipeline
func NewPipeline(identities IdentityResolver, components ComponentResolver, submitter *Submitter) *Pipeline {
	return &Pipeline{
		identities: identities,
		components: components,
		submitter:  submitter,
	}
}

// Run files the submission. DueDate must already be normalized.
func (p *Pipeline) Run(ctx context.Context, sub model.Submission) (*Result, error) {
	if err := validate(sub); err != nil {
		return nil, err
	}

	reporter, err := p.identities.Resolve(ctx, sub.UserID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve reporter", goerr.V("slack_user_id", sub.UserID))
	}

	assigneeID := sub.AssigneeID
	if assigneeID == "" {
		assigneeID = sub.UserID
	}
	assignee, err := p.identities.Resolve(ctx, assigneeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve assignee", goerr.V("slack_user_id", assigneeID))
	}

	componentID, err := p.components.ResolveOrCreate(ctx, sub.Project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve component", goerr.V("project", sub.Project))
	}

	form := model.IssueForm{
		TaskName:    sub.TaskName,
		TaskSummary: sub.TaskSummary,
		DueDate:     sub.DueDate,
		ReporterID:  reporter,
		AssigneeID:  assignee,
		ComponentID: componentID,
	}
	logger.GetLogger().Info("issue form assembled", zap.Any("form", form))

	issue, err := p.submitter.Submit(ctx, form)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create issue")
	}

	return &Result{Form: form, Issue: issue}, nil
}

func validate(sub model.Submission) error {
	var missing []string
	if sub.UserID == "" {
		missing = append(missing, "user")
	}
	if strings.TrimSpace(sub.TaskName) == "" {
		missing = append(missing, "task name")
	}
	if strings.TrimSpace(sub.TaskSummary) == "" {
		missing = append(missing, "task summary")
	}
	if sub.DueDate == "" {
		missing = append(missing, "due date")
	}
	if len(missing) > 0 {
		return goerr.New("required fields are empty: "+strings.Join(missing, ", "),
			goerr.T(model.TagInvalidRequest))
	}
	return nil
}
