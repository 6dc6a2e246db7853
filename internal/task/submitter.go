package task

import (
	"context"
	"strconv"

	"jira_task_bot/internal/model"
)

// IssueCreator sends a create-issue request to Jira
type IssueCreator interface {
	CreateIssue(ctx context.Context, body model.IssueRequest) (*model.CreatedIssue, error)
}

// Submitter turns a resolved IssueForm into a Jira issue
type Submitter struct {
	creator     IssueCreator
	projectID   int
	issueTypeID string
}

// NewSubmitter creates a Submitter for one project and issue type
func NewSubmitter(creator IssueCreator, projectID int, issueTypeID string) *Submitter {
	return &Submitter{
		creator:     creator,
		projectID:   projectID,
		issueTypeID: issueTypeID,
	}
}

// BuildRequest assembles the create-issue body. User input is carried verbatim.
func (s *Submitter) BuildRequest(form model.IssueForm) model.IssueRequest {
	return model.IssueRequest{
		Update: map[string]any{},
		Fields: model.IssueFields{
			Summary:     form.TaskName,
			IssueType:   model.Ref{ID: s.issueTypeID},
			Components:  []model.Ref{{ID: form.ComponentID}},
			Project:     model.Ref{ID: strconv.Itoa(s.projectID)},
			Description: model.NewParagraphDocument(form.TaskSummary),
			DueDate:     form.DueDate,
			Reporter:    model.Ref{ID: form.ReporterID},
			Assignee:    model.Ref{ID: form.AssigneeID},
		},
	}
}

// Submit creates the issue exactly once
func (s *Submitter) Submit(ctx context.Context, form model.IssueForm) (*model.CreatedIssue, error) {
	return s.creator.CreateIssue(ctx, s.BuildRequest(form))
}
