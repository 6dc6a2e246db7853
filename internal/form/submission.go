package form

import (
	"time"

	"github.com/slack-go/slack"

	"jira_task_bot/internal/model"
)

// DateFormat is the canonical due date layout (yyyy-MM-dd)
const DateFormat = "2006-01-02"

// layouts accepted from the date picker or other callers, most specific first
var dueDateLayouts = []string{
	DateFormat,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// Extract reads the submitted form state. An unselected project falls back to defaultProject.
// DueDate is returned raw; see NormalizeDueDate.
func Extract(callback slack.InteractionCallback, defaultProject string) model.Submission {
	sub := model.Submission{
		UserID:  callback.User.ID,
		Project: defaultProject,
	}
	if callback.View.State == nil {
		return sub
	}
	values := callback.View.State.Values

	if action, ok := lookup(values, BlockTaskName, ActionTaskName); ok {
		sub.TaskName = action.Value
	}
	if action, ok := lookup(values, BlockTaskSummary, ActionTaskSummary); ok {
		sub.TaskSummary = action.Value
	}
	if action, ok := lookup(values, BlockProject, ActionProject); ok &&
		action.SelectedOption.Text != nil && action.SelectedOption.Text.Text != "" {
		sub.Project = action.SelectedOption.Text.Text
	}
	if action, ok := lookup(values, BlockAssignee, ActionAssignee); ok {
		sub.AssigneeID = action.SelectedUser
	}
	if action, ok := lookup(values, BlockDeadline, ActionDeadline); ok {
		sub.DueDate = action.SelectedDate
	}
	return sub
}

func lookup(values map[string]map[string]slack.BlockAction, blockID, actionID string) (slack.BlockAction, bool) {
	if block, ok := values[blockID]; ok {
		if action, ok := block[actionID]; ok {
			return action, true
		}
	}
	return slack.BlockAction{}, false
}

// NormalizeDueDate reformats raw as yyyy-MM-dd. Input that does not parse as a date becomes
// now plus offsetDays.
func NormalizeDueDate(raw string, now time.Time, offsetDays int) string {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateFormat)
		}
	}
	return now.AddDate(0, 0, offsetDays).Format(DateFormat)
}
