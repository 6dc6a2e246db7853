package handler

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"jira_task_bot/internal/model"
	"jira_task_bot/internal/task"
)

const doneText = "Done!!!"

const defaultErrorMessage = "❌ Something went wrong while creating your task. Please try again later. ```Error: %s```"

const invalidRequestMessage = "❌ Your task was not created. ```%s```"

// doneMessage confirms the submission, with a link when Jira answered with a key
func (h *SlackHandler) doneMessage(result *task.Result) string {
	if result == nil || result.Issue == nil || result.Issue.Key == "" {
		return doneText
	}
	return fmt.Sprintf("%s <%s|%s>", doneText, h.links.IssueURL(result.Issue.Key), result.Issue.Key)
}

func failureMessage(err error) string {
	if goerr.HasTag(err, model.TagInvalidRequest) {
		return fmt.Sprintf(invalidRequestMessage, err.Error())
	}
	return fmt.Sprintf(defaultErrorMessage, err.Error())
}
