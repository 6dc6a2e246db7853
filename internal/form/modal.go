package form

import (
	"fmt"

	"github.com/slack-go/slack"
)

// CallbackID identifies both the shortcut and the modal it opens
const CallbackID = "reportTask"

// Block and action ids of the request form
const (
	BlockTaskName     = "taskName"
	ActionTaskName    = "taskName-action"
	BlockTaskSummary  = "taskSummary"
	ActionTaskSummary = "taskSummary-action"
	BlockProject      = "project"
	ActionProject     = "project-action"
	BlockAssignee     = "assignee"
	ActionAssignee    = "assignee-action"
	BlockDeadline     = "dateline"
	ActionDeadline    = "dateline-action"
)

const (
	taskNameMaxLength    = 255
	taskSummaryMaxLength = 3000
)

// NewModal builds the request form. Each project label becomes an option with value "value-<index>".
func NewModal(projectLabels []string) slack.ModalViewRequest {
	taskName := slack.NewPlainTextInputBlockElement(nil, ActionTaskName)
	taskName.MaxLength = taskNameMaxLength

	taskSummary := slack.NewPlainTextInputBlockElement(nil, ActionTaskSummary)
	taskSummary.Multiline = true
	taskSummary.MaxLength = taskSummaryMaxLength

	options := make([]*slack.OptionBlockObject, 0, len(projectLabels))
	for i, label := range projectLabels {
		options = append(options, slack.NewOptionBlockObject(
			fmt.Sprintf("value-%d", i),
			plainText(label, false),
			nil,
		))
	}
	project := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, "*Project*", false, false),
		nil,
		slack.NewAccessory(slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plainText("Select an item", true), ActionProject, options...)),
	)
	project.BlockID = BlockProject

	assignee := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, "*Assignee*", false, false),
		nil,
		slack.NewAccessory(slack.NewOptionsSelectBlockElement(slack.OptTypeUser, plainText("Select a user", true), ActionAssignee)),
	)
	assignee.BlockID = BlockAssignee

	datePicker := slack.NewDatePickerBlockElement(ActionDeadline)
	datePicker.Placeholder = plainText("Select a date", true)
	deadline := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, "*Pick a date for the deadline.*", false, false),
		nil,
		slack.NewAccessory(datePicker),
	)
	deadline.BlockID = BlockDeadline

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: CallbackID,
		Title:      plainText("Request Form", true),
		Submit:     plainText("Submit", true),
		Close:      plainText("Cancel", true),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewInputBlock(BlockTaskName, plainText("Task Name", true), nil, taskName),
				slack.NewInputBlock(BlockTaskSummary, plainText("Task Summary", true), nil, taskSummary),
				project,
				assignee,
				deadline,
			},
		},
	}
}

func plainText(text string, emoji bool) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, emoji, false)
}
