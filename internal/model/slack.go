package model

// ChatUser is a Slack workspace member as returned by the directory lookup
type ChatUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
}

// Submission holds the raw values a user entered in the request form
type Submission struct {
	UserID      string `json:"user_id"` // submitting user
	TaskName    string `json:"task_name"`
	TaskSummary string `json:"task_summary"`
	Project     string `json:"project"`               // selected project label, defaulted when nothing is selected
	AssigneeID  string `json:"assignee_id,omitempty"` // selected Slack user, may be empty
	DueDate     string `json:"due_date"`              // raw date picker value, may be empty
}

// SubmissionEvent is the payload of an asynchronous self-invocation that files one submission
type SubmissionEvent struct {
	Submission *Submission `json:"task_submission"`
}
