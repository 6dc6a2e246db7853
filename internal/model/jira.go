package model

// TrackerUser is one row of the Jira user bulk migration lookup
type TrackerUser struct {
	Username  string `json:"username"`
	AccountID string `json:"accountId"`
}

// UnknownAccountID is what Jira returns as accountId when no account matches a username
const UnknownAccountID = "unknown"

// Component is a Jira project component
type Component struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProjectKey string `json:"project"`
}

// IssueForm is the fully resolved request, ready to be submitted as a Jira issue
type IssueForm struct {
	TaskName    string `json:"taskName"`
	TaskSummary string `json:"taskSummary"`
	DueDate     string `json:"duedate"`
	ReporterID  string `json:"reporter"`
	AssigneeID  string `json:"assignee"`
	ComponentID string `json:"component"`
}

// CreatedIssue is the acknowledgement Jira returns for a created issue
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// ComponentRequest is the body of POST rest/api/3/component
type ComponentRequest struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	Project             string `json:"project"`
	AssigneeType        string `json:"assigneeType"`
	IsAssigneeTypeValid bool   `json:"isAssigneeTypeValid"`
}

// AssigneeTypeUnassigned leaves new components without a default assignee
const AssigneeTypeUnassigned = "UNASSIGNED"

// IssueRequest is the body of POST rest/api/3/issue
type IssueRequest struct {
	Update map[string]any `json:"update"`
	Fields IssueFields    `json:"fields"`
}

// IssueFields are the fields set on a new issue
type IssueFields struct {
	Summary     string   `json:"summary"`
	IssueType   Ref      `json:"issuetype"`
	Components  []Ref    `json:"components"`
	Project     Ref      `json:"project"`
	Description Document `json:"description"`
	DueDate     string   `json:"duedate"`
	Reporter    Ref      `json:"reporter"`
	Assignee    Ref      `json:"assignee"`
}

// Ref references an existing Jira entity by id
type Ref struct {
	ID string `json:"id"`
}

// Document is an Atlassian Document Format node. The root node has Type "doc" and Version 1.
type Document struct {
	Type    string     `json:"type"`
	Version int        `json:"version,omitempty"`
	Text    string     `json:"text,omitempty"`
	Content []Document `json:"content,omitempty"`
}

// NewParagraphDocument wraps text in a single-paragraph ADF document
func NewParagraphDocument(text string) Document {
	return Document{
		Type:    "doc",
		Version: 1,
		Content: []Document{
			{
				Type: "paragraph",
				Content: []Document{
					{Type: "text", Text: text},
				},
			},
		},
	}
}
