package model

import "github.com/m-mizutani/goerr/v2"

var (
	// Slack directory returned an error or an unusable user
	TagDirectoryLookup = goerr.NewTag("directory_lookup")
	// Jira read call (user search, component list) failed
	TagTrackerLookup = goerr.NewTag("tracker_lookup")
	// Jira component creation failed
	TagTrackerCreate = goerr.NewTag("tracker_create")
	// Jira issue creation failed
	TagIssueCreate = goerr.NewTag("issue_create")
	// Jira user search returned no rows
	TagNotFound = goerr.NewTag("not_found")
	// Request payload or form values are unusable
	TagInvalidRequest = goerr.NewTag("invalid_request")
	// Component lock could not be acquired in time
	TagLockTimeout = goerr.NewTag("lock_timeout")
)

var errorKinds = []struct {
	has  func(error) bool
	name string
}{
	{func(err error) bool { return goerr.HasTag(err, TagDirectoryLookup) }, "DirectoryLookupError"},
	{func(err error) bool { return goerr.HasTag(err, TagTrackerLookup) }, "TrackerLookupError"},
	{func(err error) bool { return goerr.HasTag(err, TagTrackerCreate) }, "TrackerCreateError"},
	{func(err error) bool { return goerr.HasTag(err, TagIssueCreate) }, "IssueCreateError"},
	{func(err error) bool { return goerr.HasTag(err, TagNotFound) }, "NotFoundError"},
	{func(err error) bool { return goerr.HasTag(err, TagInvalidRequest) }, "InvalidRequestError"},
	{func(err error) bool { return goerr.HasTag(err, TagLockTimeout) }, "LockTimeoutError"},
}

// ErrorKind names the failure class of err, or "UnknownError" when it carries no known tag
func ErrorKind(err error) string {
	for _, kind := range errorKinds {
		if kind.has(err) {
			return kind.name
		}
	}
	return "UnknownError"
}
