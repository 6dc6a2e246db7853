package resolver

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
)

// Directory looks up chat users
type Directory interface {
	LookupUser(ctx context.Context, userID string) (*model.ChatUser, error)
}

// UserSearcher finds tracker accounts by username
type UserSearcher interface {
	FindUsersByName(ctx context.Context, username string) ([]model.TrackerUser, error)
}

// IdentityResolver maps a Slack user to a Jira account through their email address
type IdentityResolver struct {
	directory         Directory
	users             UserSearcher
	fallbackAccountID string
}

// NewIdentityResolver creates an IdentityResolver. fallbackAccountID replaces the "unknown" answer of the user search.
func NewIdentityResolver(directory Directory, users UserSearcher, fallbackAccountID string) *IdentityResolver {
	return &IdentityResolver{
		directory:         directory,
		users:             users,
		fallbackAccountID: fallbackAccountID,
	}
}

// Resolve returns the Jira account id of a Slack user. Nothing is cached.
func (r *IdentityResolver) Resolve(ctx context.Context, chatUserID string) (string, error) {
	user, err := r.directory.LookupUser(ctx, chatUserID)
	if err != nil {
		return "", err
	}

	username := UsernameFromEmail(user.Email)
	users, err := r.users.FindUsersByName(ctx, username)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", goerr.New("no jira user matches the slack user's email",
			goerr.T(model.TagNotFound),
			goerr.V("slack_user_id", chatUserID),
			goerr.V("username", username))
	}

	accountID := users[0].AccountID
	if accountID == model.UnknownAccountID {
		logger.GetLogger().Info("jira account unknown, using fallback",
			zap.String("slack_user_id", chatUserID),
			zap.String("username", username))
		return r.fallbackAccountID, nil
	}
	return accountID, nil
}

// UsernameFromEmail returns the local part of an email address
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
