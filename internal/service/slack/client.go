package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
)

// Client wraps the Slack Web API calls the bot makes
type Client struct {
	api *slack.Client
}

// New creates a Client. Extra options are passed to slack.New, e.g. slack.OptionAPIURL in tests.
func New(token string, options ...slack.Option) *Client {
	return &Client{api: slack.New(token, options...)}
}

// LookupUser fetches a workspace member by id. The directory's error message is surfaced as is.
func (c *Client) LookupUser(ctx context.Context, userID string) (*model.ChatUser, error) {
	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up slack user",
			goerr.T(model.TagDirectoryLookup),
			goerr.V("slack_user_id", userID))
	}

	if user.Profile.Email == "" {
		return nil, goerr.New("email not available for slack user",
			goerr.T(model.TagDirectoryLookup),
			goerr.V("slack_user_id", userID))
	}

	name := user.Profile.DisplayName
	if name == "" {
		name = user.RealName
	}
	logger.GetLogger().Debug("slack user found", zap.String("slack_user_id", user.ID), zap.String("name", name))

	return &model.ChatUser{
		ID:          user.ID,
		DisplayName: name,
		Email:       user.Profile.Email,
	}, nil
}

// OpenView opens a modal for the given trigger
func (c *Client) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if _, err := c.api.OpenViewContext(ctx, triggerID, view); err != nil {
		return goerr.Wrap(err, "failed to open view", goerr.V("callback_id", view.CallbackID))
	}
	return nil
}

// SendDirectMessage posts text to the user's direct message channel
func (c *Client) SendDirectMessage(ctx context.Context, userID string, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, userID, slack.MsgOptionText(text, false))
	if err != nil {
		logger.GetLogger().Error("failed to post message", zap.String("user", userID), zap.Error(err))
		return goerr.Wrap(err, "failed to post direct message", goerr.V("user", userID))
	}
	return nil
}

// SendMessage posts text to a channel, in a thread when threadTS is set
func (c *Client) SendMessage(ctx context.Context, channel string, text string, threadTS string) error {
	options := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		options = append(options, slack.MsgOptionTS(threadTS))
	}
	if _, _, err := c.api.PostMessageContext(ctx, channel, options...); err != nil {
		logger.GetLogger().Error("failed to post message", zap.String("channel", channel), zap.Error(err))
		return goerr.Wrap(err, "failed to post message", goerr.V("channel", channel))
	}
	return nil
}
