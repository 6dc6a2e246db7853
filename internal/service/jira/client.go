package jira

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"jira_task_bot/internal/config"
	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
)

const (
	userSearchPath = "rest/api/3/user/bulk/migration"
	componentPath  = "rest/api/3/component"
	issuePath      = "rest/api/3/issue"

	requestTimeout = 30 * time.Second
)

// Client handles interactions with the Jira Cloud REST API (v3)
type Client struct {
	client     *jira.Client
	baseURL    string
	projectID  int
	projectKey string
}

// NewClient creates a Jira client authenticated with the configured basic auth credential
func NewClient(cfg *config.Config) (*Client, error) {
	username, password := cfg.JiraCredentials()
	tp := jira.BasicAuthTransport{
		Username: username,
		Password: password,
	}
	httpClient := tp.Client()
	httpClient.Timeout = requestTimeout

	client, err := jira.NewClient(httpClient, cfg.JiraDomain)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create jira client", goerr.V("domain", cfg.JiraDomain))
	}

	baseURL := cfg.JiraDomain
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{
		client:     client,
		baseURL:    baseURL,
		projectID:  cfg.JiraProjectID,
		projectKey: cfg.JiraProjectKey,
	}, nil
}

// ProjectID returns the numeric id of the configured project
func (c *Client) ProjectID() int {
	return c.projectID
}

// ProjectKey returns the key of the configured project
func (c *Client) ProjectKey() string {
	return c.projectKey
}

// IssueURL returns the browse link of an issue
func (c *Client) IssueURL(key string) string {
	return c.baseURL + "browse/" + key
}

// FindUsersByName looks up accounts by their legacy username
func (c *Client) FindUsersByName(ctx context.Context, username string) ([]model.TrackerUser, error) {
	query := url.Values{"username": []string{username}}
	var users []model.TrackerUser
	if err := c.call(ctx, http.MethodGet, userSearchPath+"?"+query.Encode(), nil, &users, goerr.T(model.TagTrackerLookup)); err != nil {
		return nil, err
	}
	logger.GetLogger().Info("find user by name response", zap.String("username", username), zap.Int("count", len(users)))
	return users, nil
}

// ListComponents returns every component of the configured project
func (c *Client) ListComponents(ctx context.Context) ([]model.Component, error) {
	path := "rest/api/3/project/" + strconv.Itoa(c.projectID) + "/components"
	var components []jira.ProjectComponent
	if err := c.call(ctx, http.MethodGet, path, nil, &components, goerr.T(model.TagTrackerLookup)); err != nil {
		return nil, err
	}
	logger.GetLogger().Info("fetch components response", zap.Int("count", len(components)))

	result := make([]model.Component, 0, len(components))
	for _, component := range components {
		result = append(result, toComponent(component))
	}
	return result, nil
}

// CreateComponent creates an unassigned component in the configured project
func (c *Client) CreateComponent(ctx context.Context, name string) (*model.Component, error) {
	body := model.ComponentRequest{
		Name:                name,
		Description:         name,
		Project:             c.projectKey,
		AssigneeType:        model.AssigneeTypeUnassigned,
		IsAssigneeTypeValid: false,
	}
	var created jira.ProjectComponent
	if err := c.call(ctx, http.MethodPost, componentPath, body, &created, goerr.T(model.TagTrackerCreate)); err != nil {
		return nil, err
	}
	logger.GetLogger().Info("create component response", zap.String("id", created.ID), zap.String("name", created.Name))

	component := toComponent(created)
	return &component, nil
}

// CreateIssue submits a new issue
func (c *Client) CreateIssue(ctx context.Context, body model.IssueRequest) (*model.CreatedIssue, error) {
	var created jira.Issue
	if err := c.call(ctx, http.MethodPost, issuePath, body, &created, goerr.T(model.TagIssueCreate)); err != nil {
		return nil, err
	}
	logger.GetLogger().Info("create issue response", zap.String("id", created.ID), zap.String("key", created.Key))

	return &model.CreatedIssue{
		ID:   created.ID,
		Key:  created.Key,
		Self: created.Self,
	}, nil
}

// call sends one request and decodes the JSON answer into v. Non-2xx answers become an error tagged
// with the tag option whose message is the response status text.
func (c *Client) call(ctx context.Context, method, path string, body, v any, tag goerr.Option) error {
	req, err := c.client.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return goerr.Wrap(err, "failed to build jira request", tag, goerr.V("path", path))
	}

	resp, err := c.client.Do(req, v)
	if err != nil {
		if resp == nil {
			return goerr.Wrap(err, "jira request failed", tag, goerr.V("path", path))
		}
		if resp.StatusCode < http.StatusMultipleChoices {
			return goerr.Wrap(err, "failed to decode jira response", tag, goerr.V("path", path))
		}
		return goerr.Wrap(jira.NewJiraError(resp, err), http.StatusText(resp.StatusCode),
			tag,
			goerr.V("path", path),
			goerr.V("method", method),
			goerr.V("status", resp.StatusCode))
	}
	return nil
}

func toComponent(c jira.ProjectComponent) model.Component {
	return model.Component{
		ID:         c.ID,
		Name:       c.Name,
		ProjectKey: c.Project,
	}
}
