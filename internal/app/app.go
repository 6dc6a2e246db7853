package app

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"jira_task_bot/internal/config"
	"jira_task_bot/internal/handler"
	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/resolver"
	"jira_task_bot/internal/service/jira"
	slackservice "jira_task_bot/internal/service/slack"
	"jira_task_bot/internal/storage"
	"jira_task_bot/internal/task"
)

// App holds the wired services shared by the server, Lambda and MCP binaries
type App struct {
	Config     *config.Config
	Slack      *slackservice.Client
	Jira       *jira.Client
	Identities *resolver.IdentityResolver
	Components *resolver.ComponentResolver
	Pipeline   *task.Pipeline
}

// Option adjusts how New builds the App
type Option func(*options)

type options struct {
	slackOptions []slack.Option
	locker       storage.Locker
}

// WithSlackOptions passes options to the Slack API client
func WithSlackOptions(opts ...slack.Option) Option {
	return func(o *options) {
		o.slackOptions = append(o.slackOptions, opts...)
	}
}

// WithLocker replaces the locker chosen from the config
func WithLocker(locker storage.Locker) Option {
	return func(o *options) {
		o.locker = locker
	}
}

// New wires the clients, resolvers and pipeline from cfg
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	jiraClient, err := jira.NewClient(cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create jira client")
	}

	locker := o.locker
	if locker == nil {
		if locker, err = newLocker(ctx, cfg); err != nil {
			return nil, err
		}
	}

	slackClient := slackservice.New(cfg.SlackBotToken, o.slackOptions...)
	identities := resolver.NewIdentityResolver(slackClient, jiraClient, cfg.JiraFallbackAccountID)
	components := resolver.NewComponentResolver(jiraClient, locker)
	submitter := task.NewSubmitter(jiraClient, cfg.JiraProjectID, cfg.JiraIssueTypeID)

	return &App{
		Config:     cfg,
		Slack:      slackClient,
		Jira:       jiraClient,
		Identities: identities,
		Components: components,
		Pipeline:   task.NewPipeline(identities, components, submitter),
	}, nil
}

// SlackHandler returns the Slack handlers bound to the app's services
func (a *App) SlackHandler(opts ...handler.Option) *handler.SlackHandler {
	return handler.NewSlackHandler(a.Config, a.Slack, a.Pipeline, a.Jira, opts...)
}

// Router returns the gin engine serving the Slack endpoints
func (a *App) Router(opts ...handler.Option) *gin.Engine {
	return handler.NewRouter(a.SlackHandler(opts...), a.Config.SlackSigningSecret)
}

func newLocker(ctx context.Context, cfg *config.Config) (storage.Locker, error) {
	if cfg.LockBucketName == "" {
		logger.GetLogger().Info("using in-process component lock")
		return storage.NewMemoryLocker(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load aws config")
	}
	logger.GetLogger().Info("using s3 component lock",
		zap.String("bucket", cfg.LockBucketName),
		zap.Duration("ttl", cfg.LockTTL))
	return storage.NewS3Locker(s3.NewFromConfig(awsCfg), cfg.LockBucketName, cfg.LockTTL), nil
}
