package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/m-mizutani/goerr/v2"

	"jira_task_bot/internal/app"
	"jira_task_bot/internal/config"
	"jira_task_bot/internal/handler"
	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
	"jira_task_bot/internal/service/invoker"
)

var (
	ginLambda    *ginadapter.GinLambda
	slackHandler *handler.SlackHandler
)

// handleRequest serves API Gateway requests and the asynchronous invocations that file queued submissions
func handleRequest(ctx context.Context, raw json.RawMessage) (any, error) {
	var event model.SubmissionEvent
	if err := json.Unmarshal(raw, &event); err == nil && event.Submission != nil {
		slackHandler.ProcessSubmission(ctx, *event.Submission)
		return nil, nil
	}

	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, goerr.Wrap(err, "failed to decode api gateway request")
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func setup(a *app.App, queue handler.SubmissionQueue) {
	slackHandler = a.SlackHandler(handler.WithQueue(queue))
	ginLambda = ginadapter.New(handler.NewRouter(slackHandler, a.Config.SlackSigningSecret))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("Failed to load aws config: %v", err)
	}
	// submissions are filed by an asynchronous invocation of this same function
	setup(a, invoker.New(awslambda.NewFromConfig(awsCfg), lambdacontext.FunctionName))

	lambda.Start(handleRequest)
}
