package invoker

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
)

// LambdaAPI is the subset of *lambda.Client used by Invoker
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Invoker hands submissions to an asynchronous invocation of a Lambda function, usually the running one
type Invoker struct {
	client       LambdaAPI
	functionName string
}

// New creates an Invoker for functionName
func New(client LambdaAPI, functionName string) *Invoker {
	return &Invoker{
		client:       client,
		functionName: functionName,
	}
}

// Enqueue returns once Lambda has accepted the event; the submission is filed by that invocation
func (i *Invoker) Enqueue(ctx context.Context, sub model.Submission) error {
	payload, err := json.Marshal(model.SubmissionEvent{Submission: &sub})
	if err != nil {
		return goerr.Wrap(err, "failed to marshal submission event")
	}

	out, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(i.functionName),
		InvocationType: types.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to invoke lambda",
			goerr.V("function", i.functionName),
			goerr.V("user", sub.UserID))
	}

	logger.GetLogger().Info("submission enqueued",
		zap.String("function", i.functionName),
		zap.String("user", sub.UserID),
		zap.Int32("status", out.StatusCode))
	return nil
}
