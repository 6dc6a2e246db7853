package handler

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
)

const processTimeout = 2 * time.Minute

// dispatch runs handler detached from the request, or inline in sync mode
func (h *SlackHandler) dispatch(ctx context.Context, userID string, handler func(ctx context.Context) error) {
	newCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), processTimeout)

	if h.sync {
		defer cancel()
		if err := handler(newCtx); err != nil {
			h.handleError(newCtx, userID, err)
		}
		return
	}

	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				h.handleError(newCtx, userID, goerr.New("panic recovered in background goroutine",
					goerr.V("recover", r),
					goerr.V("stack", string(debug.Stack()))))
			}
		}()

		if err := handler(newCtx); err != nil {
			h.handleError(newCtx, userID, err)
		}
	}()
}

// handleError logs err with its context values and tells the user the task was not created
func (h *SlackHandler) handleError(ctx context.Context, userID string, err error) {
	logger.GetLogger().Error("failed to process submission",
		zap.Error(err),
		zap.String("kind", model.ErrorKind(err)),
		zap.String("user", userID),
		zap.Any("values", goerr.Values(err)))

	if userID == "" {
		return
	}
	// SendDirectMessage logs its own failure
	_ = h.messenger.SendDirectMessage(ctx, userID, failureMessage(err))
}
