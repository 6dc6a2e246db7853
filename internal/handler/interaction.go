package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"jira_task_bot/internal/form"
	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
)

// HandleInteractions serves shortcuts, modal submissions and block actions.
// View submissions are acknowledged before the issue is filed.
func (h *SlackHandler) HandleInteractions(c *gin.Context) {
	logger := logger.GetLogger()

	payload := c.PostForm("payload")
	if payload == "" {
		logger.Error("empty interaction payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload is required"})
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		logger.Error("failed to unmarshal slack interaction", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse interaction"})
		return
	}

	switch callback.Type {
	case slack.InteractionTypeShortcut:
		h.handleShortcut(c.Request.Context(), callback)

	case slack.InteractionTypeViewSubmission:
		if callback.View.CallbackID != form.CallbackID {
			logger.Warn("unknown view", zap.String("callback_id", callback.View.CallbackID))
			break
		}
		sub := form.Extract(callback, h.defaultProject)
		sub.DueDate = form.NormalizeDueDate(sub.DueDate, h.now(), h.dueDateOffsetDays)
		h.enqueue(c.Request.Context(), sub)

	case slack.InteractionTypeBlockActions:
		// selections inside the open modal need nothing but the ack
		for _, action := range callback.ActionCallback.BlockActions {
			logger.Debug("block action acknowledged", zap.String("action_id", action.ActionID))
		}

	default:
		logger.Warn("unsupported interaction type", zap.String("type", string(callback.Type)))
	}

	c.Status(http.StatusOK)
}

func (h *SlackHandler) handleShortcut(ctx context.Context, callback slack.InteractionCallback) {
	if callback.CallbackID != form.CallbackID {
		logger.GetLogger().Warn("unknown shortcut", zap.String("callback_id", callback.CallbackID))
		return
	}
	if err := h.messenger.OpenView(ctx, callback.TriggerID, form.NewModal(h.projectLabels)); err != nil {
		logger.GetLogger().Error("failed to open request form",
			zap.Error(err),
			zap.Any("values", goerr.Values(err)),
			zap.String("user", callback.User.ID))
	}
}

// enqueue hands the submission to the queue when one is configured, otherwise to dispatch
func (h *SlackHandler) enqueue(ctx context.Context, sub model.Submission) {
	if h.queue == nil {
		h.dispatch(ctx, sub.UserID, func(ctx context.Context) error {
			return h.submitTask(ctx, sub)
		})
		return
	}
	if err := h.queue.Enqueue(ctx, sub); err != nil {
		h.handleError(context.WithoutCancel(ctx), sub.UserID, err)
	}
}

// ProcessSubmission files a submission that was queued earlier. Failures are reported to the submitter.
func (h *SlackHandler) ProcessSubmission(ctx context.Context, sub model.Submission) {
	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()
	if err := h.submitTask(ctx, sub); err != nil {
		h.handleError(ctx, sub.UserID, err)
	}
}

// submitTask files the issue and tells the submitter where it is
func (h *SlackHandler) submitTask(ctx context.Context, sub model.Submission) error {
	result, err := h.tasks.Run(ctx, sub)
	if err != nil {
		return err
	}

	logger.GetLogger().Info("task created",
		zap.String("user", sub.UserID),
		zap.String("issue_key", result.Issue.Key))

	// the issue exists; a lost confirmation must not be reported as a failed task
	if err := h.messenger.SendDirectMessage(ctx, sub.UserID, h.doneMessage(result)); err != nil {
		logger.GetLogger().Error("failed to confirm created task",
			zap.Error(err),
			zap.String("user", sub.UserID),
			zap.String("issue_key", result.Issue.Key))
	}
	return nil
}
