package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"jira_task_bot/internal/logger"
)

// HandleEvents serves the Events API endpoint
func (h *SlackHandler) HandleEvents(c *gin.Context) {
	logger := logger.GetLogger()

	// Read request body
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		logger.Error("empty request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return
	}

	// Parse the Slack event
	eventsAPIEvent, err := slackevents.ParseEvent(
		json.RawMessage(body),
		slackevents.OptionNoVerifyToken(),
	)
	if err != nil {
		logger.Error("failed to parse slack event", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse slack event"})
		return
	}

	switch eventsAPIEvent.Type {
	case slackevents.URLVerification:
		var challenge *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			logger.Error("failed to unmarshal challenge", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse challenge"})
			return
		}
		c.String(http.StatusOK, challenge.Challenge)
		return

	case slackevents.CallbackEvent:
		innerEvent := eventsAPIEvent.InnerEvent
		switch event := innerEvent.Data.(type) {
		case *slackevents.MessageEvent:
			if err := h.handleMessageEvent(c.Request.Context(), event); err != nil {
				logger.Error("failed to handle message event", zap.Error(err))
			}
		default:
			logger.Warn("unsupported event type", zap.String("event_type", fmt.Sprintf("%T", innerEvent.Data)))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
