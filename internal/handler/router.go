package handler

import (
	"github.com/gin-gonic/gin"

	"jira_task_bot/internal/logger"
)

// NewRouter mounts the Slack endpoints. Every request is logged; only signed requests reach the handlers.
func NewRouter(h *SlackHandler, signingSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinLogMiddleware())

	slackRoutes := r.Group("/slack", VerifySignature(signingSecret), HandleSlackRetry())
	slackRoutes.POST("/events", h.HandleEvents)
	slackRoutes.POST("/interactions", h.HandleInteractions)

	return r
}
