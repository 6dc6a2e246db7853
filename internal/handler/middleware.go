package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"jira_task_bot/internal/logger"
)

// HandleSlackRetry is a middleware that handles Slack retry requests
func HandleSlackRetry() gin.HandlerFunc {
	return func(c *gin.Context) {
		retryNum := c.GetHeader("X-Slack-Retry-Num")
		retryReason := c.GetHeader("X-Slack-Retry-Reason")

		if retryNum != "" {
			logger.GetLogger().Info("slack retry request",
				zap.String("retry_num", retryNum),
				zap.String("retry_reason", retryReason))
			c.String(http.StatusOK, "ok (retry skipped)")
			c.Abort()
			return
		}
		c.Next()
	}
}

// VerifySignature rejects requests that are not signed with the app's signing secret
func VerifySignature(signingSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			logger.GetLogger().Error("failed to read request body", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		// reattach request body for the handlers
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if err := verifyPayload(c.Request.Header, body, signingSecret); err != nil {
			logger.GetLogger().Warn("rejected unsigned slack request", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
		c.Next()
	}
}

func verifyPayload(header http.Header, payload []byte, signingSecret string) error {
	verifier, err := slack.NewSecretsVerifier(header, signingSecret)
	if err != nil {
		return goerr.Wrap(err, "failed to create secrets verifier")
	}
	if _, err := verifier.Write(payload); err != nil {
		return goerr.Wrap(err, "failed to write request body to verifier")
	}
	if err := verifier.Ensure(); err != nil {
		return goerr.Wrap(err, "invalid slack signature")
	}
	return nil
}
