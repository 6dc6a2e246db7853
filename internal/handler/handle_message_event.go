package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack/slackevents"
)

const greetingTrigger = "hello"

// handleMessageEvent answers messages containing "hello"
func (h *SlackHandler) handleMessageEvent(ctx context.Context, ev *slackevents.MessageEvent) error {
	// Ignore messages from bots to prevent loops
	if ev.BotID != "" || ev.SubType == "bot_message" {
		return nil
	}
	if !strings.Contains(ev.Text, greetingTrigger) {
		return nil
	}

	reply := fmt.Sprintf("Hey there <@%s>!", ev.User)
	if ev.SubType != "" {
		reply = "I'm here!"
	}
	return h.messenger.SendMessage(ctx, ev.Channel, reply, "")
}
