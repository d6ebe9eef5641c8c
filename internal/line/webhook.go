package line

import (
	"encoding/json"
	"fmt"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// TextEvent is a text-message webhook event reduced to the fields the relay
// needs. Non-text events are dropped during extraction.
type TextEvent struct {
	// ConversationID is the opaque per-user key issued by the platform.
	ConversationID string
	// ReplyToken is valid only for the webhook request that carried it.
	ReplyToken string
	Text       string
}

type webhookBody struct {
	Events []*linebot.Event `json:"events"`
}

// ParseWebhook decodes a verified webhook body into platform events.
func ParseWebhook(body []byte) ([]*linebot.Event, error) {
	var payload webhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode webhook body: %w", err)
	}
	return payload.Events, nil
}

// TextEvents extracts text-message events with a usable source and reply
// token. All other event kinds are ignored without error.
func TextEvents(events []*linebot.Event) []TextEvent {
	var out []TextEvent
	for _, ev := range events {
		if ev == nil || ev.Type != linebot.EventTypeMessage || ev.Source == nil {
			continue
		}
		msg, ok := ev.Message.(*linebot.TextMessage)
		if !ok || ev.Source.UserID == "" {
			continue
		}
		out = append(out, TextEvent{
			ConversationID: ev.Source.UserID,
			ReplyToken:     ev.ReplyToken,
			Text:           msg.Text,
		})
	}
	return out
}
