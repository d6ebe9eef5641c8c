package line

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Messenger delivers generated text back to the platform. Both modes are
// side-effecting and independently failable; callers own the decision to
// swallow delivery errors.
type Messenger interface {
	// Reply sends text on a one-time reply token.
	Reply(ctx context.Context, replyToken, text string) error
	// Push sends text unsolicited to a known recipient.
	Push(ctx context.Context, to, text string) error
}

type sdkMessenger struct {
	client *linebot.Client
	log    *slog.Logger
}

// NewMessenger creates a Messenger backed by the LINE Messaging API.
func NewMessenger(channelSecret, channelToken string, log *slog.Logger) (Messenger, error) {
	client, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE client: %w", err)
	}
	return &sdkMessenger{
		client: client,
		log:    log.With("component", "line_messenger"),
	}, nil
}

func (m *sdkMessenger) Reply(ctx context.Context, replyToken, text string) error {
	_, err := m.client.ReplyMessage(replyToken, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return fmt.Errorf("reply delivery failed: %w", err)
	}
	m.log.DebugContext(ctx, "Reply delivered")
	return nil
}

func (m *sdkMessenger) Push(ctx context.Context, to, text string) error {
	_, err := m.client.PushMessage(to, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return fmt.Errorf("push delivery failed: %w", err)
	}
	m.log.DebugContext(ctx, "Push delivered", "recipient", to)
	return nil
}
