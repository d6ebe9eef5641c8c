package line_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/hirokit/sakurabot/internal/line"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	t.Parallel()

	const secret = "channel-secret"
	body := []byte(`{"events":[]}`)

	tests := []struct {
		name      string
		secret    string
		signature string
		body      []byte
		want      bool
	}{
		{
			name:      "valid signature",
			secret:    secret,
			signature: sign(secret, body),
			body:      body,
			want:      true,
		},
		{
			name:      "wrong secret",
			secret:    secret,
			signature: sign("other-secret", body),
			body:      body,
			want:      false,
		},
		{
			name:      "tampered body",
			secret:    secret,
			signature: sign(secret, body),
			body:      []byte(`{"events":[{}]}`),
			want:      false,
		},
		{
			name:      "empty signature",
			secret:    secret,
			signature: "",
			body:      body,
			want:      false,
		},
		{
			name:      "signature is not base64",
			secret:    secret,
			signature: "not-base64!!!",
			body:      body,
			want:      false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := line.ValidateSignature(tc.secret, tc.signature, tc.body); got != tc.want {
				t.Errorf("ValidateSignature() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseWebhookAndTextEvents(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"destination": "Uxxx",
		"events": [
			{
				"type": "message",
				"replyToken": "token-1",
				"source": {"type": "user", "userId": "user-1"},
				"timestamp": 1718000000000,
				"mode": "active",
				"message": {"type": "text", "id": "100", "text": "hello"}
			},
			{
				"type": "message",
				"replyToken": "token-2",
				"source": {"type": "user", "userId": "user-2"},
				"timestamp": 1718000000001,
				"mode": "active",
				"message": {"type": "sticker", "id": "101", "packageId": "1", "stickerId": "2"}
			},
			{
				"type": "follow",
				"replyToken": "token-3",
				"source": {"type": "user", "userId": "user-3"},
				"timestamp": 1718000000002,
				"mode": "active"
			}
		]
	}`)

	events, err := line.ParseWebhook(body)
	if err != nil {
		t.Fatalf("ParseWebhook() error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("ParseWebhook() returned %d events, want 3", len(events))
	}

	texts := line.TextEvents(events)
	if len(texts) != 1 {
		t.Fatalf("TextEvents() returned %d events, want 1 (only the text message)", len(texts))
	}
	got := texts[0]
	if got.ConversationID != "user-1" || got.ReplyToken != "token-1" || got.Text != "hello" {
		t.Errorf("TextEvents()[0] = %+v", got)
	}
}

func TestParseWebhookMalformedBody(t *testing.T) {
	t.Parallel()

	if _, err := line.ParseWebhook([]byte("not json")); err == nil {
		t.Error("ParseWebhook() expected error for malformed body")
	}
}
