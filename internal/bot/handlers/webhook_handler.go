package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirokit/sakurabot/internal/database"
	"github.com/hirokit/sakurabot/internal/line"
	"github.com/hirokit/sakurabot/internal/prompt"
	"github.com/hirokit/sakurabot/internal/store"
)

type webhookHandler struct {
	deps Deps
}

// NewWebhookHandler creates the handler for the inbound LINE webhook. It
// verifies the request signature, then relays each text-message event through
// the conversation store, prompt assembly, generation and reply dispatch.
func NewWebhookHandler(deps Deps) gin.HandlerFunc {
	return webhookHandler{deps}.Handle
}

func (h webhookHandler) Handle(c *gin.Context) {
	deps := h.deps
	log := deps.Logger.With("handler", "webhook")
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		log.ErrorContext(ctx, "Failed to read webhook body", "error", err)
		c.String(http.StatusBadRequest, "failed to read body")
		return
	}

	signature := c.GetHeader(line.SignatureHeader)
	if !line.ValidateSignature(deps.Config.LineChannelSecret, signature, body) {
		log.WarnContext(ctx, "Rejected webhook with invalid signature")
		c.String(http.StatusBadRequest, "invalid signature")
		return
	}

	events, err := line.ParseWebhook(body)
	if err != nil {
		log.ErrorContext(ctx, "Failed to parse webhook body", "error", err)
		c.String(http.StatusBadRequest, "malformed body")
		return
	}

	for _, ev := range line.TextEvents(events) {
		h.handleTextMessage(ctx, ev)
	}

	c.String(http.StatusOK, "OK")
}

// handleTextMessage runs the relay pipeline for one event. Ordering is fixed:
// the user's turn is appended before prompt assembly, and the assistant's turn
// is appended before dispatch regardless of delivery outcome.
func (h webhookHandler) handleTextMessage(ctx context.Context, ev line.TextEvent) {
	deps := h.deps
	log := deps.Logger.With("handler", "webhook", "conversation_id", ev.ConversationID)

	deps.Conversations.Append(ev.ConversationID, store.Turn{Speaker: store.SpeakerUser, Text: ev.Text})
	history := deps.Conversations.Snapshot(ev.ConversationID)

	persona, err := deps.Persona.Load()
	if err != nil {
		log.ErrorContext(ctx, "Persona template unavailable, aborting request", "error", err)
		recordEvent(deps, database.EventPersonaLoadFailed, err.Error())
		return
	}

	assembled := prompt.Conversation(persona, deps.Config.ReplyLengthHint, history, ev.Text)

	genCtx, cancel := context.WithTimeout(ctx, deps.Config.GeminiTimeout)
	reply, err := deps.Gemini.Generate(genCtx, assembled)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Generation failed, substituting fallback", "error", err)
		recordEvent(deps, database.EventGenerationFailed, err.Error())
		reply = deps.Config.FallbackMessage
	}

	// History reflects what was generated, not what was confirmed delivered.
	deps.Conversations.Append(ev.ConversationID, store.Turn{Speaker: store.SpeakerAssistant, Text: reply})

	sendCtx, cancel := context.WithTimeout(ctx, deps.Config.SendTimeout)
	defer cancel()
	if err := deps.Messenger.Reply(sendCtx, ev.ReplyToken, reply); err != nil {
		log.ErrorContext(ctx, "Reply delivery failed", "error", err)
		recordEvent(deps, database.EventDeliveryFailed, err.Error())
	}
}
