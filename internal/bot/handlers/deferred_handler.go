package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirokit/sakurabot/internal/database"
	"github.com/hirokit/sakurabot/internal/prompt"
)

type deferredHandler struct {
	deps Deps
	now  func() time.Time
}

// NewDeferredSendHandler creates the handler the task queue invokes to push a
// mood-only generated message to the fixed recipient. The queue delivers
// at least once; invocations are independent and duplicates are not
// deduplicated, so a queue retry can produce a second send. The handler
// answers 200 on attempted completion so the queue never retries cosmetic
// failures.
func NewDeferredSendHandler(deps Deps) gin.HandlerFunc {
	return deferredHandler{deps: deps, now: time.Now}.Handle
}

func (h deferredHandler) Handle(c *gin.Context) {
	deps := h.deps
	log := deps.Logger.With("handler", "deferred_send")
	ctx := c.Request.Context()

	now := h.now().In(deps.Config.Location())

	persona, err := deps.Persona.Load()
	if err != nil {
		log.ErrorContext(ctx, "Persona template unavailable, skipping proactive send", "error", err)
		recordEvent(deps, database.EventPersonaLoadFailed, err.Error())
		c.String(http.StatusOK, "OK")
		return
	}

	assembled := prompt.Mood(persona, deps.Config.MoodLengthHint, now)

	genCtx, cancel := context.WithTimeout(ctx, deps.Config.GeminiTimeout)
	text, err := deps.Gemini.Generate(genCtx, assembled)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Generation failed, substituting fallback", "error", err)
		recordEvent(deps, database.EventGenerationFailed, err.Error())
		text = deps.Config.FallbackMessage
	}

	sendCtx, cancel := context.WithTimeout(ctx, deps.Config.SendTimeout)
	defer cancel()
	if err := deps.Messenger.Push(sendCtx, deps.Config.PushRecipientID, text); err != nil {
		log.ErrorContext(ctx, "Push delivery failed", "error", err)
		recordEvent(deps, database.EventDeliveryFailed, err.Error())
	} else {
		log.InfoContext(ctx, "Proactive message delivered", "hour", now.Hour())
	}

	c.String(http.StatusOK, "OK")
}
