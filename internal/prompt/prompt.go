// Package prompt assembles text prompts for the generation backend.
// Assembly is pure string composition; the same inputs always yield the
// same output.
package prompt

import (
	"strings"
	"time"

	"github.com/hirokit/sakurabot/internal/store"
)

const (
	userLabel      = "User"
	assistantLabel = "Sakura"

	moodInstruction = "Send one short, spontaneous message to check in on your companion, suited to the time of day. Do not reference any earlier conversation."
)

// Conversation merges the persona template, a length constraint, the recent
// conversation history and the new inbound message into a single prompt.
// History turns are rendered in chronological order, one per line.
func Conversation(persona, lengthHint string, history []store.Turn, newMessage string) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n")
	b.WriteString(lengthHint)
	b.WriteString("\n\n[Conversation so far]\n")
	for _, turn := range history {
		b.WriteString(speakerLabel(turn.Speaker))
		b.WriteString(": ")
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	b.WriteString("\n[New message]\n")
	b.WriteString(newMessage)
	b.WriteString("\n")
	return b.String()
}

// Mood builds the prompt for an unsolicited proactive message. It carries no
// conversation history and no inbound message, only the persona, an
// instruction to produce one short time-flavored remark, and a stricter
// length constraint.
func Mood(persona, lengthHint string, now time.Time) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\nIt is ")
	b.WriteString(timeOfDay(now.Hour()))
	b.WriteString(" right now. ")
	b.WriteString(moodInstruction)
	b.WriteString("\n\n")
	b.WriteString(lengthHint)
	b.WriteString("\n")
	return b.String()
}

func speakerLabel(s store.Speaker) string {
	if s == store.SpeakerAssistant {
		return assistantLabel
	}
	return userLabel
}

func timeOfDay(hour int) string {
	switch {
	case hour < 5:
		return "the middle of the night"
	case hour < 11:
		return "morning"
	case hour < 17:
		return "afternoon"
	case hour < 22:
		return "evening"
	default:
		return "late at night"
	}
}
