package prompt_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hirokit/sakurabot/internal/prompt"
	"github.com/hirokit/sakurabot/internal/store"
)

const (
	testPersona = "You are Sakura, a caring companion."
	testHint    = "Keep your reply to three to five short sentences."
)

func TestConversationContainsAllParts(t *testing.T) {
	t.Parallel()

	history := []store.Turn{
		{Speaker: store.SpeakerUser, Text: "good morning"},
		{Speaker: store.SpeakerAssistant, Text: "morning! sleep well?"},
	}

	got := prompt.Conversation(testPersona, testHint, history, "what's for breakfast?")

	for _, want := range []string{
		testPersona,
		testHint,
		"User: good morning",
		"Sakura: morning! sleep well?",
		"what's for breakfast?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestConversationPreservesHistoryOrder(t *testing.T) {
	t.Parallel()

	history := []store.Turn{
		{Speaker: store.SpeakerUser, Text: "first"},
		{Speaker: store.SpeakerAssistant, Text: "second"},
		{Speaker: store.SpeakerUser, Text: "third"},
	}

	got := prompt.Conversation(testPersona, testHint, history, "new")

	iFirst := strings.Index(got, "first")
	iSecond := strings.Index(got, "second")
	iThird := strings.Index(got, "third")
	if iFirst < 0 || iSecond < 0 || iThird < 0 {
		t.Fatalf("history turns missing from prompt:\n%s", got)
	}
	if !(iFirst < iSecond && iSecond < iThird) {
		t.Errorf("history order not preserved: %d %d %d", iFirst, iSecond, iThird)
	}
}

func TestConversationIsPure(t *testing.T) {
	t.Parallel()

	history := []store.Turn{{Speaker: store.SpeakerUser, Text: "hello"}}
	a := prompt.Conversation(testPersona, testHint, history, "again")
	b := prompt.Conversation(testPersona, testHint, history, "again")
	if a != b {
		t.Errorf("same inputs produced different prompts:\n%s\n---\n%s", a, b)
	}
}

func TestConversationEmptyHistory(t *testing.T) {
	t.Parallel()

	got := prompt.Conversation(testPersona, testHint, nil, "hello")
	if !strings.Contains(got, "hello") {
		t.Errorf("prompt missing new message:\n%s", got)
	}
	if !strings.Contains(got, testPersona) {
		t.Errorf("prompt missing persona:\n%s", got)
	}
}

func TestMoodCarriesNoConversationContent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	got := prompt.Mood(testPersona, "One short sentence only.", now)

	if !strings.Contains(got, testPersona) {
		t.Errorf("mood prompt missing persona:\n%s", got)
	}
	if !strings.Contains(got, "One short sentence only.") {
		t.Errorf("mood prompt missing length constraint:\n%s", got)
	}
	for _, leaked := range []string{"User:", "Sakura:", "[Conversation so far]", "[New message]"} {
		if strings.Contains(got, leaked) {
			t.Errorf("mood prompt contains conversation content %q:\n%s", leaked, got)
		}
	}
}

func TestMoodIsTimeFlavored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hour int
		want string
	}{
		{hour: 3, want: "middle of the night"},
		{hour: 8, want: "morning"},
		{hour: 14, want: "afternoon"},
		{hour: 19, want: "evening"},
		{hour: 23, want: "late at night"},
	}

	for _, tc := range tests {
		now := time.Date(2025, 6, 1, tc.hour, 0, 0, 0, time.UTC)
		got := prompt.Mood(testPersona, testHint, now)
		if !strings.Contains(got, tc.want) {
			t.Errorf("hour %d: mood prompt missing %q:\n%s", tc.hour, tc.want, got)
		}
	}
}

func TestPersonaLoader(t *testing.T) {
	t.Parallel()

	t.Run("reads template file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "persona.txt")
		if err := os.WriteFile(path, []byte("  You are Sakura.\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		got, err := prompt.NewPersonaLoader(path).Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if got != "You are Sakura." {
			t.Errorf("Load() = %q", got)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		_, err := prompt.NewPersonaLoader(filepath.Join(t.TempDir(), "missing.txt")).Load()
		if err == nil {
			t.Error("Load() expected error for missing file")
		}
	})

	t.Run("empty file is an error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "persona.txt")
		if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := prompt.NewPersonaLoader(path).Load()
		if err == nil {
			t.Error("Load() expected error for empty template")
		}
	})
}
