package sanitize

import (
	"strings"
	"testing"
)

func TestCleanDiscardsDisclosureOnlyReply(t *testing.T) {
	result := Clean("As an AI, I cannot help you with that.")
	if !result.Modified {
		t.Fatal("expected disclosure rules to fire")
	}
	if result.Text != "" {
		t.Fatalf("expected empty text, got %q", result.Text)
	}
}

func TestCleanLeavesInnocuousTextAlone(t *testing.T) {
	input := "haha yeah totally, I cannot believe that happened"
	result := Clean(input)
	if result.Modified {
		t.Fatal("expected no rule to fire")
	}
	if result.Text != input {
		t.Fatalf("text changed: %q", result.Text)
	}
}

func TestCleanTrimsResidualPunctuation(t *testing.T) {
	result := Clean("honestly that sounds fun! I'm an AI so I can't join though.")
	if !result.Modified {
		t.Fatal("expected disclosure rules to fire")
	}
	if strings.Contains(strings.ToLower(result.Text), "an ai") {
		t.Fatalf("disclosure survived: %q", result.Text)
	}
	if result.Text == "" {
		t.Fatalf("expected surviving content, got empty text")
	}
	if strings.HasSuffix(result.Text, "!") || strings.HasPrefix(result.Text, ",") {
		t.Fatalf("edge punctuation not trimmed: %q", result.Text)
	}
}

func TestCleanRemovesGreetingBoilerplate(t *testing.T) {
	result := Clean("How can I help you today?")
	if !result.Modified {
		t.Fatal("expected anchored boilerplate rule to fire")
	}
	if strings.Contains(strings.ToLower(result.Text), "how can i help") {
		t.Fatalf("boilerplate survived: %q", result.Text)
	}
}

func TestStripNamePrefix(t *testing.T) {
	got := StripNamePrefix("Natalie: hey, what's up?", "natalie")
	if got != "hey, what's up?" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestStripNamePrefixNoMatch(t *testing.T) {
	input := "hey, what's up?"
	if got := StripNamePrefix(input, "Natalie"); got != input {
		t.Fatalf("text changed: %q", got)
	}
}

func TestStripNamePrefixEmptyName(t *testing.T) {
	input := "hey there"
	if got := StripNamePrefix(input, ""); got != input {
		t.Fatalf("text changed: %q", got)
	}
}
