package ai

import (
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/mirrorpersona/backend/internal/model/chat"
)

func TestExtractTextPrimaryPath(t *testing.T) {
	msg := &schema.Message{Role: schema.Assistant, Content: "  hey there  "}
	if got := ExtractText(msg); got != "hey there" {
		t.Fatalf("ExtractText = %q", got)
	}
}

func TestExtractTextFallsBackToMultiContent(t *testing.T) {
	msg := &schema.Message{
		Role: schema.Assistant,
		MultiContent: []schema.ChatMessagePart{
			{Type: schema.ChatMessagePartTypeText, Text: "part one "},
			{Type: schema.ChatMessagePartTypeImageURL},
			{Type: schema.ChatMessagePartTypeText, Text: "part two"},
		},
	}
	if got := ExtractText(msg); got != "part one part two" {
		t.Fatalf("ExtractText = %q", got)
	}
}

func TestExtractTextEmptyResponse(t *testing.T) {
	if got := ExtractText(&schema.Message{Role: schema.Assistant}); got != "" {
		t.Fatalf("expected empty extraction, got %q", got)
	}
	if got := ExtractText(nil); got != "" {
		t.Fatalf("expected empty extraction for nil message, got %q", got)
	}
}

func TestBuildHistoryMessages(t *testing.T) {
	history := buildHistoryMessages([]chat.Message{
		{Role: chat.RoleUser, Text: "hi"},
		{Role: chat.RoleModel, Text: "hey!"},
		{Role: "system", Text: "ignored"},
	})
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != schema.User || history[1].Role != schema.Assistant {
		t.Fatalf("unexpected roles: %s, %s", history[0].Role, history[1].Role)
	}

	if got := buildHistoryMessages(nil); got != nil {
		t.Fatalf("expected nil for empty history, got %v", got)
	}
}
