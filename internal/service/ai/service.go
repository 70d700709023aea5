package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/mirrorpersona/backend/internal/config"
	"github.com/mirrorpersona/backend/internal/model/chat"
)

// ErrProviderUnavailable signals that the generation provider failed on
// every attempt of a turn. Callers surface it as a service failure.
var ErrProviderUnavailable = errors.New("generation provider unavailable")

const (
	maxRetries = 2
	retryDelay = time.Second
)

// Service drives the text-generation provider for conversation turns.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the generation chain against the configured
// provider model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// Generate produces a reply for the user message given the persona
// instruction and the prior history. Transient provider failures are
// retried up to maxRetries times with a linearly increasing delay;
// after the final failure the error wraps ErrProviderUnavailable.
//
// An empty reply is a valid, non-error outcome: the provider answered
// but produced no text. That case is never retried, the caller's
// fallback path owns it.
func (s *Service) Generate(ctx context.Context, instruction string, history []chat.Message, userMessage string) (string, error) {
	input := map[string]any{
		"system":  instruction,
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}

	var response *schema.Message
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("generation aborted: %w", ctx.Err())
			case <-time.After(time.Duration(attempt) * retryDelay):
			}
		}

		response, err = s.chain.Invoke(ctx, input)
		if err == nil {
			break
		}
		log.Printf("[ai] provider error (attempt %d/%d): %v", attempt+1, maxRetries+1, err)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return ExtractText(response), nil
}

// ExtractText digs the textual payload out of a provider response. The
// primary path is the message content; when that is empty the
// multi-part content is walked before concluding the output is empty.
func ExtractText(msg *schema.Message) string {
	if msg == nil {
		return ""
	}

	if text := strings.TrimSpace(msg.Content); text != "" {
		return text
	}

	var builder strings.Builder
	for _, part := range msg.MultiContent {
		if part.Type == schema.ChatMessagePartTypeText {
			builder.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(builder.String())
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chat.RoleModel:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}
	return history
}
