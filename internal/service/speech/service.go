// Package speech attaches synthesized audio to conversation turns.
// Synthesis is strictly best-effort: no failure here may ever fail a
// turn.
package speech

import (
	"context"
	"log"

	"github.com/mirrorpersona/backend/internal/model/voice"
)

// Synthesizer is the provider surface Service wraps.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, v voice.Voice) (string, error)
}

// Service wraps a synthesis provider with the swallow-and-log policy.
type Service struct {
	client Synthesizer
}

// NewService wraps the given provider client.
func NewService(client Synthesizer) *Service {
	return &Service{client: client}
}

// Narrate synthesizes text with the given voice. Every failure is
// logged and reported as an empty locator.
func (s *Service) Narrate(ctx context.Context, text string, v voice.Voice) string {
	if s == nil || s.client == nil || text == "" {
		return ""
	}

	locator, err := s.client.Synthesize(ctx, text, v)
	if err != nil {
		log.Printf("[speech] synthesis failed, continuing without audio: %v", err)
		return ""
	}
	return locator
}
