// Package conversation drives one full persona conversation turn:
// admission, history bookkeeping, generation, sanitization, fallback
// and best-effort speech synthesis.
package conversation

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/mirrorpersona/backend/internal/analysis/fallback"
	"github.com/mirrorpersona/backend/internal/analysis/sanitize"
	"github.com/mirrorpersona/backend/internal/model/chat"
	"github.com/mirrorpersona/backend/internal/model/voice"
	"github.com/mirrorpersona/backend/internal/service/session"
)

// DefaultOpening substitutes for a missing turn message.
const DefaultOpening = "hey!"

// Generator produces a reply from the persona instruction, prior
// history and the new user message.
type Generator interface {
	Generate(ctx context.Context, instruction string, history []chat.Message, userMessage string) (string, error)
}

// Narrator attaches audio to final reply text; failures surface as an
// empty locator, never as an error.
type Narrator interface {
	Narrate(ctx context.Context, text string, v voice.Voice) string
}

// Result is the outcome of a successful turn.
type Result struct {
	Text     string
	AudioURL string
	History  []chat.Message
}

// Orchestrator composes the turn pipeline. All session access goes
// through the store and the gate; nothing here reads session fields
// directly.
type Orchestrator struct {
	sessions *session.Store
	gate     *session.Gate
	gen      Generator
	speech   Narrator
	fallback *fallback.Picker
	now      func() time.Time
}

// New wires an orchestrator. speech may be nil when synthesis is not
// configured; turns then simply carry no audio.
func New(sessions *session.Store, gate *session.Gate, gen Generator, speech Narrator, picker *fallback.Picker) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		gate:     gate,
		gen:      gen,
		speech:   speech,
		fallback: picker,
		now:      time.Now,
	}
}

// Converse runs one turn against the session.
//
// The turn is rejected up front when no persona is set or another turn
// holds the gate. Once admitted, the user message is appended (dedup
// checked), generation runs to completion, the reply is sanitized and,
// when nothing usable remains, replaced by a canned fallback. Synthesis
// failures never fail the turn. The gate is released on every exit
// path; an exhausted-retry generation failure surfaces after the user
// message has been preserved in history.
func (o *Orchestrator) Converse(ctx context.Context, sess *chat.Session, message string) (*Result, error) {
	// Persona fields are snapshotted under the store lock so a
	// concurrent persona creation cannot tear them mid-turn.
	persona, ok := o.sessions.Persona(sess)
	if !ok {
		return nil, ErrPersonaNotSet
	}
	if o.gen == nil {
		return nil, ErrGeneratorNotConfigured
	}

	granted, retryAfter := o.gate.TryAcquire(sess, o.now())
	if !granted {
		log.Printf("[chat] request rejected: session %s busy", sess.ID)
		return nil, &BusyError{RetryAfter: retryAfter}
	}
	defer o.gate.Release(sess)

	userMessage := strings.TrimSpace(message)
	if userMessage == "" {
		userMessage = DefaultOpening
	}

	o.sessions.Append(sess, chat.Message{Role: chat.RoleUser, Text: userMessage})

	// The history handed to the generator stops before the new user
	// message; the message itself rides along as the query.
	prior := o.sessions.History(sess)
	if n := len(prior); n > 0 {
		prior = prior[:n-1]
	}

	raw, err := o.gen.Generate(ctx, persona.Instruction, prior, userMessage)
	if err != nil {
		return nil, err
	}

	text := o.refine(raw, sess.ID, persona, userMessage)

	audioURL := ""
	if o.speech != nil {
		audioURL = o.speech.Narrate(ctx, text, persona.Voice)
	}

	o.sessions.Append(sess, chat.Message{Role: chat.RoleModel, Text: text, AudioURL: audioURL})

	return &Result{
		Text:     text,
		AudioURL: audioURL,
		History:  o.sessions.History(sess),
	}, nil
}

// refine cleans the raw generation output and substitutes a canned
// reply when nothing usable remains.
func (o *Orchestrator) refine(raw, sessionID string, persona session.PersonaSnapshot, userMessage string) string {
	cleaned := sanitize.Clean(raw)
	if cleaned.Modified {
		log.Printf("[chat] disclosure phrasing removed from reply for session=%s", sessionID)
	}

	text := sanitize.StripNamePrefix(cleaned.Text, persona.Name)
	if text == "" {
		text = o.fallback.Pick(userMessage, persona.Name, persona.Handle)
		log.Printf("[chat] empty reply, used fallback for session=%s", sessionID)
	}
	return text
}
