package chat

import (
	"time"

	"github.com/mirrorpersona/backend/internal/model/voice"
)

// Session captures one transient anonymous conversation with a persona.
// It is created empty on first contact, populated by persona creation,
// mutated once per turn by the orchestrator, and destroyed by an explicit
// reset. Sessions are never persisted.
type Session struct {
	ID string `json:"id"`

	// PersonaInstruction is non-empty iff a persona has been created.
	// Every conversation turn requires it.
	PersonaInstruction string `json:"-"`
	PersonaName        string `json:"personaName,omitempty"`
	PersonaHandle      string `json:"personaHandle,omitempty"`

	Voice voice.Voice `json:"voice"`

	// History is append-only; insertion order is conversation order.
	History []Message `json:"history"`

	// Busy and BusySince form the admission-control lock state. They are
	// only touched through the session gate.
	Busy      bool      `json:"-"`
	BusySince time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// HasPersona reports whether persona creation has run for this session.
func (s *Session) HasPersona() bool {
	return s.PersonaInstruction != ""
}
