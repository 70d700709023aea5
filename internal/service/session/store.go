package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mirrorpersona/backend/internal/model/chat"
	"github.com/mirrorpersona/backend/internal/model/voice"
)

// Store keeps live conversation sessions in memory, keyed by the opaque
// id carried in the client's cookie. Sessions are ephemeral; a process
// restart loses them by design.
type Store struct {
	mu       sync.RWMutex
	catalog  voice.Catalog
	sessions map[string]*chat.Session
}

// NewStore bootstraps an empty in-memory store.
func NewStore(catalog voice.Catalog) *Store {
	return &Store{
		catalog:  catalog,
		sessions: make(map[string]*chat.Session),
	}
}

// NewID issues a fresh session identifier.
func (s *Store) NewID() string {
	return uuid.NewString()
}

// GetOrCreate returns the session for id, creating an empty one on
// first contact.
func (s *Store) GetOrCreate(id string) *chat.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess
	}

	sess := &chat.Session{
		ID:        id,
		Voice:     s.catalog.Default(),
		History:   make([]chat.Message, 0, 16),
		CreatedAt: time.Now().UTC(),
	}
	s.sessions[id] = sess
	return sess
}

// Reset destroys the session's state entirely. Subsequent requests with
// the same cookie behave as a fresh session.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// InstallPersona populates the session after a successful persona
// creation: instruction, identity, voice. History is cleared. The
// admission lock belongs to the gate and is never touched here; an
// orphaned lock ages out through the gate's staleness window.
func (s *Store) InstallPersona(sess *chat.Session, instruction, name, handle string, v voice.Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.PersonaInstruction = instruction
	sess.PersonaName = name
	sess.PersonaHandle = handle
	sess.Voice = v
	sess.History = sess.History[:0]
}

// PersonaSnapshot is a consistent read of the persona-controlled
// session fields. Turns work from a snapshot so a concurrent persona
// creation can never hand them a half-written persona.
type PersonaSnapshot struct {
	Instruction string
	Name        string
	Handle      string
	Voice       voice.Voice
}

// Persona captures the session's persona fields under the store lock.
// The boolean reports whether persona creation has run; the voice in
// the snapshot is valid either way.
func (s *Store) Persona(sess *chat.Session) (PersonaSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := PersonaSnapshot{
		Instruction: sess.PersonaInstruction,
		Name:        sess.PersonaName,
		Handle:      sess.PersonaHandle,
		Voice:       sess.Voice,
	}
	return snap, sess.PersonaInstruction != ""
}

// Append adds a message to the session history unless it would violate
// the dedup invariant against the last entry. Returns whether the entry
// was actually appended.
func (s *Store) Append(sess *chat.Session, msg chat.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(sess.History); n > 0 && sess.History[n-1].Duplicates(msg) {
		return false
	}
	sess.History = append(sess.History, msg)
	return true
}

// History returns a copy of the session's message log, empty for a
// session with no turns yet.
func (s *Store) History(sess *chat.Session) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]chat.Message, len(sess.History))
	copy(copied, sess.History)
	return copied
}
