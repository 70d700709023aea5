// Package persona turns a public profile into a conversational persona
// bound to a session.
package persona

import (
	"context"
	"fmt"
	"log"

	"github.com/mirrorpersona/backend/internal/model/chat"
	"github.com/mirrorpersona/backend/internal/model/voice"
	"github.com/mirrorpersona/backend/internal/service/profile"
	"github.com/mirrorpersona/backend/internal/service/session"
)

// ProfileLookup resolves a username into a public profile.
type ProfileLookup interface {
	Lookup(ctx context.Context, username string) (*profile.Profile, error)
}

// Details is the persona summary returned to the client after creation.
type Details struct {
	Name             string `json:"name"`
	Username         string `json:"username"`
	Bio              string `json:"bio"`
	AvatarURL        string `json:"avatarUrl"`
	VoiceID          string `json:"voiceId"`
	VoiceDescription string `json:"voiceDescription"`
}

// Service creates personas on sessions.
type Service struct {
	profiles ProfileLookup
	catalog  voice.Catalog
	sessions *session.Store
}

// NewService wires the persona creation dependencies.
func NewService(profiles ProfileLookup, catalog voice.Catalog, sessions *session.Store) *Service {
	return &Service{
		profiles: profiles,
		catalog:  catalog,
		sessions: sessions,
	}
}

// Create looks up the profile, resolves a voice (an explicit voiceId
// wins over detection), builds the persona instruction and installs it
// on the session. History is reset as part of installation.
func (s *Service) Create(ctx context.Context, sess *chat.Session, username, voiceID string) (*Details, error) {
	prof, err := s.profiles.Lookup(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate persona: %w", err)
	}

	v := s.catalog.Select(voiceID, prof.Gender, prof.Biography, prof.FullName)
	log.Printf("[persona] selected voice for @%s: %s (%s)", prof.Username, v.ID, v.Description)

	instruction := BuildInstruction(prof)
	s.sessions.InstallPersona(sess, instruction, prof.DisplayName(), prof.Username, v)

	return &Details{
		Name:             prof.DisplayName(),
		Username:         prof.Username,
		Bio:              prof.Biography,
		AvatarURL:        prof.AvatarURL,
		VoiceID:          v.ID,
		VoiceDescription: v.Description,
	}, nil
}
