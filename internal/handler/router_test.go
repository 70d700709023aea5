package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mirrorpersona/backend/internal/analysis/fallback"
	"github.com/mirrorpersona/backend/internal/middleware"
	chatModel "github.com/mirrorpersona/backend/internal/model/chat"
	"github.com/mirrorpersona/backend/internal/model/voice"
	"github.com/mirrorpersona/backend/internal/service/conversation"
	personaService "github.com/mirrorpersona/backend/internal/service/persona"
	"github.com/mirrorpersona/backend/internal/service/profile"
	"github.com/mirrorpersona/backend/internal/service/session"
)

type fixedLookup struct {
	profile *profile.Profile
}

func (l *fixedLookup) Lookup(_ context.Context, _ string) (*profile.Profile, error) {
	return l.profile, nil
}

type fixedGenerator struct {
	reply string
}

func (g *fixedGenerator) Generate(_ context.Context, _ string, _ []chatModel.Message, _ string) (string, error) {
	return g.reply, nil
}

type failingNarrator struct{}

func (failingNarrator) Narrate(_ context.Context, _ string, _ voice.Voice) string {
	return ""
}

// TestFullConversationFlow exercises persona creation followed by a
// first turn whose generated reply breaks character and whose
// synthesis fails.
func TestFullConversationFlow(t *testing.T) {
	catalog := voice.DefaultCatalog()
	store := session.NewStore(catalog)
	gate := session.NewGate(30 * time.Second)
	picker := fallback.NewPickerWithSource(func(n int) int { return 0 })

	lookup := &fixedLookup{profile: &profile.Profile{
		Username:  "johnactor",
		FullName:  "John Actor",
		Biography: "he is an actor, husband, and father",
		AvatarURL: "https://cdn.example/avatar.jpg",
	}}

	router := NewRouter(Deps{
		Sessions:     store,
		Gate:         gate,
		Catalog:      catalog,
		Orchestrator: conversation.New(store, gate, &fixedGenerator{reply: "Hey! I'm an AI here to help."}, failingNarrator{}, picker),
		Personas:     personaService.NewService(lookup, catalog, store),
	})

	cookie := &http.Cookie{Name: middleware.CookieName, Value: "e2e-session"}

	// Persona creation assigns a male voice from the bio.
	body := []byte(`{"username": "johnactor"}`)
	req := httptest.NewRequest(http.MethodPost, "/generate-persona", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("persona creation: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		PersonaDetails struct {
			VoiceID string `json:"voiceId"`
		} `json:"personaDetails"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid creation payload: %v", err)
	}
	if v, ok := catalog.FindByID(created.PersonaDetails.VoiceID); !ok || v.Gender != voice.Male {
		t.Fatalf("expected a male voice, got %q", created.PersonaDetails.VoiceID)
	}

	// First turn: disclosure reply gets replaced, synthesis failure
	// still yields a successful response with null audio.
	req = httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(`{"message": "hey!"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("turn: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var turn struct {
		Response string              `json:"response"`
		AudioURL *string             `json:"audioUrl"`
		History  []chatModel.Message `json:"history"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &turn); err != nil {
		t.Fatalf("invalid turn payload: %v", err)
	}

	lower := strings.ToLower(turn.Response)
	if strings.Contains(lower, "an ai") || strings.Contains(lower, "assist") {
		t.Fatalf("disclosure phrasing survived: %q", turn.Response)
	}
	if turn.Response == "" {
		t.Fatal("expected a non-empty reply")
	}
	if turn.AudioURL != nil {
		t.Fatalf("expected null audioUrl, got %q", *turn.AudioURL)
	}
	if len(turn.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(turn.History))
	}
}

func TestGetVoicesListsCatalog(t *testing.T) {
	catalog := voice.DefaultCatalog()
	store := session.NewStore(catalog)
	gate := session.NewGate(0)
	router := NewRouter(Deps{
		Sessions:     store,
		Gate:         gate,
		Catalog:      catalog,
		Orchestrator: conversation.New(store, gate, &fixedGenerator{}, nil, fallback.NewPicker()),
		Personas:     personaService.NewService(&fixedLookup{}, catalog, store),
	})

	req := httptest.NewRequest(http.MethodGet, "/get-voices", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Male   []voice.Voice `json:"male"`
		Female []voice.Voice `json:"female"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if len(payload.Male) != 3 || len(payload.Female) != 3 {
		t.Fatalf("unexpected catalog sizes: %d male, %d female", len(payload.Male), len(payload.Female))
	}
}
