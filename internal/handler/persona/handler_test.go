package persona

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mirrorpersona/backend/internal/middleware"
	"github.com/mirrorpersona/backend/internal/model/voice"
	personaService "github.com/mirrorpersona/backend/internal/service/persona"
	"github.com/mirrorpersona/backend/internal/service/profile"
	"github.com/mirrorpersona/backend/internal/service/session"
)

type stubLookup struct {
	profile *profile.Profile
	err     error
}

func (l *stubLookup) Lookup(_ context.Context, _ string) (*profile.Profile, error) {
	return l.profile, l.err
}

func setupRouter(lookup personaService.ProfileLookup) *chi.Mux {
	catalog := voice.DefaultCatalog()
	store := session.NewStore(catalog)
	handler := New(personaService.NewService(lookup, catalog, store), catalog)

	r := chi.NewRouter()
	r.Use(middleware.Session(store))
	handler.RegisterRoutes(r)
	return r
}

func postJSON(r http.Handler, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestGeneratePersonaSuccess(t *testing.T) {
	r := setupRouter(&stubLookup{profile: &profile.Profile{
		Username:  "nataliedoe",
		FullName:  "Natalie Doe",
		Biography: "she is an actress and a mom",
	}})

	resp := postJSON(r, "/generate-persona", `{"username": "nataliedoe"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		PersonaDetails struct {
			Name    string `json:"name"`
			VoiceID string `json:"voiceId"`
		} `json:"personaDetails"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload.PersonaDetails.Name != "Natalie Doe" {
		t.Fatalf("unexpected name %q", payload.PersonaDetails.Name)
	}
	if v, ok := voice.DefaultCatalog().FindByID(payload.PersonaDetails.VoiceID); !ok || v.Gender != voice.Female {
		t.Fatalf("expected a female voice, got %q", payload.PersonaDetails.VoiceID)
	}
}

func TestGeneratePersonaExplicitVoiceWins(t *testing.T) {
	r := setupRouter(&stubLookup{profile: &profile.Profile{
		Username:  "nataliedoe",
		Biography: "she is an actress and a mom",
	}})

	resp := postJSON(r, "/generate-persona", `{"username": "nataliedoe", "voiceId": "en-US-Marcus"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		PersonaDetails struct {
			VoiceID string `json:"voiceId"`
		} `json:"personaDetails"`
	}
	json.Unmarshal(resp.Body.Bytes(), &payload)
	if payload.PersonaDetails.VoiceID != "en-US-Marcus" {
		t.Fatalf("explicit voice ignored, got %q", payload.PersonaDetails.VoiceID)
	}
}

func TestGeneratePersonaMissingUsername(t *testing.T) {
	r := setupRouter(&stubLookup{})

	resp := postJSON(r, "/generate-persona", `{}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGeneratePersonaLookupFailure(t *testing.T) {
	r := setupRouter(&stubLookup{err: errors.New("upstream down")})

	resp := postJSON(r, "/generate-persona", `{"username": "ghost"}`)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestInstagramPostsStub(t *testing.T) {
	r := setupRouter(&stubLookup{})

	req := httptest.NewRequest(http.MethodGet, "/instagram-posts?username=nataliedoe", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload struct {
		Count  int      `json:"count"`
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload.Count != 0 || len(payload.Images) != 0 {
		t.Fatal("stub endpoint should return an empty image list")
	}
}
