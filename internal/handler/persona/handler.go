package persona

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mirrorpersona/backend/internal/middleware"
	"github.com/mirrorpersona/backend/internal/model/voice"
	"github.com/mirrorpersona/backend/internal/service/persona"
	"github.com/mirrorpersona/backend/internal/service/profile"
	"github.com/mirrorpersona/backend/pkg/utils"
)

// Handler exposes persona creation and the voice catalog.
type Handler struct {
	personas *persona.Service
	catalog  voice.Catalog
}

// New creates the persona handler.
func New(personas *persona.Service, catalog voice.Catalog) *Handler {
	return &Handler{
		personas: personas,
		catalog:  catalog,
	}
}

// RegisterRoutes mounts the persona routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate-persona", h.handleGenerate)
	r.Get("/get-voices", h.handleVoices)
	r.Get("/instagram-posts", h.handlePosts)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	var payload struct {
		Username string `json:"username"`
		VoiceID  string `json:"voiceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Username == "" {
		utils.RespondError(w, http.StatusBadRequest, "Username is required.")
		return
	}

	details, err := h.personas.Create(r.Context(), sess, payload.Username, payload.VoiceID)
	if err != nil {
		if errors.Is(err, profile.ErrUsernameRequired) {
			utils.RespondError(w, http.StatusBadRequest, "Username is required.")
			return
		}
		log.Printf("[persona] creation failed for %q: %v", payload.Username, err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate persona. Please check the username.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message":        "Persona created successfully!",
		"personaDetails": details,
	})
}

func (h *Handler) handleVoices(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog)
}

// handlePosts keeps the photo-grid endpoint alive while the upstream
// integration is unavailable; the chat features work independently.
func (h *Handler) handlePosts(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		utils.RespondError(w, http.StatusBadRequest, "Username is required")
		return
	}

	limit := 12
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"images":   []string{},
		"username": username,
		"count":    0,
		"message":  "Instagram photo integration is currently unavailable. The AI chat features work independently.",
	})
}
