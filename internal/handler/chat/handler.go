package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirrorpersona/backend/internal/middleware"
	"github.com/mirrorpersona/backend/internal/service/conversation"
	"github.com/mirrorpersona/backend/internal/service/session"
	"github.com/mirrorpersona/backend/pkg/utils"
)

// Handler exposes the conversation endpoints.
type Handler struct {
	orchestrator *conversation.Orchestrator
	sessions     *session.Store
	gate         *session.Gate
}

// New creates the chat handler. The gate is only consulted for
// introspection; turn admission happens inside the orchestrator.
func New(orchestrator *conversation.Orchestrator, sessions *session.Store, gate *session.Gate) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		sessions:     sessions,
		gate:         gate,
	}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleTurn)
	r.Get("/get-chat-history", h.handleHistory)
	r.Post("/new-chat", h.handleReset)
	r.Get("/debug-session", h.handleDebug)
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	var payload struct {
		Message string `json:"message"`
	}
	if r.Body != nil {
		// An absent or empty body decodes as io.EOF and is fine; the
		// orchestrator substitutes the standard opening line. Anything
		// else is a malformed request.
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.orchestrator.Converse(r.Context(), sess, payload.Message)
	if err != nil {
		h.respondTurnError(w, err)
		return
	}

	audio := any(result.AudioURL)
	if result.AudioURL == "" {
		audio = nil
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"response": result.Text,
		"audioUrl": audio,
		"history":  result.History,
	})
}

func (h *Handler) respondTurnError(w http.ResponseWriter, err error) {
	if busy, ok := conversation.IsBusy(err); ok {
		seconds := int(math.Ceil(busy.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
		utils.RespondError(w, http.StatusTooManyRequests, "Still processing previous message. Please wait.")
		return
	}
	if errors.Is(err, conversation.ErrPersonaNotSet) {
		utils.RespondError(w, http.StatusBadRequest, "Persona not set. Please create a persona first.")
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, "Failed to get a response from the AI.")
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.RespondJSON(w, http.StatusOK, []struct{}{})
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.sessions.History(sess))
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "Could not clear session.")
		return
	}
	h.sessions.Reset(sess.ID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Chat session cleared."})
}

func (h *Handler) handleDebug(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	// Every field goes through its owning lock: persona and history
	// through the store, the admission lock through the gate.
	persona, personaSet := h.sessions.Persona(sess)
	busy, busySince := h.gate.Status(sess)
	history := h.sessions.History(sess)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"personaSet":        personaSet,
		"personaName":       persona.Name,
		"busy":              busy,
		"busySince":         busySince,
		"chatHistoryLength": len(history),
		"voice":             persona.Voice,
		"chatHistory":       history,
	})
}
