package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/mirrorpersona/backend/internal/handler/chat"
	personaHandler "github.com/mirrorpersona/backend/internal/handler/persona"
	proxyHandler "github.com/mirrorpersona/backend/internal/handler/proxy"
	"github.com/mirrorpersona/backend/internal/middleware"
	"github.com/mirrorpersona/backend/internal/model/voice"
	personaService "github.com/mirrorpersona/backend/internal/service/persona"
	"github.com/mirrorpersona/backend/internal/service/conversation"
	"github.com/mirrorpersona/backend/internal/service/session"
)

// Deps carries everything the router wires together.
type Deps struct {
	Sessions     *session.Store
	Gate         *session.Gate
	Catalog      voice.Catalog
	Orchestrator *conversation.Orchestrator
	Personas     *personaService.Service
	StaticDir    string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.Session(deps.Sessions))

	chatHandler.New(deps.Orchestrator, deps.Sessions, deps.Gate).RegisterRoutes(r)
	personaHandler.New(deps.Personas, deps.Catalog).RegisterRoutes(r)
	proxyHandler.New().RegisterRoutes(r)

	if deps.StaticDir != "" {
		fs := http.FileServer(http.Dir(deps.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}
