package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mirrorpersona/backend/internal/analysis/fallback"
	"github.com/mirrorpersona/backend/internal/config"
	"github.com/mirrorpersona/backend/internal/handler"
	"github.com/mirrorpersona/backend/internal/model/voice"
	"github.com/mirrorpersona/backend/internal/service/ai"
	"github.com/mirrorpersona/backend/internal/service/conversation"
	"github.com/mirrorpersona/backend/internal/service/persona"
	"github.com/mirrorpersona/backend/internal/service/profile"
	"github.com/mirrorpersona/backend/internal/service/session"
	"github.com/mirrorpersona/backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	catalog := voice.DefaultCatalog()
	sessions := session.NewStore(catalog)
	gate := session.NewGate(session.DefaultStaleAfter)

	var generator conversation.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Fatalf("failed to initialize generation service: %v", err)
		}
		generator = aiService
		log.Println("generation service initialized")
	} else {
		log.Println("generation credentials not configured, conversation turns will fail until ARK_API_KEY (or AK/SK) and ARK_MODEL are set")
	}

	var speechService *speech.Service
	if cfg.Speech.Enabled {
		speechService = speech.NewService(speech.NewClient(cfg.Speech))
		log.Println("speech service initialized")
	} else {
		log.Println("speech credentials not configured, replies will carry no audio")
	}

	orchestrator := conversation.New(sessions, gate, generator, speechService, fallback.NewPicker())
	personas := persona.NewService(profile.NewClient(cfg.Profile), catalog, sessions)

	router := handler.NewRouter(handler.Deps{
		Sessions:     sessions,
		Gate:         gate,
		Catalog:      catalog,
		Orchestrator: orchestrator,
		Personas:     personas,
		StaticDir:    cfg.Server.StaticDir,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("persona backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
