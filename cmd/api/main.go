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

	"github.com/warelay/backend/internal/config"
	"github.com/warelay/backend/internal/handler"
	messageModel "github.com/warelay/backend/internal/model/message"
	templateModel "github.com/warelay/backend/internal/model/template"
	"github.com/warelay/backend/internal/service/ai"
	"github.com/warelay/backend/internal/service/dispatch"
	"github.com/warelay/backend/internal/service/inbound"
	"github.com/warelay/backend/internal/service/whatsapp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize the in-memory stores. Both live for the process lifetime
	// and are handed to the handlers, never reached through globals.
	messages := messageModel.NewLog()
	templates := templateModel.NewMemoryStore()

	// Live mode only when a real (non-placeholder) token is configured.
	var provider dispatch.Provider
	if cfg.WhatsApp.LiveEnabled() {
		client, err := whatsapp.NewClient(
			cfg.WhatsApp.PhoneNumberID,
			cfg.WhatsApp.AccessToken,
			whatsapp.WithBaseURL(cfg.WhatsApp.BaseURL),
		)
		if err != nil {
			log.Fatalf("failed to initialize WhatsApp client: %v", err)
		}
		provider = client
		log.Println("WhatsApp Cloud API client initialized, live mode enabled")
	} else {
		log.Println("WhatsApp credentials not configured, running in demo mode")
	}

	// Optional Ark-backed demo replies.
	var replier dispatch.Replier
	if cfg.AI.Enabled() {
		responder, err := ai.NewResponder(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI responder: %v", err)
			log.Println("continuing with canned demo replies")
		} else {
			replier = responder
			log.Println("AI responder initialized successfully")
		}
	}

	dispatcher := dispatch.NewService(messages, provider, replier)
	normalizer := inbound.NewNormalizer(messages)

	router := handler.NewRouter(cfg, messages, templates, dispatcher, normalizer)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("WhatsApp demo relay listening on %s", serverCfg.Addr)
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
