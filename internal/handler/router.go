package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/warelay/backend/internal/config"
	authHandler "github.com/warelay/backend/internal/handler/auth"
	messageHandler "github.com/warelay/backend/internal/handler/message"
	templateHandler "github.com/warelay/backend/internal/handler/template"
	webhookHandler "github.com/warelay/backend/internal/handler/webhook"
	middlewarePkg "github.com/warelay/backend/internal/middleware"
	messageModel "github.com/warelay/backend/internal/model/message"
	templateModel "github.com/warelay/backend/internal/model/template"
	"github.com/warelay/backend/internal/service/dispatch"
	"github.com/warelay/backend/internal/service/inbound"
	webassets "github.com/warelay/backend/web"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg *config.Config, messages *messageModel.Log, templates templateModel.Store, dispatcher *dispatch.Service, normalizer *inbound.Normalizer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	authH := authHandler.New(cfg.Auth)
	messageH := messageHandler.New(messages, dispatcher)
	templateH := templateHandler.New(templates, dispatcher)
	webhookH := webhookHandler.New(cfg.WhatsApp.VerifyToken, normalizer)

	r.Route("/api", func(api chi.Router) {
		authH.RegisterRoutes(api)
		messageH.RegisterRoutes(api)
		templateH.RegisterRoutes(api)
	})

	webhookH.RegisterRoutes(r)

	// Embedded chat UI at the root.
	r.Handle("/*", http.FileServer(http.FS(webassets.Files)))

	return r
}
