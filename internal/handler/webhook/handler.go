// Package webhook receives the provider's verification and event callbacks.
package webhook

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warelay/backend/internal/service/inbound"
	"github.com/warelay/backend/pkg/utils"
)

// Handler serves the /webhook verification handshake and event receiver.
type Handler struct {
	verifyToken string
	normalizer  *inbound.Normalizer
}

// New creates the webhook handler.
func New(verifyToken string, normalizer *inbound.Normalizer) *Handler {
	return &Handler{verifyToken: verifyToken, normalizer: normalizer}
}

// RegisterRoutes wires the webhook routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/webhook", h.handleVerify)
	r.Post("/webhook", h.handleEvent)
}

// handleVerify answers the provider's subscription handshake: echo the
// challenge when the mode is subscribe and the token matches.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		log.Println("[webhook] verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	w.WriteHeader(http.StatusForbidden)
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	var payload inbound.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{"ok": false})
		return
	}

	count, err := h.normalizer.Ingest(payload)
	if err != nil {
		if !errors.Is(err, inbound.ErrInvalidPayload) {
			log.Printf("[webhook] ingest failed: %v", err)
		}
		utils.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{"ok": false})
		return
	}

	log.Printf("[webhook] appended %d inbound record(s)", count)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"received": true})
}
