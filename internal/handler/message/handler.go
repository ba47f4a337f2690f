// Package message exposes the send endpoint, the log poll endpoint and the
// WebSocket feed.
package message

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	messageModel "github.com/warelay/backend/internal/model/message"
	"github.com/warelay/backend/internal/service/dispatch"
	"github.com/warelay/backend/internal/service/whatsapp"
	"github.com/warelay/backend/pkg/utils"
)

// Handler serves the message log and the outbound send path.
type Handler struct {
	messages   *messageModel.Log
	dispatcher *dispatch.Service
	upgrader   websocket.Upgrader
}

// New creates the message handler.
func New(messages *messageModel.Log, dispatcher *dispatch.Service) *Handler {
	return &Handler{
		messages:   messages,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes wires the message routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/send", h.handleSend)
	r.Get("/messages", h.handleListMessages)
	r.Get("/messages/feed", h.handleFeed)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		To   string `json:"to"`
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.dispatcher.Send(r.Context(), payload.To, payload.Text)
	if err != nil {
		h.respondSendError(w, err)
		return
	}

	if result.Demo {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"ok":       true,
			"demo":     true,
			"message":  "Simulated send",
			"botReply": result.Reply.Text,
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"apiRes": result.ProviderResponse,
	})
}

// respondSendError maps dispatcher failures to status codes: validation is a
// client error, everything else is a provider failure.
func (h *Handler) respondSendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dispatch.ErrTextRequired), errors.Is(err, dispatch.ErrDestinationRequired):
		utils.RespondError(w, http.StatusBadRequest, "Missing to or text")
	default:
		var apiErr *whatsapp.APIError
		if errors.As(err, &apiErr) && apiErr.Body != "" {
			utils.RespondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"ok":      false,
				"error":   "WhatsApp API error",
				"details": apiErr.Body,
			})
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "WhatsApp API error")
	}
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"messages": h.messages.Snapshot(),
	})
}

// handleFeed pushes every newly appended record to the client as one JSON
// frame. The connection closes when the client goes away.
func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[feed] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	feed, cancel := h.messages.Subscribe()
	defer cancel()

	// Drain client frames so close handshakes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case record := <-feed:
			if err := conn.WriteJSON(record); err != nil {
				log.Printf("[feed] write failed: %v", err)
				return
			}
		}
	}
}
