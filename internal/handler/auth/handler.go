// Package auth implements the minimal reviewer login endpoint.
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warelay/backend/internal/config"
	"github.com/warelay/backend/pkg/utils"
)

// Handler checks the configured reviewer credentials.
type Handler struct {
	cfg config.AuthConfig
}

// New creates the auth handler.
func New(cfg config.AuthConfig) *Handler {
	return &Handler{cfg: cfg}
}

// RegisterRoutes wires the login route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Email != h.cfg.Email || payload.Password != h.cfg.Password {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"user": map[string]string{"email": payload.Email},
	})
}
