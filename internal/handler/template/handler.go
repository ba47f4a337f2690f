// Package template exposes template CRUD and template sends.
package template

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	templateModel "github.com/warelay/backend/internal/model/template"
	"github.com/warelay/backend/internal/service/dispatch"
	"github.com/warelay/backend/pkg/utils"
)

// Handler serves the /api/templates routes.
type Handler struct {
	templates  templateModel.Store
	dispatcher *dispatch.Service
}

// New creates the template handler.
func New(templates templateModel.Store, dispatcher *dispatch.Service) *Handler {
	return &Handler{templates: templates, dispatcher: dispatcher}
}

// RegisterRoutes wires the template routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/templates", h.handleCreate)
	r.Get("/templates", h.handleList)
	r.Delete("/templates/{id}", h.handleDelete)
	r.Post("/templates/{id}/send", h.handleSend)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Language string `json:"language"`
		Body     string `json:"body"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := h.templates.Create(payload.Name, payload.Language, payload.Body)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"template": tpl,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":        true,
		"templates": h.templates.List(),
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.templates.Delete(id); err != nil {
		if errors.Is(err, templateModel.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tpl, ok := h.templates.FindByID(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, templateModel.ErrNotFound.Error())
		return
	}

	if _, err := h.dispatcher.SendTemplate(r.Context(), tpl); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"sent": true,
	})
}
