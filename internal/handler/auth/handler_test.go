package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/warelay/backend/internal/config"
)

func setupRouter() *chi.Mux {
	handler := New(config.AuthConfig{Email: "reviewer@test.com", Password: "Password123"})

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestLoginValidCredentials(t *testing.T) {
	r := setupRouter()

	payload := []byte(`{"email":"reviewer@test.com","password":"Password123"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		OK   bool `json:"ok"`
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !body.OK || body.User.Email != "reviewer@test.com" {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	r := setupRouter()

	payload := []byte(`{"email":"reviewer@test.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.OK || body.Error == "" {
		t.Fatalf("unexpected error envelope: %+v", body)
	}
}

func TestLoginInvalidBody(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`not json`)))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
