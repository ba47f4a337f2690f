package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/warelay/backend/internal/config"
	messageModel "github.com/warelay/backend/internal/model/message"
	templateModel "github.com/warelay/backend/internal/model/template"
	"github.com/warelay/backend/internal/service/dispatch"
	"github.com/warelay/backend/internal/service/inbound"
)

func setupRouter() (http.Handler, *messageModel.Log) {
	cfg := &config.Config{
		WhatsApp: config.WhatsAppConfig{VerifyToken: "test-verify-token"},
		Auth:     config.AuthConfig{Email: "reviewer@test.com", Password: "Password123"},
	}
	messages := messageModel.NewLog()
	templates := templateModel.NewMemoryStore()
	dispatcher := dispatch.NewService(messages, nil, nil)
	normalizer := inbound.NewNormalizer(messages)
	return NewRouter(cfg, messages, templates, dispatcher, normalizer), messages
}

func TestRouterSendThenPoll(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/send", bytes.NewReader([]byte(`{"text":"hi"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("send: expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var body struct {
		OK       bool                  `json:"ok"`
		Messages []messageModel.Record `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !body.OK || len(body.Messages) != 2 {
		t.Fatalf("unexpected poll result: %+v", body)
	}
}

func TestRouterWebhookRoutes(t *testing.T) {
	r, log := setupRouter()

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=test-verify-token&hub.challenge=abc", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || resp.Body.String() != "abc" {
		t.Fatalf("verify: got %d %q", resp.Code, resp.Body.String())
	}

	payload := []byte(`{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"messages":[{"from":"123","text":{"body":"hey"}}]}}]}]}`)
	req = httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("event: expected 200, got %d", resp.Code)
	}
	if log.Len() != 1 {
		t.Fatalf("expected 1 inbound record, got %d", log.Len())
	}
}

func TestRouterServesChatUI(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "WhatsApp Demo Relay") {
		t.Fatal("expected the embedded chat UI")
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/messages", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if resp.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected permissive CORS header")
	}
}
