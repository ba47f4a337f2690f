package template

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	messageModel "github.com/warelay/backend/internal/model/message"
	templateModel "github.com/warelay/backend/internal/model/template"
	"github.com/warelay/backend/internal/service/dispatch"
)

func setupRouter() (*chi.Mux, templateModel.Store, *messageModel.Log) {
	log := messageModel.NewLog()
	store := templateModel.NewMemoryStore()
	dispatcher := dispatch.NewService(log, nil, nil)
	handler := New(store, dispatcher)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, store, log
}

func TestCreateTemplate(t *testing.T) {
	r, store, _ := setupRouter()

	payload := []byte(`{"name":"greet","body":"Hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/templates", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		OK       bool                   `json:"ok"`
		Template templateModel.Template `json:"template"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !body.OK || body.Template.ID == "" || body.Template.Name != "greet" {
		t.Fatalf("unexpected response: %+v", body)
	}
	if body.Template.Language != templateModel.DefaultLanguage {
		t.Fatalf("expected default language, got %q", body.Template.Language)
	}

	items := store.List()
	if len(items) != 1 || items[0].Body != "Hello" {
		t.Fatalf("template not stored: %+v", items)
	}
}

func TestCreateTemplateMissingFields(t *testing.T) {
	r, store, _ := setupRouter()

	for _, payload := range []string{`{"body":"Hello"}`, `{"name":"greet"}`} {
		req := httptest.NewRequest(http.MethodPost, "/templates", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()

		r.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, resp.Code)
		}
	}
	if len(store.List()) != 0 {
		t.Fatal("invalid creates must not store templates")
	}
}

func TestListTemplates(t *testing.T) {
	r, store, _ := setupRouter()

	if _, err := store.Create("greet", "", "Hello"); err != nil {
		t.Fatalf("Create err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		OK        bool                     `json:"ok"`
		Templates []templateModel.Template `json:"templates"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !body.OK || len(body.Templates) != 1 || body.Templates[0].Name != "greet" {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestDeleteTemplate(t *testing.T) {
	r, store, _ := setupRouter()

	tpl, err := store.Create("greet", "", "Hello")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/templates/"+tpl.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if len(store.List()) != 0 {
		t.Fatal("deleted template still listed")
	}
}

func TestDeleteTemplateNotFound(t *testing.T) {
	r, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodDelete, "/templates/missing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSendTemplate(t *testing.T) {
	r, store, log := setupRouter()

	tpl, err := store.Create("greet", "", "Hello")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/templates/"+tpl.ID+"/send", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		OK   bool `json:"ok"`
		Sent bool `json:"sent"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !body.OK || !body.Sent {
		t.Fatalf("unexpected response: %+v", body)
	}

	snapshot := log.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected out + reply records, got %d", len(snapshot))
	}
	if snapshot[0].Text != "Hello" {
		t.Fatalf("unexpected outbound text: %q", snapshot[0].Text)
	}

	// Sending must not consume the template.
	if _, ok := store.FindByID(tpl.ID); !ok {
		t.Fatal("template was removed by send")
	}
}

func TestSendTemplateNotFound(t *testing.T) {
	r, _, log := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/templates/missing/send", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if log.Len() != 0 {
		t.Fatalf("not-found send must not append, got %d", log.Len())
	}
}
