package main

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sortflow/sortflow/internal/config"
	"github.com/sortflow/sortflow/internal/crypto"
	"github.com/sortflow/sortflow/internal/mailbox"
	"github.com/sortflow/sortflow/internal/models"
	"github.com/sortflow/sortflow/internal/session"
	ws "github.com/sortflow/sortflow/internal/websocket"
)

func getTestConfig() *config.Config {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	return &config.Config{
		Environment:         "test",
		EncryptionKeyBase64: base64.StdEncoding.EncodeToString(key),
		IdentityDBPath:      ":memory:",
		Port:                "8080",
		SweepInterval:       30 * time.Second,
		SendLatency:         0,
		Timezone:            "UTC",
	}
}

func newTestServer(t *testing.T) (http.Handler, *session.Store) {
	t.Helper()
	cfg := getTestConfig()

	encryptor, err := crypto.NewEncryptor(cfg.EncryptionKeyBase64)
	if err != nil {
		t.Fatalf("Failed to create encryptor: %v", err)
	}

	sessions, err := session.Open(cfg.IdentityDBPath, encryptor)
	if err != nil {
		t.Fatalf("Failed to open identity store: %v", err)
	}
	t.Cleanup(func() { _ = sessions.Close() })

	hub := ws.NewHub(10)
	ctrl := mailbox.NewController(mailbox.SeedMessages(), nil, crypto.NewMessageCodec(), nil)

	return NewServer(cfg, sessions, ctrl, hub), sessions
}

func TestHandleRoot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handleRoot(w, req)

	res := w.Result()
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", res.StatusCode)
	}

	contentType := res.Header.Get("Content-Type")
	if contentType != "text/plain" {
		t.Errorf("expected Content-Type 'text/plain', got '%s'", contentType)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	expected := "SortFlow API is running"
	if string(body) != expected {
		t.Errorf("expected body '%s', got '%s'", expected, string(body))
	}
}

func TestNewServer(t *testing.T) {
	server, _ := newTestServer(t)
	if server == nil {
		t.Fatal("NewServer() returned nil")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestServerRoutes(t *testing.T) {
	server, _ := newTestServer(t)

	// Sign up through the real route to get a working token.
	signupBody := `{"email":"jane@company.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(signupBody))
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("signup failed with status %d: %s", w.Code, w.Body.String())
	}

	var authResp models.AuthResponse
	if err := json.NewDecoder(w.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode signup response: %v", err)
	}
	token := authResp.Token

	do := func(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
		t.Helper()
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, reader)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		return w
	}

	t.Run("authenticated routes respond", func(t *testing.T) {
		checks := []struct {
			method string
			target string
			body   string
			want   int
		}{
			{http.MethodGet, "/api/v1/auth/me", "", http.StatusOK},
			{http.MethodGet, "/api/v1/mailbox/counts", "", http.StatusOK},
			{http.MethodGet, "/api/v1/messages", "", http.StatusOK},
			{http.MethodGet, "/api/v1/message/1", "", http.StatusOK},
			{http.MethodPost, "/api/v1/message/1/star", "", http.StatusNoContent},
			{http.MethodPost, "/api/v1/message/1/read", "", http.StatusNoContent},
			{http.MethodPost, "/api/v1/message/2/trash", "", http.StatusNoContent},
			{http.MethodPost, "/api/v1/message/1/move", `{"folder":"Work"}`, http.StatusNoContent},
			{http.MethodPost, "/api/v1/compose", `{"to":"a@b.com","subject":"s","body":"b"}`, http.StatusOK},
			{http.MethodPost, "/api/v1/message/1/reply", `{"body":"ok"}`, http.StatusOK},
			{http.MethodGet, "/api/v1/team", "", http.StatusOK},
			{http.MethodPost, "/api/v1/team/invite", `{"email":"alice@co.com"}`, http.StatusOK},
			{http.MethodPost, "/api/v1/auth/upgrade", "", http.StatusOK},
		}

		for _, c := range checks {
			w := do(t, c.method, c.target, c.body)
			if w.Code != c.want {
				t.Errorf("%s %s: expected %d, got %d (%s)", c.method, c.target, c.want, w.Code, w.Body.String())
			}
		}
	})

	t.Run("test import route is registered in test env", func(t *testing.T) {
		raw := "From: x@y.com\r\nTo: me@co.com\r\nSubject: hi\r\n\r\nbody\r\n"
		w := do(t, http.MethodPost, "/test/import-message", raw)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200 from import route, got %d", w.Code)
		}
	})

	t.Run("routes reject missing auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/messages", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestImportRouteHiddenOutsideTestEnv(t *testing.T) {
	cfg := getTestConfig()
	cfg.Environment = "production"

	encryptor, err := crypto.NewEncryptor(cfg.EncryptionKeyBase64)
	if err != nil {
		t.Fatalf("Failed to create encryptor: %v", err)
	}
	sessions, err := session.Open(":memory:", encryptor)
	if err != nil {
		t.Fatalf("Failed to open identity store: %v", err)
	}
	defer func() { _ = sessions.Close() }()

	ctrl := mailbox.NewController(mailbox.SeedMessages(), nil, crypto.NewMessageCodec(), nil)
	server := NewServer(cfg, sessions, ctrl, ws.NewHub(10))

	req := httptest.NewRequest(http.MethodPost, "/test/import-message", strings.NewReader("raw"))
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	// Falls through to the root handler, which only ever answers 200 with the
	// banner; the import handler is not mounted.
	if strings.Contains(w.Body.String(), "Imported") || w.Code == http.StatusNoContent {
		t.Errorf("import route should not be mounted outside test env")
	}
}
