package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mikanbox/droplink/api/notifyhub"
	"github.com/mikanbox/droplink/manifest"
	"github.com/mikanbox/droplink/session"
)

func setupControl(t *testing.T) (*ControlServer, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := notifyhub.New()
	manager := session.NewManager(func(m *manifest.Manifest) http.Handler {
		return NewShareHandler(m, hub)
	}, time.Second)
	t.Cleanup(manager.Stop)
	server := NewControlServer(0, manager, hub, nil, nil)
	return server, server.setupRoutes()
}

func localRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	req.RemoteAddr = "127.0.0.1:12345"
	return req
}

func TestControlShareLifecycle(t *testing.T) {
	_, engine := setupControl(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	// idle: no snapshot yet
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, localRequest("GET", "/api/self/v1/share", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 while idle, got %d", w.Code)
	}

	// start
	body, _ := json.Marshal(ShareRequest{Paths: []string{path}})
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, localRequest("POST", "/api/self/v1/share", body))
	if w.Code != http.StatusOK {
		t.Fatalf("start failed: %d %s", w.Code, w.Body.String())
	}
	var response struct {
		Data struct {
			Port       int    `json:"port"`
			PrimaryURL string `json:"primaryUrl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Data.Port <= 0 || response.Data.PrimaryURL == "" {
		t.Errorf("descriptor incomplete: %+v", response.Data)
	}

	// snapshot now present
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, localRequest("GET", "/api/self/v1/share", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 snapshot, got %d", w.Code)
	}

	// addresses of the active share
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, localRequest("GET", "/api/self/v1/addresses", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 addresses, got %d", w.Code)
	}

	// stop, then snapshot is gone
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, localRequest("DELETE", "/api/self/v1/share", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("stop failed: %d", w.Code)
	}
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, localRequest("GET", "/api/self/v1/share", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 after stop, got %d", w.Code)
	}
}

func TestControlShareRejectsEmptySelection(t *testing.T) {
	_, engine := setupControl(t)

	body, _ := json.Marshal(ShareRequest{Paths: []string{}})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, localRequest("POST", "/api/self/v1/share", body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty selection, got %d", w.Code)
	}
}

func TestControlRejectsRemoteClients(t *testing.T) {
	_, engine := setupControl(t)

	req, _ := http.NewRequest("GET", "/api/self/v1/share", nil)
	req.RemoteAddr = "192.168.1.50:40000"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for remote client, got %d", w.Code)
	}
}

func TestControlQRCode(t *testing.T) {
	_, engine := setupControl(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, localRequest("GET", "/api/self/v1/create-qr-code?data=http://192.168.1.5:8080&size=128x128", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}

	// no data and no active share
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, localRequest("GET", "/api/self/v1/create-qr-code", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without data, got %d", w.Code)
	}
}

func TestControlPeersEmptyWithoutDiscovery(t *testing.T) {
	_, engine := setupControl(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, localRequest("GET", "/api/self/v1/peers", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
