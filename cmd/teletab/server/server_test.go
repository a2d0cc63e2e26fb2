package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestServerStartStop(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}

	addr, err := srv.Start()
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if addr == "" || addr == ":0" {
		t.Fatalf("Start() did not resolve a concrete port, got %q", addr)
	}
	if got := srv.Addr(); got != addr {
		t.Errorf("Addr() = %q, want the address Start() returned (%q)", got, addr)
	}

	// The index page is the cheapest liveness check.
	url := "http://" + addr + "/"
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET / while running: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if !strings.Contains(string(body), "Teletab") {
		t.Errorf("index page missing application title, got %.80s", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}

	// A stopped server must refuse new connections.
	if _, err := http.Get(url); err == nil {
		t.Error("GET / still succeeds after Shutdown()")
	}
}

func TestServerDoubleStart(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	defer srv.Shutdown(context.Background())

	addr1, err := srv.Start()
	if err != nil {
		t.Fatalf("first Start() failed: %v", err)
	}

	// Start is idempotent: the second call reports the existing listener
	// instead of binding a fresh one.
	addr2, err := srv.Start()
	if err != nil {
		t.Fatalf("repeated Start() failed: %v", err)
	}
	if addr1 != addr2 {
		t.Errorf("repeated Start() moved the server: %q then %q", addr1, addr2)
	}
}

func TestServerBaseURL(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	defer srv.Shutdown(context.Background())

	if got := srv.BaseURL(); got != "" {
		t.Errorf("BaseURL() before Start = %q, want empty", got)
	}

	if _, err := srv.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	base := srv.BaseURL()
	if !strings.HasPrefix(base, "http://localhost:") {
		t.Errorf("BaseURL() = %q, want http://localhost:<port>", base)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	defer srv.Shutdown(context.Background())

	addr, err := srv.Start()
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	resp, err := http.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "teletab_http_requests_total") {
		t.Error("metrics output missing teletab_http_requests_total")
	}
}
