// Package server provides the importable telemetry-table web application.
// E2E tests start and stop it programmatically on a random port; the
// teletab CLI runs it on a fixed address.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server hosts the telemetry-table application: the object registry API,
// the telemetry SSE streams, and the rendered object views.
type Server struct {
	httpServer *http.Server
	store      *Store
	listener   net.Listener
	addr       string
	mu         sync.Mutex
	running    bool
}

// NewServer creates a server with the given configuration and opens the
// object registry. The server is not started until Start() is called.
func NewServer(cfg Config) (*Server, error) {
	cfg.defaults()

	store, err := OpenStore(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("server: open registry: %w", err)
	}

	a := &api{
		store:    store,
		wave:     DefaultSineWave(),
		interval: time.Duration(cfg.SampleInterval),
		log:      cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/", a.handleIndex)
	r.Get("/view/{id}", a.handleView)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/objects", a.handleCreateObject)
		r.Get("/objects", a.handleListObjects)
		r.Get("/objects/{id}", a.handleGetObject)
		r.Get("/stream/{id}", a.handleStream)
	})

	httpServer := &http.Server{
		Addr:        cfg.Addr,
		Handler:     r,
		ReadTimeout: time.Duration(cfg.ReadTimeout),
		// No WriteTimeout: SSE streams stay open until the client
		// disconnects.
	}

	return &Server{
		httpServer: httpServer,
		store:      store,
	}, nil
}

// Store exposes the object registry, mainly for tests seeding fixtures
// without going through the HTTP API.
func (s *Server) Store() *Store { return s.store }

// Start begins listening and serving HTTP requests.
// Returns the actual address the server is listening on (useful when port is 0).
// This method is non-blocking - the server runs in a goroutine.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.addr, nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("server: listen: %w", err)
	}

	s.listener = ln
	s.addr = ln.Addr().String()
	s.running = true

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			// Server may have been shut down concurrently.
		}
	}()

	return s.addr, nil
}

// Shutdown gracefully shuts down the server and closes the registry.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return s.store.Close()
	}

	s.running = false
	err := s.httpServer.Shutdown(ctx)
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// Addr returns the address the server is listening on.
// Returns empty string if server is not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// BaseURL returns the http://localhost:port form of the listen address,
// the one browsers should navigate to.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	return "http://localhost:" + port
}
