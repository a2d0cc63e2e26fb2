package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// api holds the handler dependencies: the object registry, the telemetry
// signal, and the streaming cadence.
type api struct {
	store    *Store
	wave     SineWave
	interval time.Duration
	log      *slog.Logger
}

// createObjectRequest is the fixture creation payload. Name is optional;
// the registry fills in a default.
type createObjectRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// handleCreateObject creates a domain object with defaults. Unknown types
// are rejected so a broken fixture fails the calling test case immediately.
func (a *api) handleCreateObject(w http.ResponseWriter, r *http.Request) {
	var req createObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	typ := ObjectType(req.Type)
	if !typ.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown object type %q", req.Type))
		return
	}

	obj, err := a.store.Create(r.Context(), typ, req.Name)
	if err != nil {
		a.log.Error("create object", "type", req.Type, "error", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}

	a.log.Info("object created", "id", obj.ID, "type", obj.Type, "name", obj.Name)
	writeJSON(w, http.StatusCreated, obj)
}

// handleListObjects lists registry objects, optionally filtered by type.
func (a *api) handleListObjects(w http.ResponseWriter, r *http.Request) {
	typ := ObjectType(r.URL.Query().Get("type"))
	if typ != "" && !typ.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown object type %q", typ))
		return
	}

	objs, err := a.store.List(r.Context(), typ)
	if err != nil {
		a.log.Error("list objects", "error", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if objs == nil {
		objs = []Object{}
	}
	writeJSON(w, http.StatusOK, objs)
}

// handleGetObject returns one object by ID.
func (a *api) handleGetObject(w http.ResponseWriter, r *http.Request) {
	obj, err := a.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrObjectNotFound) {
		writeError(w, http.StatusNotFound, "no such object")
		return
	}
	if err != nil {
		a.log.Error("get object", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, obj)
}

// handleStream serves telemetry for a generator object as server-sent
// events: one JSON sample per tick until the client disconnects.
func (a *api) handleStream(w http.ResponseWriter, r *http.Request) {
	obj, err := a.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrObjectNotFound) {
		writeError(w, http.StatusNotFound, "no such object")
		return
	}
	if err != nil {
		a.log.Error("stream lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if obj.Type != TypeSineWaveGenerator {
		writeError(w, http.StatusBadRequest, "object is not a telemetry source")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	activeStreams.Inc()
	defer activeStreams.Dec()
	a.log.Info("stream opened", "id", obj.ID, "name", obj.Name)

	err = a.wave.Stream(r.Context(), a.interval, func(s Sample) error {
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		samplesEmitted.Inc()
		return nil
	})
	// Client disconnect surfaces as context.Canceled, the normal way a
	// stream ends.
	if err != nil && !errors.Is(err, r.Context().Err()) {
		a.log.Warn("stream ended", "id", obj.ID, "error", err)
	} else {
		a.log.Info("stream closed", "id", obj.ID)
	}
}

// handleView renders the object's page: the telemetry table widget for
// table objects, a signal preview for generator objects.
func (a *api) handleView(w http.ResponseWriter, r *http.Request) {
	obj, err := a.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrObjectNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		a.log.Error("view lookup", "error", err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch obj.Type {
	case TypeTelemetryTable:
		err = tablePage.Execute(w, obj)
	case TypeSineWaveGenerator:
		err = generatorPage.Execute(w, obj)
	default:
		http.Error(w, "no view for object type", http.StatusInternalServerError)
		return
	}
	if err != nil {
		a.log.Error("render view", "id", obj.ID, "error", err)
	}
}

// handleIndex renders the landing page listing all registry objects.
func (a *api) handleIndex(w http.ResponseWriter, r *http.Request) {
	objs, err := a.store.List(r.Context(), "")
	if err != nil {
		a.log.Error("index list", "error", err)
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, objs); err != nil {
		a.log.Error("render index", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
