package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/nao1215/contactfinder/internal/config"
)

// startRequest is the optional JSON payload of POST /api/start.
// Durations are expressed in seconds to keep the payload ergonomic for
// shell scripts and UI sliders; fractional values are allowed.
type startRequest struct {
	DirectoryURL    string   `json:"directory_url,omitempty"`
	ContactHints    []string `json:"contact_hints,omitempty"`
	DelaySeconds    *float64 `json:"delay,omitempty"`
	TimeoutSeconds  *float64 `json:"timeout,omitempty"`
	MaxContactPages *int     `json:"max_contact_pages,omitempty"`
	Output          string   `json:"output,omitempty"`
}

// handleStatus serves the tracker's snapshot. It never blocks on the
// crawl worker: the snapshot is taken inside the tracker's own critical
// section and fully owned by this request.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.tracker.Snapshot())
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStart launches a new crawl run unless one is already active.
// Responds 202 when the run is accepted, 409 when a run is in flight,
// and 400 for an invalid payload or resulting configuration.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg := s.cfg.Clone()
	applyStartRequest(cfg, &req)
	if err := cfg.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Single-flight guard: claim the run slot atomically. A plain
	// snapshot-then-start would admit two concurrent POSTs.
	if !s.tracker.TryStart() {
		s.respondError(w, http.StatusConflict, "crawler already running")
		return
	}

	s.startRun(cfg)
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// applyStartRequest overlays the request's fields onto the config clone.
func applyStartRequest(cfg *config.Config, req *startRequest) {
	if req.DirectoryURL != "" {
		cfg.DirectoryURL = req.DirectoryURL
	}
	if len(req.ContactHints) > 0 {
		cfg.ContactHints = req.ContactHints
	}
	if req.DelaySeconds != nil {
		cfg.Delay = time.Duration(*req.DelaySeconds * float64(time.Second))
	}
	if req.TimeoutSeconds != nil {
		cfg.Timeout = time.Duration(*req.TimeoutSeconds * float64(time.Second))
	}
	if req.MaxContactPages != nil {
		cfg.MaxContactPages = *req.MaxContactPages
	}
	if req.Output != "" {
		cfg.OutputCSV = req.Output
	}
}

// respondJSON writes a JSON response with the given status code.
func (s *Server) respondJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

// respondError writes a JSON error body with the given status code.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respondJSON(w, code, map[string]string{"error": message})
}
