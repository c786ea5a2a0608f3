// Package api exposes the assistant over HTTP for non-voice clients.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"jarvis/internal/dialogue"
	"jarvis/internal/terminals"
)

// LogReader serves the persisted command log.
type LogReader interface {
	Recent(n int) ([]string, error)
}

type Server struct {
	controller *dialogue.Controller
	registry   *terminals.Registry
	log        LogReader
	logger     *slog.Logger
}

// New builds the HTTP surface. registry and log may be nil; their routes
// then report empty results.
func New(controller *dialogue.Controller, registry *terminals.Registry, log LogReader, logger *slog.Logger) *Server {
	return &Server{
		controller: controller,
		registry:   registry,
		log:        log,
		logger:     logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Post("/v1/command", s.handleCommand)
	r.Get("/v1/history", s.handleHistory)
	r.Get("/v1/terminals", s.handleTerminals)
	r.Get("/v1/log", s.handleLog)

	return r
}

type commandRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCommand(w http.ResponseWriter, req *http.Request) {
	var body commandRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "text is required"})
		return
	}

	result := s.controller.HandleText(req.Context(), body.Text)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"history": s.controller.Session().History(),
	})
}

func (s *Server) handleTerminals(w http.ResponseWriter, _ *http.Request) {
	if s.registry == nil {
		writeJSON(w, http.StatusOK, map[string]any{"terminals": []terminals.TerminalState{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"terminals": s.registry.ListOnline()})
}

func (s *Server) handleLog(w http.ResponseWriter, req *http.Request) {
	if s.log == nil {
		writeJSON(w, http.StatusOK, map[string]any{"lines": []string{}})
		return
	}

	limit := 50
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	lines, err := s.log.Recent(limit)
	if err != nil {
		s.logger.Error("read command log failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "could not read command log"})
		return
	}
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": lines})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
