// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ykosuru/cobolscan/internal/cobol"
	"github.com/ykosuru/cobolscan/internal/common"
	"github.com/ykosuru/cobolscan/internal/store"
)

// Server exposes the extraction engine and the run catalog read-only
// over HTTP. The catalog is optional; without it the analyze endpoint
// still works and nothing is persisted.
type Server struct {
	router   chi.Router
	analyzer *cobol.Analyzer
	catalog  *store.Store
}

// NewServer builds the HTTP surface around an analyzer and an optional
// catalog store.
func NewServer(analyzer *cobol.Analyzer, catalog *store.Store) (*Server, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer required")
	}
	s := &Server{analyzer: analyzer, catalog: catalog}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/runs", s.handleRuns)
	r.Get("/api/runs/{id}", s.handleRun)
	r.Get("/api/logs", s.handleLogs)
	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Persist bool   `json:"persist"`
}

type analyzeResponse struct {
	RunID  string        `json:"run_id,omitempty"`
	Result *cobol.Result `json:"result"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content required")
		return
	}
	result, err := s.analyzer.Analyze(r.Context(), req.Path, []byte(req.Content))
	if err != nil {
		logger.Error("api: analyze failed", "path", req.Path, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	resp := analyzeResponse{Result: result}
	if req.Persist && s.catalog != nil {
		runID, err := s.catalog.SaveResult(r.Context(), result)
		if err != nil {
			logger.Error("api: persist failed", "program", result.Program, "error", err)
			writeError(w, http.StatusInternalServerError, "persist failed")
			return
		}
		resp.RunID = runID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}
	runs, err := s.catalog.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}
	detail, err := s.catalog.RunByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleLogs exposes the captured log history for operational checks.
func (s *Server) handleLogs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, common.LogEntries())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
