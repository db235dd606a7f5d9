// Package server exposes the analysis pipeline over HTTP: site
// lookups, job submission and polling, and a health probe.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/engine"
	"github.com/KigoJomo/privacy-peek/internal/model"
	"github.com/KigoJomo/privacy-peek/internal/service"
)

// DefaultRecentLimit is the number of rows the recent-sites endpoint
// returns when no limit is given.
const DefaultRecentLimit = 6

// Server handles the HTTP API.
type Server struct {
	storage service.Storage
	worker  *engine.Worker
	logger  *slog.Logger
	http    *http.Server
}

// New creates an HTTP server bound to addr.
func New(addr string, storage service.Storage, worker *engine.Worker, logger *slog.Logger) *Server {
	s := &Server{
		storage: storage,
		worker:  worker,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/site", s.handleGetSite)
	mux.HandleFunc("/api/sites", s.handleGetSitesByTag)
	mux.HandleFunc("/api/sites/recent", s.handleGetRecentSites)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/job", s.handleGetJob)
	mux.HandleFunc("/health", s.handleHealth)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving requests until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains connections and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type siteResponse struct {
	Site  *model.SiteAnalysis `json:"site,omitempty"`
	Found bool                `json:"found"`
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	analysis, err := s.storage.GetSiteByURL(r.Context(), url)
	if errors.Is(err, common.ErrNotFound) {
		writeJSON(w, http.StatusOK, siteResponse{Found: false})
		return
	}
	if err != nil {
		s.logger.Error("site lookup failed", "url", url, "error", err)
		writeError(w, http.StatusInternalServerError, "site lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, siteResponse{Found: true, Site: analysis})
}

func (s *Server) handleGetSitesByTag(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	if tag == "" {
		writeError(w, http.StatusBadRequest, "tag query parameter is required")
		return
	}

	sites, err := s.storage.GetSitesByTag(r.Context(), tag)
	if err != nil {
		s.logger.Error("tag lookup failed", "tag", tag, "error", err)
		writeError(w, http.StatusInternalServerError, "tag lookup failed")
		return
	}
	if sites == nil {
		sites = []model.SiteAnalysis{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"sites": sites})
}

func (s *Server) handleGetRecentSites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	sites, err := s.storage.GetRecentSites(r.Context(), limit)
	if err != nil {
		s.logger.Error("recent sites lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "recent sites lookup failed")
		return
	}
	if sites == nil {
		sites = []model.SiteAnalysis{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"sites": sites})
}

type analyzeRequest struct {
	SiteInput string `json:"site_input"`
}

type analyzeResponse struct {
	JobID  string          `json:"job_id"`
	Status model.JobStatus `json:"status"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.SiteInput = strings.TrimSpace(req.SiteInput)
	if req.SiteInput == "" {
		writeError(w, http.StatusBadRequest, "site_input is required")
		return
	}

	job, err := s.storage.CreateJob(r.Context(), req.SiteInput)
	if err != nil {
		s.logger.Error("failed to create job", "site_input", req.SiteInput, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	if err := s.worker.Enqueue(job); err != nil {
		if stateErr := s.storage.UpdateJobStatus(r.Context(), job.ID, model.StatusError); stateErr != nil {
			s.logger.Error("failed to mark rejected job as errored", "job_id", job.ID, "error", stateErr)
		}
		s.logger.Warn("analysis queue full, rejecting job", "job_id", job.ID)
		writeError(w, http.StatusServiceUnavailable, "analysis queue is full, try again later")
		return
	}

	writeJSON(w, http.StatusAccepted, analyzeResponse{JobID: job.ID, Status: job.Status})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "id query parameter is required")
		return
	}

	job, err := s.storage.GetJob(r.Context(), id)
	if errors.Is(err, common.ErrJobNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		s.logger.Error("job lookup failed", "job_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "job lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, service.JobSnapshot{
		ID:        job.ID,
		SiteInput: job.SiteInput,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "OK",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
