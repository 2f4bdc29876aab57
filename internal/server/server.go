// Package server exposes the bot over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/talentoz/dbbot/internal/bot"
	"github.com/talentoz/dbbot/internal/common"
	"github.com/talentoz/dbbot/internal/export"
	"github.com/talentoz/dbbot/internal/repository"
)

// HealthChecker reports whether the backing database is reachable.
type HealthChecker func(ctx context.Context) error

type Server struct {
	orchestrator *bot.Orchestrator
	exporter     *export.Service
	projects     repository.ProjectRepository
	health       HealthChecker
	apiKey       string
	log          *slog.Logger
}

func New(orchestrator *bot.Orchestrator, exporter *export.Service, projects repository.ProjectRepository, health HealthChecker, apiKey string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		orchestrator: orchestrator,
		exporter:     exporter,
		projects:     projects,
		health:       health,
		apiKey:       apiKey,
		log:          logger,
	}
}

func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/", s.root)
	router.Get("/health", s.healthCheck)

	router.Route("/api/bot", func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Post("/query", s.query)
		r.Get("/status", s.status)
		r.Get("/projects", s.listProjects)
		r.Get("/export/invoices", s.exportInvoices)
	})

	return router
}

// requireAPIKey gates the bot routes on the X-API-Key header. With no key
// configured the check is skipped, which is only acceptable in development.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Warn("server.auth.disabled", "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("X-API-Key") != s.apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or missing API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "dbbot",
		"message": "Natural language database bot. POST /api/bot/query to talk to it.",
	})
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type queryRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id,omitempty"`
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	ctx := common.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
	ctx = common.WithUserID(ctx, req.UserID)

	resp := s.orchestrator.ProcessQuery(ctx, req.Query, req.UserID)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "running",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.ListProjects(r.Context())
	if err != nil {
		s.log.Error("server.projects.error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing projects failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects, "count": len(projects)})
}

func (s *Server) exportInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.InvoiceFilter{
		Status:    q.Get("status"),
		ProjectID: q.Get("project_id"),
		TalentID:  q.Get("talent_id"),
		FromDate:  q.Get("from"),
		ToDate:    q.Get("to"),
	}

	data, err := s.exporter.ExportInvoicesXLSX(r.Context(), filter)
	if err != nil {
		s.log.Error("server.export.error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"invoices_%s.xlsx\"", time.Now().Format("20060102")))
	if _, err := w.Write(data); err != nil {
		s.log.Error("server.export.write_error", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
