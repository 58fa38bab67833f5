// Package server exposes the validation engine over HTTP. Responses are
// the same JSON documents the CLI's json output mode produces.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/validata-io/validata/internal/engine"
	"github.com/validata-io/validata/internal/ingest"
	"github.com/validata-io/validata/pkg/core"
)

// maxUploadBytes bounds multipart uploads (32 MiB).
const maxUploadBytes = 32 << 20

// Server wires the engine into an HTTP router.
type Server struct {
	engine      *engine.Engine
	logger      *slog.Logger
	profileRows int
}

// New builds a Server around an engine. profileRows is the default sample
// row count for profile requests.
func New(e *engine.Engine, logger *slog.Logger, profileRows int) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if profileRows <= 0 {
		profileRows = engine.DefaultProfileRows
	}
	return &Server{engine: e, logger: logger, profileRows: profileRows}
}

// Router assembles the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/tables", s.handleTables)
		r.Post("/validate", s.handleValidate)
		r.Post("/profile", s.handleProfile)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.engine.Catalog().Tables(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tables": tables})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("table")
	if target == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing required query parameter: table"))
		return
	}

	tbl, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := s.engine.Validate(r.Context(), tbl, target)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	rows := s.profileRows
	if raw := r.URL.Query().Get("rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid rows parameter %q", raw))
			return
		}
		rows = n
	}

	tbl, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	prof, err := s.engine.Profile(r.Context(), tbl, rows)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// readUpload parses the multipart "file" field into a table.
func (s *Server) readUpload(r *http.Request) (*core.Table, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("parse upload: %w", err)
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file field: %w", err)
	}
	defer func() { _ = f.Close() }()

	tbl, err := ingest.FromReader(f, header.Filename)
	if err != nil {
		return nil, &core.IngestionError{Source: header.Filename, Err: err}
	}
	return tbl, nil
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	var ie *core.IngestionError
	if errors.As(err, &ie) {
		status = http.StatusUnprocessableEntity
	}
	s.logger.Warn("request failed", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
