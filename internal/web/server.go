// Package web exposes the import trigger over HTTP. The surrounding CRUD
// and catalog surfaces live elsewhere; this server only starts import runs
// and reports their outcome.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mesofi/mythcloth/internal/catalog"
	"github.com/mesofi/mythcloth/internal/config"
	"github.com/mesofi/mythcloth/internal/importer"
	"github.com/mesofi/mythcloth/internal/logging"
	mw "github.com/mesofi/mythcloth/internal/web/middleware"
)

// Server hosts the import trigger endpoint.
type Server struct {
	imp        *importer.Importer
	cfg        *config.Config
	httpServer *http.Server

	// Imports are single-flight: the pipeline does not support concurrent
	// runs, so the trigger serializes them here.
	runMu sync.Mutex
}

// NewServer builds the HTTP server around an importer.
func NewServer(imp *importer.Importer, cfg *config.Config) *Server {
	s := &Server{imp: imp, cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/figurines/import/{fileID}", s.handleImport)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections within the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImport runs one import for the sheet id in the path and reports the
// processed counts. A run already in flight yields 409.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	log := logging.FromContext(r.Context())

	if !s.runMu.TryLock() {
		writeError(w, http.StatusConflict, "an import is already running")
		return
	}
	defer s.runMu.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	result, err := s.imp.Run(ctx, fileID)
	if err != nil {
		log.Error("import failed", "source_id", fileID, "error", err)

		status := http.StatusBadGateway
		var resErr *catalog.ResolutionError
		var distErr *catalog.DistributorError
		if errors.As(err, &resErr) || errors.As(err, &distErr) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"runId":    result.RunID,
		"rows":     result.Rows,
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"duration": result.Duration.Round(time.Millisecond).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
