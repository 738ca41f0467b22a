// Package httpapi exposes the firmware importer over HTTP so scheduled
// infrastructure can trigger runs with a plain GET instead of a shell.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// Importer runs one firmware import and reports the finished run.
type Importer interface {
	Execute(ctx context.Context, osName, version string, source domain.SourceType) (domain.ImportRun, error)
}

type Server struct {
	importer Importer
	osNames  []string
	log      *slog.Logger
}

func NewServer(importer Importer, devices map[string][]domain.Device, log *slog.Logger) *Server {
	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Server{importer: importer, osNames: names, log: log}
}

// runResult is the JSON body reported per import run.
type runResult struct {
	OSName   string `json:"os_name"`
	Version  string `json:"os_version"`
	Source   string `json:"source"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/", s.handleImportAll)
	router.GET("/:os_name", s.handleImportOS)
	router.GET("/:os_name/:os_version", s.handleImportOS)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet},
	})

	return s.logRequests(c.Handler(router))
}

// ListenAndServe blocks until the listener fails or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.Info("httpapi.listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleImportAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	source, ok := s.sourceParam(w, r)
	if !ok {
		return
	}

	results := make([]runResult, 0, len(s.osNames))
	for _, osName := range s.osNames {
		run, err := s.importer.Execute(r.Context(), osName, "latest", source)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		results = append(results, toResult(run))
	}

	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleImportOS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	source, ok := s.sourceParam(w, r)
	if !ok {
		return
	}

	version := ps.ByName("os_version")
	if version == "" {
		version = "latest"
	}

	run, err := s.importer.Execute(r.Context(), ps.ByName("os_name"), version, source)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toResult(run))
}

// sourceParam reads the ?type= query parameter, defaulting to ipsw.
func (s *Server) sourceParam(w http.ResponseWriter, r *http.Request) (domain.SourceType, bool) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return domain.SourceIPSW, true
	}

	source, err := domain.ParseSourceType(raw)
	if err == nil && source == domain.SourceSimulator {
		err = errors.New("simulator symbols are imported from a local Xcode, not a feed")
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return "", false
	}
	return source, true
}

func toResult(run domain.ImportRun) runResult {
	skipped := 0
	for _, job := range run.Jobs {
		if job.Status == domain.JobSkipped {
			skipped++
		}
	}
	return runResult{
		OSName:   run.OSName,
		Version:  run.RequestedVersion,
		Source:   string(run.Source),
		Imported: run.Imported(),
		Skipped:  skipped,
		Failed:   run.Failed(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("httpapi.encode_failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Error("httpapi.request_failed", "status", status, "error", err)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("httpapi.request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
