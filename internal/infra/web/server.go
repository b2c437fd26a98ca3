package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-academy-intake/internal/domain/ports/repository"
)

// Server is the ops listener: liveness, Prometheus metrics and a small
// stats endpoint over the optional intake archive. It serves no user
// traffic and needs no auth beyond network placement.
type Server struct {
	archive repository.ArchiveRepository
	log     *zerolog.Logger
	srv     *http.Server
}

func NewServer(port int, archive repository.ArchiveRepository, logger *zerolog.Logger) *Server {
	s := &Server{archive: archive, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/v1/stats", s.handleStats)

	s.srv = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: r}
	return s
}

// Handler returns the ops router.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("ops server listening")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		ArchiveEnabled bool `json:"archive_enabled"`
		ArchivedTotal  int  `json:"archived_total"`
	}{}

	if s.archive != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		n, err := s.archive.Count(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("archive count failed")
			http.Error(w, "archive unavailable", http.StatusServiceUnavailable)
			return
		}
		resp.ArchiveEnabled = true
		resp.ArchivedTotal = n
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
