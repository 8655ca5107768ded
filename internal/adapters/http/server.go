// Package http serves expanded documents over HTTP: an expansion API, a
// page endpoint backed by the source tree, health, and Prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/tessera/internal/observability"
	"github.com/aretw0/tessera/pkg/domain"
)

// Engine is the slice of the expansion engine the server needs.
type Engine interface {
	Expand(doc domain.Document) domain.Expansion
}

// Source lists and reads the documents the server renders.
type Source interface {
	Get(ctx context.Context, id string) (SourceDoc, error)
	List(ctx context.Context) ([]SourceDoc, error)
}

// SourceDoc is one document of the source tree as the server consumes it.
type SourceDoc struct {
	Path    string `json:"path"`
	Title   string `json:"title,omitempty"`
	Draft   bool   `json:"draft,omitempty"`
	Content string `json:"-"`
}

// Cache stores rendered expansions between requests. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, path string) (domain.Expansion, bool, error)
	Set(ctx context.Context, path string, exp domain.Expansion) error
}

// Server wires the engine, source tree, and optional cache behind a router.
type Server struct {
	Engine  Engine
	Source  Source
	BaseDir string
	Cache   Cache
	Metrics *observability.Metrics
}

// NewHandler builds the HTTP routes. Source, cache, and metrics are all
// optional; missing pieces disable the matching routes.
func NewHandler(server *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", server.Health)
	r.Post("/api/expand", server.ExpandText)
	if server.Source != nil {
		r.Get("/api/pages", server.ListPages)
		r.Get("/api/pages/*", server.GetPage)
	}
	if server.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ExpandRequest is the body of POST /api/expand.
type ExpandRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// ExpandText handles POST /api/expand: it expands the posted text against
// the server's base directory and returns the expansion with diagnostics.
func (s *Server) ExpandText(w http.ResponseWriter, r *http.Request) {
	var body ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	source := body.Source
	if source == "" {
		source = "request"
	}

	start := time.Now()
	exp := s.Engine.Expand(domain.Document{
		Text:    body.Text,
		BaseDir: s.BaseDir,
		Source:  source,
	})
	s.observe(exp, start)

	writeJSON(w, http.StatusOK, exp)
}

// ListPages handles GET /api/pages.
func (s *Server) ListPages(w http.ResponseWriter, r *http.Request) {
	docs, err := s.Source.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to list pages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// PageResponse is the body of GET /api/pages/{path}.
type PageResponse struct {
	Path        string              `json:"path"`
	Title       string              `json:"title,omitempty"`
	Text        string              `json:"text"`
	Diagnostics []domain.Diagnostic `json:"diagnostics,omitempty"`
}

// GetPage handles GET /api/pages/{path}: it reads the document from the
// source tree, expands it (through the cache when one is configured), and
// returns the rendered page.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")

	doc, err := s.Source.Get(r.Context(), path)
	if err != nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	// Cache on the document's canonical path, not the request path, so
	// aliases share one entry and watch events hit the right key.
	exp, cached := s.cachedExpansion(r.Context(), doc.Path)
	if !cached {
		start := time.Now()
		exp = s.Engine.Expand(domain.Document{
			Text:    doc.Content,
			BaseDir: s.BaseDir,
			Source:  doc.Path,
		})
		s.observe(exp, start)
		s.storeExpansion(r.Context(), doc.Path, exp)
	}

	writeJSON(w, http.StatusOK, PageResponse{
		Path:        doc.Path,
		Title:       doc.Title,
		Text:        exp.Text,
		Diagnostics: exp.Diagnostics,
	})
}

func (s *Server) cachedExpansion(ctx context.Context, path string) (domain.Expansion, bool) {
	if s.Cache == nil {
		return domain.Expansion{}, false
	}
	exp, ok, err := s.Cache.Get(ctx, path)
	if err != nil || !ok {
		s.countCache("miss")
		return domain.Expansion{}, false
	}
	s.countCache("hit")
	return exp, true
}

func (s *Server) storeExpansion(ctx context.Context, path string, exp domain.Expansion) {
	if s.Cache == nil {
		return
	}
	// Cache write failures only cost the next request a re-expansion.
	_ = s.Cache.Set(ctx, path, exp)
}

func (s *Server) countCache(result string) {
	if s.Metrics != nil {
		s.Metrics.CacheHits.WithLabelValues(result).Inc()
	}
}

func (s *Server) observe(exp domain.Expansion, start time.Time) {
	if s.Metrics != nil {
		s.Metrics.ObserveExpansion(exp, time.Since(start).Seconds())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
