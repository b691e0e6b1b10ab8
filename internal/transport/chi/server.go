// Package chi exposes the matching engine over HTTP.
package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/meridian-data/corpmatch/internal/domain/match"
	"github.com/meridian-data/corpmatch/internal/normalize"
	"github.com/meridian-data/corpmatch/internal/version"
)

const maxResolveBatch = 1000

// Matcher resolves a single query against the candidate index.
type Matcher interface {
	Match(q match.Query) match.Result
	Threshold() int
}

// Server handles the corpmatch HTTP API.
type Server struct {
	matcher   Matcher
	indexSize int
	logger    *zap.Logger
	registry  *prometheus.Registry
}

// NewServer creates an HTTP API server over a ready matcher.
func NewServer(matcher Matcher, indexSize int, registry *prometheus.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		matcher:   matcher,
		indexSize: indexSize,
		logger:    logger,
		registry:  registry,
	}
}

// Router builds the chi router with all routes. Middleware is wired by the
// composition root.
func (s *Server) Router() http.Handler {
	r := chirouter.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", s.metricsHandler())

	r.Route("/api/v1", func(r chirouter.Router) {
		r.Post("/match", s.handleMatch)
		r.Post("/resolve", s.handleResolve)
	})
	return r
}

type matchRequest struct {
	Name string `json:"name"`
}

type matchResponse struct {
	Query          string `json:"query"`
	Matched        bool   `json:"matched"`
	DocumentNumber string `json:"document_number,omitempty"`
	MatchedName    string `json:"matched_name,omitempty"`
	Score          int    `json:"score"`
	Kind           string `json:"kind"`
}

type resolveRequest struct {
	Names []string `json:"names"`
}

type resolveResponse struct {
	Results    []matchResponse `json:"results"`
	Statistics statsResponse   `json:"statistics"`
}

type statsResponse struct {
	Total     int `json:"total"`
	Exact     int `json:"exact"`
	Fuzzy     int `json:"fuzzy"`
	Unmatched int `json:"unmatched"`
}

// handleMatch handles POST /api/v1/match.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("bad match request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	q := match.NewQuery(req.Name, normalize.Normalize(req.Name))
	result := s.matcher.Match(q)

	writeJSON(w, http.StatusOK, resultToResponse(result))
}

// handleResolve handles POST /api/v1/resolve.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("bad resolve request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Names) == 0 || len(req.Names) > maxResolveBatch {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("names count must be between 1 and %d", maxResolveBatch))
		return
	}

	results := make([]matchResponse, len(req.Names))
	var stats match.Statistics
	for i, name := range req.Names {
		result := s.matcher.Match(match.NewQuery(name, normalize.Normalize(name)))
		stats.Observe(result)
		results[i] = resultToResponse(result)
	}

	writeJSON(w, http.StatusOK, resolveResponse{
		Results: results,
		Statistics: statsResponse{
			Total:     stats.Total,
			Exact:     stats.Exact,
			Fuzzy:     stats.Fuzzy,
			Unmatched: stats.Unmatched,
		},
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	if s.indexSize == 0 {
		status = "empty_index"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":          status,
		"indexed":         s.indexSize,
		"match_threshold": s.matcher.Threshold(),
	})
}

// handleVersion handles GET /version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
	})
}

func (s *Server) metricsHandler() http.Handler {
	if s.registry != nil {
		return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

func resultToResponse(r match.Result) matchResponse {
	return matchResponse{
		Query:          r.QueryName(),
		Matched:        r.Matched(),
		DocumentNumber: r.DocumentNumber(),
		MatchedName:    r.MatchedName(),
		Score:          r.Score(),
		Kind:           string(r.Kind()),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
