// Package http exposes the matcher as a small JSON service.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/posematch"
	"github.com/aretw0/posematch/pkg/codec"
	"github.com/aretw0/posematch/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodyBytes caps the size of a match request.
const MaxBodyBytes = 8 << 20

// Engine defines what the HTTP surface needs from the posematch core.
type Engine interface {
	Match(ctx context.Context, model, space domain.MatrixSet) *domain.Report
	MatchWithEpsilon(ctx context.Context, model, space domain.MatrixSet, eps float32) (*domain.Report, error)
	Epsilon() float32
}

// MatchRequest is the body of POST /match. Model and Space are bare arrays
// of matrix entries, or wrapped {"datas": [...]} documents.
type MatchRequest struct {
	Model   json.RawMessage `json:"model"`
	Space   json.RawMessage `json:"space"`
	Epsilon *float32        `json:"epsilon,omitempty"`
}

// Server serves match requests.
type Server struct {
	Engine   Engine
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler creates a new HTTP handler for the engine.
// A nil gatherer disables the /metrics endpoint.
func NewHandler(engine Engine, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Engine: engine, Gatherer: gatherer, Logger: logger}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Post("/match", s.Match)
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Match handles the POST /match request and answers with the matched set
// in the persisted {"datas": [...]} shape.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var body MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Match: Invalid request body", "error", err)
		return
	}
	if len(body.Model) == 0 || len(body.Space) == 0 {
		http.Error(w, "Both model and space are required", http.StatusBadRequest)
		return
	}

	model, err := codec.Decode(body.Model)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid model: %v", err), http.StatusBadRequest)
		return
	}
	space, err := codec.Decode(body.Space)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid space: %v", err), http.StatusBadRequest)
		return
	}

	var report *domain.Report
	if body.Epsilon != nil {
		report, err = s.Engine.MatchWithEpsilon(r.Context(), model, space, *body.Epsilon)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		report = s.Engine.Match(r.Context(), model, space)
	}

	out, err := codec.Encode(report.Matched)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNonFinite) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, fmt.Sprintf("Encode error: %v", err), status)
		s.Logger.Error("Match response encode failed", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Posematch-Unmatched", fmt.Sprint(len(report.Unmatched)))
	if _, err := w.Write(out); err != nil {
		s.Logger.Error("Match response write failed", "error", err)
	}
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"app":     "posematch-http",
		"version": strings.TrimSpace(posematch.Version),
		"epsilon": s.Engine.Epsilon(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
