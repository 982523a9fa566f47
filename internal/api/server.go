// Package api provides the HTTP server for the guild daemon.
// It exposes the recommendation endpoint and the marketplace CRUD surface.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/digital-guild/guild/internal/app/cache"
	"github.com/digital-guild/guild/internal/app/incentive"
	"github.com/digital-guild/guild/internal/app/lifecycle"
	"github.com/digital-guild/guild/internal/app/marketplace"
	"github.com/digital-guild/guild/internal/app/recommend"
	"github.com/digital-guild/guild/internal/app/scoring"
	"github.com/digital-guild/guild/internal/app/wallet"
	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/health"
	"github.com/digital-guild/guild/internal/infra/repo"
)

// Server is the guild HTTP API server.
type Server struct {
	repos          *repo.Registry
	session        *cache.Session
	market         *marketplace.Service
	incentives     *incentive.Service
	lifecycle      *lifecycle.Service
	passports      *scoring.PassportService
	wallet         *wallet.Service
	recommender    *recommend.Service
	health         *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server over the wired services.
func NewServer(
	repos *repo.Registry,
	session *cache.Session,
	market *marketplace.Service,
	incentives *incentive.Service,
	lc *lifecycle.Service,
	passports *scoring.PassportService,
	w *wallet.Service,
	recommender *recommend.Service,
) *Server {
	return &Server{
		repos:       repos,
		session:     session,
		market:      market,
		incentives:  incentives,
		lifecycle:   lc,
		passports:   passports,
		wallet:      w,
		recommender: recommender,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth wires the periodic health checker into /health.
func (s *Server) SetHealth(h *health.Checker) { s.health = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if s.health == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		code := http.StatusOK
		label := "ok"
		if !s.health.IsHealthy() {
			code = http.StatusServiceUnavailable
			label = "degraded"
		}
		writeJSON(w, code, map[string]interface{}{
			"status": label,
			"checks": s.health.Statuses(),
		})
	})

	r.Post("/recommend", s.handleRecommend)

	r.Route("/api", func(r chi.Router) {
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.handleListJobs)
			r.Post("/", s.handleCreateJob)
			r.Get("/{id}", s.handleGetJob)
			r.Patch("/{id}", s.handleUpdateJob)
			r.Delete("/{id}", s.handleDeleteJob)
			r.Get("/{id}/recommendations", s.handleJobRecommendations)
			r.Get("/{id}/undertaken", s.handleJobUndertaken)
		})

		r.Route("/workers", func(r chi.Router) {
			r.Get("/", s.handleListWorkers)
			r.Post("/", s.handleCreateWorker)
			r.Get("/{id}", s.handleGetWorker)
			r.Patch("/{id}", s.handleUpdateWorker)
			r.Get("/{id}/passport", s.handleWorkerPassport)
			r.Get("/{id}/undertaken", s.handleWorkerUndertaken)
			r.Get("/{id}/wallet", s.handleWorkerWallet)
		})

		r.Route("/requesters", func(r chi.Router) {
			r.Get("/", s.handleListRequesters)
			r.Post("/", s.handleCreateRequester)
			r.Get("/{id}", s.handleGetRequester)
			r.Get("/{id}/jobs", s.handleRequesterJobs)
			r.Get("/{id}/subsidies", s.handleRequesterSubsidies)
		})

		r.Post("/subsidies", s.handleCreateSubsidy)

		r.Route("/undertaken", func(r chi.Router) {
			r.Post("/", s.handleApply)
			r.Get("/{id}", s.handleGetUndertaken)
			r.Post("/{id}/accept", s.transitionHandler(domain.StatusAccepted))
			r.Post("/{id}/start", s.transitionHandler(domain.StatusInProgress))
			r.Post("/{id}/report", s.transitionHandler(domain.StatusCompletionReported))
			r.Post("/{id}/complete", s.transitionHandler(domain.StatusCompleted))
			r.Post("/{id}/cancel", s.transitionHandler(domain.StatusCanceled))
			r.Post("/{id}/rate", s.handleRate)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.handleListNotifications)
			r.Post("/{id}/read", s.handleNotificationRead)
		})

		r.Route("/bookmarks", func(r chi.Router) {
			r.Get("/", s.handleListBookmarks)
			r.Post("/", s.handleCreateBookmark)
			r.Delete("/{id}", s.handleDeleteBookmark)
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotCompleted),
		errors.Is(err, domain.ErrAlreadyRated):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidEvalScore),
		errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// corsMiddleware adds CORS headers for the local client.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
