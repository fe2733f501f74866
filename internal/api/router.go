package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lurelabs/tokenpulse/internal/pipeline"
	"github.com/lurelabs/tokenpulse/internal/scheduler"
	"github.com/lurelabs/tokenpulse/internal/storage"
	"github.com/rs/zerolog/log"
)

// Server represents the API server.
type Server struct {
	router    *chi.Mux
	handlers  *Handlers
	pipe      *pipeline.Pipeline
	scheduler *scheduler.Scheduler
	addr      string
	server    *http.Server
}

// NewServer creates a new API server.
func NewServer(store *storage.Store, pipe *pipeline.Pipeline, sched *scheduler.Scheduler, addr string) *Server {
	handlers := NewHandlers(store, pipe)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Health
		r.Get("/health", handlers.HealthCheck)
		r.Get("/stats", handlers.GetStats)

		// Tokens
		r.Route("/tokens", func(r chi.Router) {
			r.Get("/", handlers.GetTokens)
			r.Get("/{symbol}", handlers.GetTokenBySymbol)
		})

		// Posts
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handlers.GetPosts)
			r.Get("/unposted", handlers.GetUnposted)
		})

		// Preview generation without posting
		r.Post("/preview", handlers.Preview)
	})

	srv := &Server{
		router:    r,
		handlers:  handlers,
		pipe:      pipe,
		scheduler: sched,
		addr:      addr,
	}

	// Admin routes (no auth for development)
	r.Route("/api/admin", func(r chi.Router) {
		// Force a posting cycle
		r.Post("/run", srv.AdminRunNow)

		// Job management
		r.Get("/jobs", srv.AdminGetJobs)
		r.Post("/jobs/{name}/run", srv.AdminRunJob)
	})

	return srv
}

// Start starts the API server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", s.addr).Msg("Starting API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// ============================================================================
// ADMIN HANDLERS
// ============================================================================

// AdminRunNow triggers an immediate posting cycle.
func (s *Server) AdminRunNow(w http.ResponseWriter, r *http.Request) {
	if s.pipe == nil {
		respondError(w, http.StatusServiceUnavailable, "Pipeline not available")
		return
	}

	limit := getLimit(r, 1)

	reports, err := s.pipe.Run(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Posting cycle failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"reports": reports,
	})
}

// AdminGetJobs returns the status of all scheduled jobs.
func (s *Server) AdminGetJobs(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not available")
		return
	}

	jobs := s.scheduler.GetJobStatus()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// AdminRunJob runs a specific job by name.
func (s *Server) AdminRunJob(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not available")
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Job name is required")
		return
	}

	if !s.scheduler.RunJobNow(name) {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Job triggered: " + name,
	})
}
