package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lurelabs/tokenpulse/internal/pipeline"
	"github.com/lurelabs/tokenpulse/internal/storage"
)

// Handlers holds the API handlers.
type Handlers struct {
	store *storage.Store
	pipe  *pipeline.Pipeline
}

// NewHandlers creates new API handlers.
func NewHandlers(store *storage.Store, pipe *pipeline.Pipeline) *Handlers {
	return &Handlers{store: store, pipe: pipe}
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func getLimit(r *http.Request, defaultLimit int) int {
	limit := defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	return limit
}

// ============================================================================
// TOKEN HANDLERS
// ============================================================================

// GetTokens returns recently collected token snapshots.
func (h *Handlers) GetTokens(w http.ResponseWriter, r *http.Request) {
	limit := getLimit(r, 20)

	tokens, err := h.store.GetLatestTokens(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": tokens,
		"count":  len(tokens),
	})
}

// GetTokenBySymbol returns the latest snapshot for a token symbol.
func (h *Handlers) GetTokenBySymbol(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	token, err := h.store.GetTokenBySymbol(r.Context(), symbol)
	if err != nil {
		respondError(w, http.StatusNotFound, "Token not found")
		return
	}

	respondJSON(w, http.StatusOK, token)
}

// ============================================================================
// POST HANDLERS
// ============================================================================

// GetPosts returns recently processed posts with their outcomes.
func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	limit := getLimit(r, 20)

	posts, err := h.store.GetRecentProcessed(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"count": len(posts),
	})
}

// GetUnposted returns processed posts not yet delivered anywhere.
func (h *Handlers) GetUnposted(w http.ResponseWriter, r *http.Request) {
	limit := getLimit(r, 20)

	posts, err := h.store.GetUnposted(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"count": len(posts),
	})
}

// Preview generates messages for the latest tokens without posting.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	limit := getLimit(r, 1)

	reports, err := h.pipe.Preview(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate preview")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}

// ============================================================================
// SYSTEM HANDLERS
// ============================================================================

// HealthCheck returns service health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetStats returns general statistics.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
