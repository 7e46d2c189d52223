package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"campus-canteen/internal/logger"
	"campus-canteen/internal/services"

	"github.com/AMFarhan21/fres"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// APIHandler serves the JSON endpoints
type APIHandler struct {
	catalog *services.CatalogService
	db      Pinger
}

func NewAPIHandler(catalog *services.CatalogService, db Pinger) *APIHandler {
	return &APIHandler{catalog: catalog, db: db}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode json response", "error", err)
	}
}

// Menu returns the available products
func (h *APIHandler) Menu(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Menu(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("api menu failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, fres.Response.StatusInternalServerError(http.StatusInternalServerError))
		return
	}
	writeJSON(w, http.StatusOK, fres.Response.StatusOK(products))
}

// Health reports whether the database answers
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "campus-canteen",
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logger.FromContext(r.Context()).Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, fres.Response.StatusInternalServerError(http.StatusServiceUnavailable))
			return
		}
	}

	writeJSON(w, http.StatusOK, fres.Response.StatusOK(status))
}
