// Package debugserver exposes the symbol graph's introspection endpoints
// over HTTP: a liveness check, the graph's size statistics, and the
// current deferred-reference queue. It is a debugging convenience, not
// part of the LSP surface (spec §6: "toJSON output is a debugging
// convenience and not a stable on-disk format").
package debugserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/forcedotcom/apexls-core/internal/symbolgraph"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// NewRouter builds the debug/introspection HTTP surface over graph.
func NewRouter(logger *slog.Logger, graph *symbolgraph.Graph) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, graph.GetStats())
	})

	r.Get("/deferred", func(w http.ResponseWriter, r *http.Request) {
		targets := graph.DeferredTargets()
		logger.Debug("deferred reference queue requested", slog.Int("distinctTargets", len(targets)))
		writeJSON(w, http.StatusOK, targets)
	})

	return r
}
