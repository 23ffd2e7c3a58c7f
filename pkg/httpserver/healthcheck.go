package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrymomot/mailbuilder/pkg/logger"
)

// Check reports whether a dependency is usable.
type Check func(context.Context) error

// HealthHandler answers liveness probes when checks is empty and readiness
// probes otherwise. Every check runs on each request; any failure yields 503.
// The body lists the status of each named check.
func HealthHandler(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	log = logger.OrDiscard(log)
	names := slices.Sorted(maps.Keys(checks))

	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks,omitempty"`
		}{Status: "ok"}

		if len(names) > 0 {
			body.Checks = make(map[string]string, len(names))
		}
		for _, name := range names {
			if err := checks[name](r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", slog.String("check", name), logger.Error(err))
				body.Checks[name] = err.Error()
				body.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			body.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
