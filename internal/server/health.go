package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

func handleHealth(logger *slog.Logger, store Store) http.HandlerFunc {
	type result struct {
		Status string `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]result{
			"store": {Status: "ok"},
		}
		status := http.StatusOK

		if err := store.Ping(ctx); err != nil {
			logger.Error("health check failed", "name", "store", "error", err)
			checks["store"] = result{Status: "error"}
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(checks)
	}
}
