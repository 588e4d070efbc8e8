package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type failingStore struct {
	Store
}

func (failingStore) Ping(context.Context) error {
	return errors.New("store is down")
}

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("healthy", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handleHealth(logger, NewMemoryStore())(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var checks map[string]struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&checks); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if checks["store"].Status != "ok" {
			t.Fatalf("store status = %q, want ok", checks["store"].Status)
		}
	})

	t.Run("store down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handleHealth(logger, failingStore{NewMemoryStore()})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
		}
	})
}
