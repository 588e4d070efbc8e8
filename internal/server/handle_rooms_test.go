package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T) (chi.Router, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	addRoutes(r, logger, store, "")
	return r, store
}

func TestCreateRoomHandler(t *testing.T) {
	r, store := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var resp CreateRoomResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Code) != roomCodeLength {
		t.Fatalf("code %q has length %d, want %d", resp.Code, len(resp.Code), roomCodeLength)
	}

	exists, err := store.RoomExists(context.Background(), resp.Code)
	if err != nil {
		t.Fatalf("RoomExists: %v", err)
	}
	if !exists {
		t.Fatalf("room %q was not persisted", resp.Code)
	}
}

func TestRoomLookupHandler(t *testing.T) {
	r, store := newTestRouter(t)

	if _, err := store.CreateRoomWithPresets(context.Background(), "ABCDE"); err != nil {
		t.Fatalf("creating room: %v", err)
	}

	tests := []struct {
		name       string
		path       string
		wantExists bool
		wantCode   string
	}{
		{"existing room", "/api/rooms/ABCDE", true, "ABCDE"},
		{"lower case is normalized", "/api/rooms/abcde", true, "ABCDE"},
		{"unknown room", "/api/rooms/ZZZZZ", false, "ZZZZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			var resp RoomLookupResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.Exists != tt.wantExists {
				t.Fatalf("exists = %v, want %v", resp.Exists, tt.wantExists)
			}
			if resp.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestRoomStateHandler(t *testing.T) {
	r, store := newTestRouter(t)

	if _, err := store.CreateRoomWithPresets(context.Background(), "ABCDE"); err != nil {
		t.Fatalf("creating room: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/ABCDE/state", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var snapshot RoomSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if snapshot.Code != "ABCDE" {
		t.Fatalf("code = %q, want ABCDE", snapshot.Code)
	}
	if len(snapshot.Teams) != len(teamPresets) {
		t.Fatalf("teams = %d, want %d", len(snapshot.Teams), len(teamPresets))
	}
	if len(snapshot.Cities) != len(cityPresets) {
		t.Fatalf("cities = %d, want %d", len(snapshot.Cities), len(cityPresets))
	}
	for _, city := range snapshot.Cities {
		if city.OwnerTeamID != nil {
			t.Fatalf("city %s unexpectedly owned", city.Code)
		}
	}
}

func TestRoomStateHandlerNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/ZZZZZ/state", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
