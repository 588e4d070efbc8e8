package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// roomCodeAttempts bounds collision checks when allocating a new code.
const roomCodeAttempts = 5

type CreateRoomResponse struct {
	Code string `json:"code"`
}

type RoomLookupResponse struct {
	Exists bool   `json:"exists"`
	Code   string `json:"code"`
}

func handleCreateRoom(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for range roomCodeAttempts {
			candidate := newRoomCode()
			exists, err := store.RoomExists(r.Context(), candidate)
			if err != nil {
				logger.Error("checking room code failed", "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if !exists {
				code = candidate
				break
			}
		}
		if code == "" {
			writeError(w, http.StatusServiceUnavailable, "could not allocate a room code")
			return
		}

		room, err := store.CreateRoomWithPresets(r.Context(), code)
		if err != nil {
			logger.Error("creating room failed", "code", code, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, CreateRoomResponse{Code: room.Code})
	}
}

func handleRoomLookup(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
		if code == "" {
			writeJSON(w, http.StatusOK, RoomLookupResponse{Exists: false, Code: code})
			return
		}

		room, err := store.GetRoomMeta(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusOK, RoomLookupResponse{Exists: false, Code: code})
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, RoomLookupResponse{Exists: true, Code: room.Code})
	}
}

func handleRoomState(g *game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))

		snapshot, ok := g.Snapshot(r.Context(), code)
		if !ok {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}

		writeJSON(w, http.StatusOK, snapshot)
	}
}
