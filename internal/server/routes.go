package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, spaDir string) {
	h := newHub()
	g := newGame(store, h, logger)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Anadolu Hakimiyeti API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, store))

	// The game runs over a single bidirectional event channel.
	r.Get("/ws", handleWS(logger, g))

	r.Route("/api/rooms", func(r chi.Router) {
		r.Post("/", handleCreateRoom(logger, store))
		r.Get("/{code}", handleRoomLookup(store))
		r.Get("/{code}/state", handleRoomState(g))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
