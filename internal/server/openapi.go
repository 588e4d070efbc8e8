package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Anadolu Hakimiyeti API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Anadolu Hakimiyeti map conquest quiz.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]struct {
		Status string `json:"status"`
	}{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("Game event channel")
	getWS.SetDescription("Upgrades to a WebSocket carrying the bidirectional game events " +
		"(join_room, select_city, select_color, submit_answer and their server counterparts) " +
		"as {type, data} JSON envelopes.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /api/rooms
	postRoom, _ := r.NewOperationContext(http.MethodPost, "/api/rooms")
	postRoom.SetSummary("Create a room")
	postRoom.SetDescription("Allocates a fresh 5-character room code and creates the room " +
		"with preset teams, regions and questions.")
	postRoom.AddRespStructure(CreateRoomResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(postRoom)

	// GET /api/rooms/{code}
	getRoom, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}")
	getRoom.SetSummary("Validate a room code")
	getRoom.SetDescription("Checks whether a room code resolves. Codes are normalized to upper case.")
	getRoom.AddRespStructure(RoomLookupResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getRoom)

	// GET /api/rooms/{code}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/state")
	getState.SetSummary("Room snapshot")
	getState.SetDescription("Returns the same snapshot the server pushes as room_state: teams " +
		"with scores and member counts, cities with owners, the recent log and the active question if any.")
	getState.AddRespStructure(RoomSnapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(spec)
	}
}
