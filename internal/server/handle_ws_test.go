package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func dialTestServer(t *testing.T) (*websocket.Conn, *MemoryStore, context.Context) {
	t.Helper()

	router, store := newTestRouter(t)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	t.Cleanup(func() { conn.CloseNow() })

	return conn, store, ctx
}

// readUntil consumes events until one of the wanted type arrives. Interleaved
// room_state pushes and other broadcasts are skipped.
func readUntil(ctx context.Context, t *testing.T, conn *websocket.Conn, eventType string) json.RawMessage {
	t.Helper()

	for {
		var ev wsEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			t.Fatalf("waiting for %s: %v", eventType, err)
		}
		if ev.Type == eventType {
			return ev.Data
		}
	}
}

func send(ctx context.Context, t *testing.T, conn *websocket.Conn, eventType string, data any) {
	t.Helper()
	if err := wsjson.Write(ctx, conn, event{Type: eventType, Data: data}); err != nil {
		t.Fatalf("sending %s: %v", eventType, err)
	}
}

func TestWebsocketConquestFlow(t *testing.T) {
	conn, store, ctx := dialTestServer(t)

	if _, err := store.CreateRoomWithPresets(ctx, "WSTST"); err != nil {
		t.Fatalf("creating room: %v", err)
	}

	// Join.
	send(ctx, t, conn, evJoinRoom, joinRoomPayload{RoomCode: "WSTST", Nickname: "ayse"})

	var joined joinedRoomPayload
	if err := json.Unmarshal(readUntil(ctx, t, conn, evJoinedRoom), &joined); err != nil {
		t.Fatalf("decoding joined_room: %v", err)
	}
	if joined.RoomCode != "WSTST" || joined.TeamID == "" {
		t.Fatalf("unexpected joined_room payload: %+v", joined)
	}

	var state RoomSnapshot
	if err := json.Unmarshal(readUntil(ctx, t, conn, evRoomState), &state); err != nil {
		t.Fatalf("decoding room_state: %v", err)
	}
	if len(state.Cities) != len(cityPresets) {
		t.Fatalf("cities = %d, want %d", len(state.Cities), len(cityPresets))
	}

	// Pick a city; the question announcement goes to the whole room.
	send(ctx, t, conn, evSelectCity, selectCityPayload{CityCode: "REG-MARMARA"})

	var question QuestionView
	if err := json.Unmarshal(readUntil(ctx, t, conn, evQuestionStarted), &question); err != nil {
		t.Fatalf("decoding question_started: %v", err)
	}
	if question.CityCode != "REG-MARMARA" {
		t.Fatalf("question city = %q, want REG-MARMARA", question.CityCode)
	}
	if question.ExpiresAt <= time.Now().UnixMilli() {
		t.Fatalf("question already expired: %d", question.ExpiresAt)
	}

	correct := -1
	for _, preset := range questionPresets {
		if preset.Prompt == question.Prompt {
			correct = preset.CorrectIndex
			break
		}
	}
	if correct < 0 {
		t.Fatalf("question %q not in presets", question.Prompt)
	}

	// Answer correctly and watch the conquest land.
	send(ctx, t, conn, evSubmitAnswer, submitAnswerPayload{ChoiceIndex: correct})

	var ackPayload answerAckPayload
	if err := json.Unmarshal(readUntil(ctx, t, conn, evAnswerAck), &ackPayload); err != nil {
		t.Fatalf("decoding answer_ack: %v", err)
	}
	if !ackPayload.Accepted {
		t.Fatalf("answer rejected: %s", ackPayload.Reason)
	}

	var conquered cityConqueredPayload
	if err := json.Unmarshal(readUntil(ctx, t, conn, evCityConquered), &conquered); err != nil {
		t.Fatalf("decoding city_conquered: %v", err)
	}
	if conquered.CityCode != "REG-MARMARA" || conquered.TeamID != joined.TeamID {
		t.Fatalf("unexpected city_conquered payload: %+v", conquered)
	}

	var score scoreUpdatePayload
	if err := json.Unmarshal(readUntil(ctx, t, conn, evScoreUpdate), &score); err != nil {
		t.Fatalf("decoding score_update: %v", err)
	}
	if score.TeamID != joined.TeamID || score.Score != 1 {
		t.Fatalf("unexpected score_update payload: %+v", score)
	}

	if err := json.Unmarshal(readUntil(ctx, t, conn, evRoomState), &state); err != nil {
		t.Fatalf("decoding room_state: %v", err)
	}
	for _, city := range state.Cities {
		if city.Code != "REG-MARMARA" {
			continue
		}
		if city.OwnerTeamID == nil || *city.OwnerTeamID != joined.TeamID {
			t.Fatalf("city owner = %v, want %s", city.OwnerTeamID, joined.TeamID)
		}
	}
}

func TestWebsocketJoinValidation(t *testing.T) {
	conn, _, ctx := dialTestServer(t)

	// A malformed room code never reaches the game core.
	send(ctx, t, conn, evJoinRoom, map[string]string{"roomCode": "nope"})

	var p joinErrorPayload
	if err := json.Unmarshal(readUntil(ctx, t, conn, evJoinError), &p); err != nil {
		t.Fatalf("decoding join_error: %v", err)
	}
	if p.Message == "" {
		t.Fatal("join_error carries no message")
	}
}

func TestWebsocketActionsBeforeJoin(t *testing.T) {
	conn, _, ctx := dialTestServer(t)

	send(ctx, t, conn, evSubmitAnswer, submitAnswerPayload{ChoiceIndex: 0})

	var ackPayload answerAckPayload
	if err := json.Unmarshal(readUntil(ctx, t, conn, evAnswerAck), &ackPayload); err != nil {
		t.Fatalf("decoding answer_ack: %v", err)
	}
	if ackPayload.Accepted || ackPayload.Reason != reasonNotJoined {
		t.Fatalf("ack = %+v, want rejection with %s", ackPayload, reasonNotJoined)
	}
}
