package server

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Events cross the websocket as a {type, data} envelope, one tagged variant
// per event name. Inbound payloads are validated before dispatch.

const (
	// client → server
	evJoinRoom     = "join_room"
	evLeaveRoom    = "leave_room"
	evSelectCity   = "select_city"
	evSelectColor  = "select_color"
	evSubmitAnswer = "submit_answer"

	// server → client
	evJoinedRoom      = "joined_room"
	evJoinError       = "join_error"
	evRoomState       = "room_state"
	evQuestionStarted = "question_started"
	evQuestionTimeout = "question_timeout"
	evAnswerAck       = "answer_ack"
	evAnswerResult    = "answer_result"
	evCityConquered   = "city_conquered"
	evScoreUpdate     = "score_update"
)

// answer_ack rejection reasons.
const (
	reasonNotJoined          = "not_joined"
	reasonQuestionInProgress = "question_in_progress"
	reasonCityNotFound       = "city_not_found"
	reasonOccupied           = "occupied"
	reasonNoQuestion         = "no_question_available"
	reasonServerError        = "server_error"
	reasonNoActiveQuestion   = "no_active_question"
	reasonTooLate            = "too_late"
	reasonAlreadyAnswered    = "already_answered"
)

type event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type inboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type joinRoomPayload struct {
	RoomCode string `json:"roomCode" validate:"required,len=5,alphanum"`
	Nickname string `json:"nickname" validate:"max=64"`
}

type selectCityPayload struct {
	CityCode string `json:"cityCode" validate:"required,max=64"`
}

type selectColorPayload struct {
	Color string `json:"color" validate:"required,max=32"`
}

type submitAnswerPayload struct {
	ChoiceIndex int `json:"choiceIndex" validate:"gte=0"`
}

type joinedRoomPayload struct {
	RoomCode string `json:"roomCode"`
	TeamID   string `json:"teamId"`
	Nickname string `json:"nickname"`
}

type joinErrorPayload struct {
	Message string `json:"message"`
}

type questionTimeoutPayload struct {
	CityCode string `json:"cityCode"`
}

type answerAckPayload struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

type answerResultPayload struct {
	CityCode   string `json:"cityCode"`
	TeamID     string `json:"teamId,omitempty"`
	WasCorrect bool   `json:"wasCorrect"`
	Nickname   string `json:"nickname,omitempty"`
	Message    string `json:"message,omitempty"`
}

type cityConqueredPayload struct {
	CityCode string `json:"cityCode"`
	TeamID   string `json:"teamId"`
}

type scoreUpdatePayload struct {
	TeamID string `json:"teamId"`
	Score  int    `json:"score"`
}

var validate = validator.New()

func decodePayload[T any](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return payload, fmt.Errorf("decoding payload: %w", err)
		}
	}
	if err := validate.Struct(&payload); err != nil {
		return payload, fmt.Errorf("validating payload: %w", err)
	}
	return payload, nil
}
