package server

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type Room struct {
	ID        string
	Code      string
	CreatedAt time.Time
}

type Team struct {
	ID     string
	RoomID string
	Name   string
	Color  string
	Score  int
}

type City struct {
	ID          string
	RoomID      string
	Code        string
	Name        string
	Region      string
	Color       string
	OwnerTeamID string // empty = unclaimed
	OwnerColor  string
}

type Question struct {
	ID           string
	RoomID       string
	Prompt       string
	Choices      []string
	CorrectIndex int
	Region       string
	CityID       string // empty = not bound to a city
}

type RoomWithState struct {
	Room   Room
	Teams  []Team // creation order
	Cities []City // name order
}

type AnswerLog struct {
	TeamID         string
	QuestionID     string
	CityID         string
	IsCorrect      bool
	IsFirstCorrect bool
}

// Store is the persistence gateway for rooms, teams, cities and questions.
// The coordination core treats it as a black box; it enforces no game rules
// of its own beyond uniqueness of room codes.
type Store interface {
	Ping(ctx context.Context) error

	CreateRoomWithPresets(ctx context.Context, code string) (Room, error)
	RoomExists(ctx context.Context, code string) (bool, error)
	GetRoomMeta(ctx context.Context, code string) (Room, error)
	GetRoomWithState(ctx context.Context, code string) (RoomWithState, error)

	GetCityForSelection(ctx context.Context, roomID, cityCode string) (City, error)
	ListUnownedCitiesByColor(ctx context.Context, roomID, color string) ([]City, error)

	// SelectQuestionForCity picks a question for the city: exact city binding
	// first, then an unbound question for the same region, then any unbound
	// question. Within each tier questions not in used are preferred; a fully
	// used tier falls back to reuse rather than failing.
	SelectQuestionForCity(ctx context.Context, roomID string, city City, used map[string]struct{}) (Question, error)

	RecordAnswerLog(ctx context.Context, entry AnswerLog) error
	AssignCityOwner(ctx context.Context, cityID, teamID string) (City, error)
	IncrementTeamScore(ctx context.Context, teamID string) (Team, error)
}
