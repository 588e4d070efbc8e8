package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the in-memory fallback gateway, used when no database is
// configured and in tests. Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	roomsByID   map[string]Room
	roomsByCode map[string]Room
	teams       map[string]*Team
	teamOrder   map[string][]string // roomID -> team IDs in creation order
	cities      map[string]*City
	questions   map[string]*Question
	qOrder      map[string][]string // roomID -> question IDs in creation order
	answerLogs  []AnswerLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		roomsByID:   make(map[string]Room),
		roomsByCode: make(map[string]Room),
		teams:       make(map[string]*Team),
		teamOrder:   make(map[string][]string),
		cities:      make(map[string]*City),
		questions:   make(map[string]*Question),
		qOrder:      make(map[string][]string),
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) CreateRoomWithPresets(_ context.Context, code string) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.roomsByCode[code]; ok {
		return existing, nil
	}

	room := Room{ID: uuid.NewString(), Code: code, CreatedAt: time.Now().UTC()}
	s.roomsByID[room.ID] = room
	s.roomsByCode[code] = room

	for _, t := range teamPresets {
		team := &Team{ID: uuid.NewString(), RoomID: room.ID, Name: t.Name, Color: t.Color}
		s.teams[team.ID] = team
		s.teamOrder[room.ID] = append(s.teamOrder[room.ID], team.ID)
	}

	cityIDByCode := make(map[string]string, len(cityPresets))
	for _, c := range cityPresets {
		city := &City{
			ID:     uuid.NewString(),
			RoomID: room.ID,
			Code:   c.Code,
			Name:   c.Name,
			Region: c.Region,
			Color:  c.Color,
		}
		s.cities[city.ID] = city
		cityIDByCode[c.Code] = city.ID
	}

	for _, q := range questionPresets {
		question := &Question{
			ID:           uuid.NewString(),
			RoomID:       room.ID,
			Prompt:       q.Prompt,
			Choices:      append([]string(nil), q.Choices...),
			CorrectIndex: q.CorrectIndex,
			Region:       q.Region,
			CityID:       cityIDByCode[q.CityCode],
		}
		s.questions[question.ID] = question
		s.qOrder[room.ID] = append(s.qOrder[room.ID], question.ID)
	}

	return room, nil
}

func (s *MemoryStore) RoomExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.roomsByCode[code]
	return ok, nil
}

func (s *MemoryStore) GetRoomMeta(_ context.Context, code string) (Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.roomsByCode[code]
	if !ok {
		return Room{}, ErrNotFound
	}
	return room, nil
}

func (s *MemoryStore) GetRoomWithState(_ context.Context, code string) (RoomWithState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.roomsByCode[code]
	if !ok {
		return RoomWithState{}, ErrNotFound
	}

	state := RoomWithState{Room: room}
	for _, id := range s.teamOrder[room.ID] {
		state.Teams = append(state.Teams, *s.teams[id])
	}

	for _, city := range s.cities {
		if city.RoomID != room.ID {
			continue
		}
		c := *city
		if c.OwnerTeamID != "" {
			if owner, ok := s.teams[c.OwnerTeamID]; ok {
				c.OwnerColor = owner.Color
			}
		}
		state.Cities = append(state.Cities, c)
	}
	sort.Slice(state.Cities, func(i, j int) bool {
		return state.Cities[i].Name < state.Cities[j].Name
	})

	return state, nil
}

func (s *MemoryStore) GetCityForSelection(_ context.Context, roomID, cityCode string) (City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, city := range s.cities {
		if city.RoomID == roomID && city.Code == cityCode {
			c := *city
			if c.OwnerTeamID != "" {
				if owner, ok := s.teams[c.OwnerTeamID]; ok {
					c.OwnerColor = owner.Color
				}
			}
			return c, nil
		}
	}
	return City{}, ErrNotFound
}

func (s *MemoryStore) ListUnownedCitiesByColor(_ context.Context, roomID, color string) ([]City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cities []City
	for _, city := range s.cities {
		if city.RoomID == roomID && city.Color == color && city.OwnerTeamID == "" {
			cities = append(cities, *city)
		}
	}
	sort.Slice(cities, func(i, j int) bool { return cities[i].Code < cities[j].Code })
	return cities, nil
}

func (s *MemoryStore) SelectQuestionForCity(_ context.Context, roomID string, city City, used map[string]struct{}) (Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exact, regional, unbound []Question
	for _, id := range s.qOrder[roomID] {
		q := *s.questions[id]
		switch {
		case q.CityID == city.ID && city.ID != "":
			exact = append(exact, q)
		case q.CityID == "" && q.Region != "" && q.Region == city.Region:
			regional = append(regional, q)
		case q.CityID == "":
			unbound = append(unbound, q)
		}
	}

	for _, tier := range [][]Question{exact, regional, unbound} {
		if q, ok := pickQuestion(tier, used); ok {
			return q, nil
		}
	}
	return Question{}, ErrNotFound
}

func (s *MemoryStore) RecordAnswerLog(_ context.Context, entry AnswerLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answerLogs = append(s.answerLogs, entry)
	return nil
}

func (s *MemoryStore) AssignCityOwner(_ context.Context, cityID, teamID string) (City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	city, ok := s.cities[cityID]
	if !ok {
		return City{}, ErrNotFound
	}
	city.OwnerTeamID = teamID
	return *city, nil
}

func (s *MemoryStore) IncrementTeamScore(_ context.Context, teamID string) (Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[teamID]
	if !ok {
		return Team{}, ErrNotFound
	}
	team.Score++
	return *team, nil
}
