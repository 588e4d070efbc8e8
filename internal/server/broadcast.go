package server

import (
	"context"
	"errors"

	"github.com/samber/lo"
)

type TeamSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Score   int    `json:"score"`
	Members int    `json:"members"`
}

type CityView struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Region      *string `json:"region"`
	Color       string  `json:"color,omitempty"`
	OwnerTeamID *string `json:"ownerTeamId"`
	OwnerColor  *string `json:"ownerColor"`
}

type QuestionView struct {
	ID        string   `json:"id"`
	Prompt    string   `json:"prompt"`
	Choices   []string `json:"choices"`
	CityCode  string   `json:"cityCode"`
	ExpiresAt int64    `json:"expiresAt"` // unix milliseconds
}

type RoomSnapshot struct {
	Code           string        `json:"code"`
	Teams          []TeamSummary `json:"teams"`
	Cities         []CityView    `json:"cities"`
	Log            []LogEntry    `json:"log"`
	ActiveQuestion *QuestionView `json:"activeQuestion,omitempty"`
}

// Snapshot assembles a consistent view of a room from the persistence
// gateway and the session registry. The second return is false when the
// room does not exist (it may have been deleted externally).
func (g *game) Snapshot(ctx context.Context, roomCode string) (RoomSnapshot, bool) {
	state, err := g.store.GetRoomWithState(ctx, roomCode)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			g.logger.Error("building room state failed", "room", roomCode, "error", err)
		}
		return RoomSnapshot{}, false
	}

	sess := g.sessions.room(roomCode)
	sess.mu.Lock()
	memberCounts := make(map[string]int, len(sess.members))
	for teamID, conns := range sess.members {
		memberCounts[teamID] = len(conns)
	}
	log := sess.logSnapshot()
	var active *QuestionView
	if a := sess.active; a != nil {
		active = &QuestionView{
			ID:        a.questionID,
			Prompt:    a.prompt,
			Choices:   a.choices,
			CityCode:  a.cityCode,
			ExpiresAt: a.expiresAt.UnixMilli(),
		}
	}
	sess.mu.Unlock()

	teams := lo.Map(state.Teams, func(t Team, _ int) TeamSummary {
		return TeamSummary{
			ID:      t.ID,
			Name:    t.Name,
			Color:   t.Color,
			Score:   t.Score,
			Members: memberCounts[t.ID],
		}
	})
	cities := lo.Map(state.Cities, func(c City, _ int) CityView {
		return CityView{
			ID:          c.ID,
			Code:        c.Code,
			Name:        c.Name,
			Region:      nilIfEmpty(c.Region),
			Color:       c.Color,
			OwnerTeamID: nilIfEmpty(c.OwnerTeamID),
			OwnerColor:  nilIfEmpty(c.OwnerColor),
		}
	})

	return RoomSnapshot{
		Code:           state.Room.Code,
		Teams:          teams,
		Cities:         cities,
		Log:            log,
		ActiveQuestion: active,
	}, true
}

// broadcastRoomState pushes a fresh snapshot to every connection in the
// room. Emits nothing if the room is gone.
func (g *game) broadcastRoomState(ctx context.Context, roomCode string) {
	snapshot, ok := g.Snapshot(ctx, roomCode)
	if !ok {
		return
	}
	g.hub.broadcast(roomCode, event{Type: evRoomState, Data: snapshot})
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
