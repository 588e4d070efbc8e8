package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// questionDuration is the answer window for a networked room.
const questionDuration = 15 * time.Second

const defaultNickname = "Misafir"

// game coordinates rooms: it owns the session registry and drives the
// per-room question state machine. All state transitions for one room run
// under that room's session mutex, so "first correct wins" is well-defined
// even with many connections submitting at once.
type game struct {
	store       Store
	sessions    *sessionRegistry
	hub         *hub
	logger      *slog.Logger
	questionTTL time.Duration
}

func newGame(store Store, h *hub, logger *slog.Logger) *game {
	return &game{
		store:       store,
		sessions:    newSessionRegistry(),
		hub:         h,
		logger:      logger,
		questionTTL: questionDuration,
	}
}

// Join validates the room, assigns the connection to the team with the
// fewest members (ties broken by name) and announces the arrival.
func (g *game) Join(ctx context.Context, c *client, p joinRoomPayload) {
	if c.joined() {
		g.Leave(ctx, c)
	}

	nickname := strings.TrimSpace(p.Nickname)
	if nickname == "" {
		nickname = defaultNickname
	}
	if runes := []rune(nickname); len(runes) > 32 {
		nickname = string(runes[:32])
	}
	roomCode := strings.ToUpper(strings.TrimSpace(p.RoomCode))

	state, err := g.store.GetRoomWithState(ctx, roomCode)
	if errors.Is(err, ErrNotFound) {
		c.sendEvent(event{Type: evJoinError, Data: joinErrorPayload{Message: "Oda bulunamadı."}})
		return
	}
	if err != nil {
		g.logger.Error("join_room failed", "room", roomCode, "error", err)
		c.sendEvent(event{Type: evJoinError, Data: joinErrorPayload{Message: "Odaya katılırken hata oluştu."}})
		return
	}
	if len(state.Teams) == 0 {
		c.sendEvent(event{Type: evJoinError, Data: joinErrorPayload{Message: "Bu oda için takım bulunamadı."}})
		return
	}

	sess := g.sessions.room(roomCode)
	sess.mu.Lock()
	for _, team := range state.Teams {
		if sess.members[team.ID] == nil {
			sess.members[team.ID] = make(map[string]struct{})
		}
	}
	assigned := lo.MinBy(state.Teams, func(a, b Team) bool {
		ca, cb := len(sess.members[a.ID]), len(sess.members[b.ID])
		if ca != cb {
			return ca < cb
		}
		return a.Name < b.Name
	})
	sess.members[assigned.ID][c.id] = struct{}{}
	sess.appendLog(fmt.Sprintf("%s %s takımına katıldı.", nickname, assigned.Name))
	sess.mu.Unlock()

	c.roomCode = state.Room.Code
	c.roomID = state.Room.ID
	c.teamID = assigned.ID
	c.nickname = nickname

	g.hub.join(roomCode, c)
	c.sendEvent(event{Type: evJoinedRoom, Data: joinedRoomPayload{
		RoomCode: state.Room.Code,
		TeamID:   assigned.ID,
		Nickname: nickname,
	}})
	g.broadcastRoomState(ctx, roomCode)
}

// Leave detaches the connection from its room. No-op if never joined.
func (g *game) Leave(ctx context.Context, c *client) {
	if c.roomCode == "" {
		return
	}
	roomCode := c.roomCode

	nickname := c.nickname
	if nickname == "" {
		nickname = "Katılımcı"
	}

	sess := g.sessions.room(roomCode)
	sess.mu.Lock()
	if c.teamID != "" {
		delete(sess.members[c.teamID], c.id)
	}
	sess.appendLog(fmt.Sprintf("%s oyundan ayrıldı.", nickname))
	sess.mu.Unlock()

	g.hub.leave(roomCode, c)
	c.roomCode = ""
	c.roomID = ""
	c.teamID = ""

	g.broadcastRoomState(ctx, roomCode)
}

// StartQuestionCity handles select_city: the caller names the target city
// explicitly and it must be unclaimed.
func (g *game) StartQuestionCity(ctx context.Context, c *client, cityCode string) {
	if g.startQuestionCity(ctx, c, cityCode) {
		g.broadcastRoomState(ctx, c.roomCode)
	}
}

func (g *game) startQuestionCity(ctx context.Context, c *client, cityCode string) bool {
	if !c.joined() {
		c.sendEvent(ack(reasonNotJoined))
		return false
	}

	sess := g.sessions.room(c.roomCode)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.active != nil {
		c.sendEvent(ack(reasonQuestionInProgress))
		return false
	}

	city, err := g.store.GetCityForSelection(ctx, c.roomID, cityCode)
	if errors.Is(err, ErrNotFound) {
		c.sendEvent(ack(reasonCityNotFound))
		return false
	}
	if err != nil {
		g.logger.Error("select_city failed", "room", c.roomCode, "error", err)
		c.sendEvent(ack(reasonServerError))
		return false
	}
	if city.OwnerTeamID != "" {
		c.sendEvent(ack(reasonOccupied))
		return false
	}

	return g.startQuestionLocked(ctx, c, sess, city)
}

// StartQuestionColor handles select_color: the target is drawn uniformly at
// random from the unclaimed cities of that color.
func (g *game) StartQuestionColor(ctx context.Context, c *client, color string) {
	if g.startQuestionColor(ctx, c, color) {
		g.broadcastRoomState(ctx, c.roomCode)
	}
}

func (g *game) startQuestionColor(ctx context.Context, c *client, color string) bool {
	if !c.joined() {
		c.sendEvent(ack(reasonNotJoined))
		return false
	}

	sess := g.sessions.room(c.roomCode)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.active != nil {
		c.sendEvent(ack(reasonQuestionInProgress))
		return false
	}

	candidates, err := g.store.ListUnownedCitiesByColor(ctx, c.roomID, color)
	if err != nil {
		g.logger.Error("select_color failed", "room", c.roomCode, "error", err)
		c.sendEvent(ack(reasonServerError))
		return false
	}
	if len(candidates) == 0 {
		c.sendEvent(ack(reasonOccupied))
		return false
	}

	city := candidates[rand.IntN(len(candidates))]
	return g.startQuestionLocked(ctx, c, sess, city)
}

// startQuestionLocked selects a question for the resolved city, arms the
// expiry timer and announces the question. Caller holds sess.mu and has
// verified no question is in flight.
func (g *game) startQuestionLocked(ctx context.Context, c *client, sess *roomSession, city City) bool {
	roomCode := c.roomCode

	question, err := g.store.SelectQuestionForCity(ctx, c.roomID, city, sess.used)
	if errors.Is(err, ErrNotFound) {
		c.sendEvent(ack(reasonNoQuestion))
		return false
	}
	if err != nil {
		g.logger.Error("question selection failed", "room", roomCode, "city", city.Code, "error", err)
		c.sendEvent(ack(reasonServerError))
		return false
	}

	active := &activeQuestion{
		id:           uuid.NewString(),
		cityID:       city.ID,
		cityCode:     city.Code,
		cityName:     city.Name,
		questionID:   question.ID,
		prompt:       question.Prompt,
		choices:      question.Choices,
		correctIndex: question.CorrectIndex,
		expiresAt:    time.Now().Add(g.questionTTL),
		answered:     make(map[string]struct{}),
	}
	active.timer = time.AfterFunc(g.questionTTL, func() {
		g.handleTimeout(roomCode, active.id)
	})
	sess.active = active
	sess.used[question.ID] = struct{}{}
	sess.appendLog(fmt.Sprintf("%s için soru başladı.", city.Name))

	// The correct index is never sent to clients.
	g.hub.broadcast(roomCode, event{Type: evQuestionStarted, Data: QuestionView{
		ID:        question.ID,
		Prompt:    question.Prompt,
		Choices:   question.Choices,
		CityCode:  city.Code,
		ExpiresAt: active.expiresAt.UnixMilli(),
	}})
	return true
}

// SubmitAnswer handles submit_answer for the room's active question.
func (g *game) SubmitAnswer(ctx context.Context, c *client, choiceIndex int) {
	if g.submitAnswer(ctx, c, choiceIndex) {
		g.broadcastRoomState(ctx, c.roomCode)
	}
}

func (g *game) submitAnswer(ctx context.Context, c *client, choiceIndex int) bool {
	if !c.joined() {
		c.sendEvent(ack(reasonNotJoined))
		return false
	}
	roomCode := c.roomCode

	sess := g.sessions.room(roomCode)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	active := sess.active
	if active == nil {
		c.sendEvent(ack(reasonNoActiveQuestion))
		return false
	}
	if time.Now().After(active.expiresAt) {
		c.sendEvent(ack(reasonTooLate))
		return false
	}
	if _, dup := active.answered[c.teamID]; dup {
		c.sendEvent(ack(reasonAlreadyAnswered))
		return false
	}

	// The decisive transitions (marking the team as answered, checking and
	// setting the winner) happen here, before any gateway call.
	active.answered[c.teamID] = struct{}{}
	c.sendEvent(event{Type: evAnswerAck, Data: answerAckPayload{Accepted: true}})

	isCorrect := choiceIndex == active.correctIndex

	if err := g.store.RecordAnswerLog(ctx, AnswerLog{
		TeamID:         c.teamID,
		QuestionID:     active.questionID,
		CityID:         active.cityID,
		IsCorrect:      isCorrect,
		IsFirstCorrect: isCorrect && active.winnerTeamID == "",
	}); err != nil {
		g.logger.Error("recording answer log failed", "room", roomCode, "error", err)
	}

	if !isCorrect {
		// One wrong answer ends the round for this city.
		sess.clearActive()
		g.hub.broadcast(roomCode, event{Type: evAnswerResult, Data: answerResultPayload{
			CityCode:   active.cityCode,
			WasCorrect: false,
			Nickname:   c.nickname,
			Message:    "Yanlış cevap.",
		}})
		return true
	}

	if active.winnerTeamID != "" {
		// Correct, but processed after the window already closed.
		c.sendEvent(event{Type: evAnswerResult, Data: answerResultPayload{
			CityCode:   active.cityCode,
			WasCorrect: true,
			Nickname:   c.nickname,
			Message:    "Bir başka takım daha önce doğru bildi.",
		}})
		return false
	}

	active.winnerTeamID = c.teamID

	city, err := g.store.AssignCityOwner(ctx, active.cityID, c.teamID)
	if err != nil {
		// Winner rolled back; the expiry timer is still armed and will
		// close the round if nobody else wins.
		active.winnerTeamID = ""
		g.logger.Error("assigning city owner failed", "room", roomCode, "city", active.cityCode, "error", err)
		c.sendEvent(ack(reasonServerError))
		return false
	}
	team, err := g.store.IncrementTeamScore(ctx, c.teamID)
	if err != nil {
		g.logger.Error("incrementing team score failed", "room", roomCode, "team", c.teamID, "error", err)
		c.sendEvent(ack(reasonServerError))
		return false
	}

	sess.clearActive()
	sess.appendLog(fmt.Sprintf("%s %s şehrini kazandı!", c.nickname, city.Name))

	g.hub.broadcast(roomCode, event{Type: evAnswerResult, Data: answerResultPayload{
		CityCode:   active.cityCode,
		TeamID:     c.teamID,
		WasCorrect: true,
		Nickname:   c.nickname,
	}})
	g.hub.broadcast(roomCode, event{Type: evCityConquered, Data: cityConqueredPayload{
		CityCode: active.cityCode,
		TeamID:   c.teamID,
	}})
	g.hub.broadcast(roomCode, event{Type: evScoreUpdate, Data: scoreUpdatePayload{
		TeamID: team.ID,
		Score:  team.Score,
	}})
	return true
}

// handleTimeout fires when the answer window closes with no winner. The
// activeID guard makes it a no-op against a question that was already
// resolved and replaced.
func (g *game) handleTimeout(roomCode, activeID string) {
	sess := g.sessions.room(roomCode)
	sess.mu.Lock()
	active := sess.active
	if active == nil || active.id != activeID {
		sess.mu.Unlock()
		return
	}
	sess.active = nil
	sess.appendLog(fmt.Sprintf("Süre doldu: %s için doğru cevap gelmedi.", active.cityCode))
	// Announced under the lock: a selection racing the expiry must not
	// publish its question before this round's close.
	g.hub.broadcast(roomCode, event{Type: evQuestionTimeout, Data: questionTimeoutPayload{
		CityCode: active.cityCode,
	}})
	sess.mu.Unlock()

	g.broadcastRoomState(context.Background(), roomCode)
}

func ack(reason string) event {
	return event{Type: evAnswerAck, Data: answerAckPayload{Accepted: false, Reason: reason}}
}
