package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// logCap bounds the per-room event log; newest entries first.
const logCap = 20

type LogEntry struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// activeQuestion is the single in-flight question for a room. At most one
// exists per room; a new selection is rejected while one is set.
type activeQuestion struct {
	id           string // instance identity, checked by the timeout path
	cityID       string
	cityCode     string
	cityName     string
	questionID   string
	prompt       string
	choices      []string
	correctIndex int
	expiresAt    time.Time
	timer        *time.Timer
	answered     map[string]struct{} // team IDs that already submitted
	winnerTeamID string
}

// roomSession holds the ephemeral per-room state that must not survive a
// process restart. All fields are guarded by mu; callers hold mu for the
// whole of any operation touching the room so that "first correct wins" is
// decided by lock order, not by scheduler luck.
type roomSession struct {
	mu      sync.Mutex
	members map[string]map[string]struct{} // teamID -> client IDs
	log     []LogEntry
	used    map[string]struct{} // question IDs already served
	active  *activeQuestion
}

// appendLog prepends an entry and truncates to the newest logCap entries.
// Caller holds mu.
func (s *roomSession) appendLog(message string) LogEntry {
	entry := LogEntry{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
	s.log = append([]LogEntry{entry}, s.log...)
	if len(s.log) > logCap {
		s.log = s.log[:logCap]
	}
	return entry
}

// logSnapshot copies the log for use outside the lock. Caller holds mu.
func (s *roomSession) logSnapshot() []LogEntry {
	out := make([]LogEntry, len(s.log))
	copy(out, s.log)
	return out
}

// clearActive stops the expiry timer and drops the active question.
// Caller holds mu.
func (s *roomSession) clearActive() {
	if s.active != nil {
		s.active.timer.Stop()
		s.active = nil
	}
}

// sessionRegistry is the process-wide map of room code to live session data.
type sessionRegistry struct {
	mu    sync.Mutex
	rooms map[string]*roomSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		rooms: make(map[string]*roomSession),
	}
}

// room returns the session for a room code, creating it if absent.
func (r *sessionRegistry) room(code string) *roomSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.rooms[code]; ok {
		return s
	}
	s := &roomSession{
		members: make(map[string]map[string]struct{}),
		used:    make(map[string]struct{}),
	}
	r.rooms[code] = s
	return s
}
