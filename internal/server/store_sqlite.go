package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) CreateRoomWithPresets(ctx context.Context, code string) (Room, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Room{}, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	room := Room{ID: uuid.NewString(), Code: code, CreatedAt: time.Now().UTC()}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rooms (id, code) VALUES (?, ?)
	`, room.ID, room.Code); err != nil {
		return Room{}, fmt.Errorf("inserting room: %w", err)
	}

	for _, t := range teamPresets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO teams (id, room_id, name, color) VALUES (?, ?, ?, ?)
		`, uuid.NewString(), room.ID, t.Name, t.Color); err != nil {
			return Room{}, fmt.Errorf("inserting team %q: %w", t.Name, err)
		}
	}

	cityIDByCode := make(map[string]string, len(cityPresets))
	for _, c := range cityPresets {
		id := uuid.NewString()
		cityIDByCode[c.Code] = id
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cities (id, room_id, code, name, region, color) VALUES (?, ?, ?, ?, ?, ?)
		`, id, room.ID, c.Code, c.Name, c.Region, c.Color); err != nil {
			return Room{}, fmt.Errorf("inserting city %q: %w", c.Code, err)
		}
	}

	for _, q := range questionPresets {
		choices, err := json.Marshal(q.Choices)
		if err != nil {
			return Room{}, fmt.Errorf("encoding choices: %w", err)
		}
		var cityID any
		if q.CityCode != "" {
			cityID = cityIDByCode[q.CityCode]
		}
		var region any
		if q.Region != "" {
			region = q.Region
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO questions (id, room_id, prompt, choices, correct_index, region, city_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), room.ID, q.Prompt, string(choices), q.CorrectIndex, region, cityID); err != nil {
			return Room{}, fmt.Errorf("inserting question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Room{}, fmt.Errorf("committing room %q: %w", code, err)
	}
	return room, nil
}

func (s *SQLiteStore) RoomExists(ctx context.Context, code string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE code = ?`, code).Scan(&n)
	return n > 0, err
}

func (s *SQLiteStore) GetRoomMeta(ctx context.Context, code string) (Room, error) {
	var room Room
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, created_at FROM rooms WHERE code = ?
	`, code).Scan(&room.ID, &room.Code, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Room{}, ErrNotFound
	}
	if err != nil {
		return Room{}, err
	}
	room.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return room, nil
}

func (s *SQLiteStore) GetRoomWithState(ctx context.Context, code string) (RoomWithState, error) {
	room, err := s.GetRoomMeta(ctx, code)
	if err != nil {
		return RoomWithState{}, err
	}

	state := RoomWithState{Room: room}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_id, name, color, score FROM teams WHERE room_id = ? ORDER BY rowid
	`, room.ID)
	if err != nil {
		return RoomWithState{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.RoomID, &t.Name, &t.Color, &t.Score); err != nil {
			return RoomWithState{}, err
		}
		state.Teams = append(state.Teams, t)
	}
	if err := rows.Err(); err != nil {
		return RoomWithState{}, err
	}

	cityRows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.room_id, c.code, c.name, COALESCE(c.region, ''), COALESCE(c.color, ''),
		       COALESCE(c.owner_team_id, ''), COALESCE(t.color, '')
		FROM cities c
		LEFT JOIN teams t ON t.id = c.owner_team_id
		WHERE c.room_id = ?
		ORDER BY c.name
	`, room.ID)
	if err != nil {
		return RoomWithState{}, err
	}
	defer cityRows.Close()
	for cityRows.Next() {
		var c City
		if err := cityRows.Scan(&c.ID, &c.RoomID, &c.Code, &c.Name, &c.Region, &c.Color, &c.OwnerTeamID, &c.OwnerColor); err != nil {
			return RoomWithState{}, err
		}
		state.Cities = append(state.Cities, c)
	}
	return state, cityRows.Err()
}

func (s *SQLiteStore) GetCityForSelection(ctx context.Context, roomID, cityCode string) (City, error) {
	var c City
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.room_id, c.code, c.name, COALESCE(c.region, ''), COALESCE(c.color, ''),
		       COALESCE(c.owner_team_id, ''), COALESCE(t.color, '')
		FROM cities c
		LEFT JOIN teams t ON t.id = c.owner_team_id
		WHERE c.room_id = ? AND c.code = ?
	`, roomID, cityCode).Scan(&c.ID, &c.RoomID, &c.Code, &c.Name, &c.Region, &c.Color, &c.OwnerTeamID, &c.OwnerColor)
	if errors.Is(err, sql.ErrNoRows) {
		return City{}, ErrNotFound
	}
	return c, err
}

func (s *SQLiteStore) ListUnownedCitiesByColor(ctx context.Context, roomID, color string) ([]City, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_id, code, name, COALESCE(region, ''), COALESCE(color, ''), '', ''
		FROM cities
		WHERE room_id = ? AND color = ? AND owner_team_id IS NULL
		ORDER BY code
	`, roomID, color)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.RoomID, &c.Code, &c.Name, &c.Region, &c.Color, &c.OwnerTeamID, &c.OwnerColor); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (s *SQLiteStore) SelectQuestionForCity(ctx context.Context, roomID string, city City, used map[string]struct{}) (Question, error) {
	tiers := []struct {
		query string
		args  []any
	}{
		{`SELECT id, room_id, prompt, choices, correct_index, COALESCE(region, ''), COALESCE(city_id, '')
		  FROM questions WHERE room_id = ? AND city_id = ? ORDER BY rowid`, []any{roomID, city.ID}},
		{`SELECT id, room_id, prompt, choices, correct_index, COALESCE(region, ''), COALESCE(city_id, '')
		  FROM questions WHERE room_id = ? AND city_id IS NULL AND region = ? ORDER BY rowid`, []any{roomID, city.Region}},
		{`SELECT id, room_id, prompt, choices, correct_index, COALESCE(region, ''), COALESCE(city_id, '')
		  FROM questions WHERE room_id = ? AND city_id IS NULL ORDER BY rowid`, []any{roomID}},
	}

	for i, tier := range tiers {
		if i == 1 && city.Region == "" {
			continue
		}
		candidates, err := s.queryQuestions(ctx, tier.query, tier.args...)
		if err != nil {
			return Question{}, err
		}
		if q, ok := pickQuestion(candidates, used); ok {
			return q, nil
		}
	}
	return Question{}, ErrNotFound
}

func (s *SQLiteStore) queryQuestions(ctx context.Context, query string, args ...any) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		var choices string
		if err := rows.Scan(&q.ID, &q.RoomID, &q.Prompt, &choices, &q.CorrectIndex, &q.Region, &q.CityID); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(choices), &q.Choices); err != nil {
			return nil, fmt.Errorf("decoding choices for question %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// pickQuestion prefers a candidate not yet used in the room, falling back to
// the first candidate when the tier is exhausted.
func pickQuestion(candidates []Question, used map[string]struct{}) (Question, bool) {
	if len(candidates) == 0 {
		return Question{}, false
	}
	for _, q := range candidates {
		if _, ok := used[q.ID]; !ok {
			return q, true
		}
	}
	return candidates[0], true
}

func (s *SQLiteStore) RecordAnswerLog(ctx context.Context, entry AnswerLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO answer_logs (id, team_id, question_id, city_id, is_correct, is_first_correct)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), entry.TeamID, entry.QuestionID, entry.CityID,
		boolToInt(entry.IsCorrect), boolToInt(entry.IsFirstCorrect))
	return err
}

func (s *SQLiteStore) AssignCityOwner(ctx context.Context, cityID, teamID string) (City, error) {
	var c City
	err := s.db.QueryRowContext(ctx, `
		UPDATE cities
		SET owner_team_id = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
		RETURNING id, room_id, code, name, COALESCE(region, ''), COALESCE(color, ''), owner_team_id
	`, teamID, cityID).Scan(&c.ID, &c.RoomID, &c.Code, &c.Name, &c.Region, &c.Color, &c.OwnerTeamID)
	if errors.Is(err, sql.ErrNoRows) {
		return City{}, ErrNotFound
	}
	return c, err
}

func (s *SQLiteStore) IncrementTeamScore(ctx context.Context, teamID string) (Team, error) {
	var t Team
	err := s.db.QueryRowContext(ctx, `
		UPDATE teams
		SET score = score + 1, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
		RETURNING id, room_id, name, color, score
	`, teamID).Scan(&t.ID, &t.RoomID, &t.Name, &t.Color, &t.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, ErrNotFound
	}
	return t, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
