package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*MemoryStore, Room) {
	t.Helper()
	store := NewMemoryStore()
	room, err := store.CreateRoomWithPresets(context.Background(), testRoomCode)
	require.NoError(t, err)
	return store, room
}

func TestCreateRoomWithPresets(t *testing.T) {
	store, room := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, testRoomCode, room.Code)
	assert.NotEmpty(t, room.ID)

	state, err := store.GetRoomWithState(ctx, testRoomCode)
	require.NoError(t, err)
	assert.Len(t, state.Teams, len(teamPresets))
	assert.Len(t, state.Cities, len(cityPresets))
	assert.Len(t, store.qOrder[room.ID], len(questionPresets))

	for _, team := range state.Teams {
		assert.Zero(t, team.Score)
	}
	for _, city := range state.Cities {
		assert.Empty(t, city.OwnerTeamID)
	}

	// Creating the same code again returns the existing room.
	again, err := store.CreateRoomWithPresets(ctx, testRoomCode)
	require.NoError(t, err)
	assert.Equal(t, room.ID, again.ID)
	assert.Len(t, store.qOrder[room.ID], len(questionPresets))
}

func TestGetRoomMetaNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.GetRoomMeta(context.Background(), "ZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignCityOwnerResolvesColor(t *testing.T) {
	store, room := newTestStore(t)
	ctx := context.Background()

	state, err := store.GetRoomWithState(ctx, testRoomCode)
	require.NoError(t, err)
	team := state.Teams[0]

	city, err := store.GetCityForSelection(ctx, room.ID, "REG-MARMARA")
	require.NoError(t, err)

	_, err = store.AssignCityOwner(ctx, city.ID, team.ID)
	require.NoError(t, err)

	owned, err := store.GetCityForSelection(ctx, room.ID, "REG-MARMARA")
	require.NoError(t, err)
	assert.Equal(t, team.ID, owned.OwnerTeamID)
	assert.Equal(t, team.Color, owned.OwnerColor)

	_, err = store.AssignCityOwner(ctx, "missing", team.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUnownedCitiesByColor(t *testing.T) {
	store, room := newTestStore(t)
	ctx := context.Background()

	cities, err := store.ListUnownedCitiesByColor(ctx, room.ID, "#3b82f6")
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "REG-MARMARA", cities[0].Code)

	state, err := store.GetRoomWithState(ctx, testRoomCode)
	require.NoError(t, err)
	_, err = store.AssignCityOwner(ctx, cities[0].ID, state.Teams[0].ID)
	require.NoError(t, err)

	cities, err = store.ListUnownedCitiesByColor(ctx, room.ID, "#3b82f6")
	require.NoError(t, err)
	assert.Empty(t, cities)
}

func TestSelectQuestionPrefersExactBinding(t *testing.T) {
	store, room := newTestStore(t)
	ctx := context.Background()

	city, err := store.GetCityForSelection(ctx, room.ID, "REG-MARMARA")
	require.NoError(t, err)

	q, err := store.SelectQuestionForCity(ctx, room.ID, city, map[string]struct{}{})
	require.NoError(t, err)
	assert.Equal(t, city.ID, q.CityID)
}

func TestSelectQuestionSkipsUsedWithinTier(t *testing.T) {
	store, room := newTestStore(t)
	ctx := context.Background()

	city, err := store.GetCityForSelection(ctx, room.ID, "REG-KARADENIZ")
	require.NoError(t, err)

	used := make(map[string]struct{})
	first, err := store.SelectQuestionForCity(ctx, room.ID, city, used)
	require.NoError(t, err)
	used[first.ID] = struct{}{}

	second, err := store.SelectQuestionForCity(ctx, room.ID, city, used)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, city.ID, second.CityID)
	used[second.ID] = struct{}{}

	// Both exact questions used: the tier is reused rather than skipped.
	third, err := store.SelectQuestionForCity(ctx, room.ID, city, used)
	require.NoError(t, err)
	assert.Equal(t, city.ID, third.CityID)
	assert.Contains(t, used, third.ID)
}

func TestSelectQuestionFallsBackToRegion(t *testing.T) {
	store, room := newTestStore(t)

	// A city with no exact bindings draws from the unbound questions for
	// its region.
	city := City{ID: "synthetic", RoomID: room.ID, Code: "SYN", Region: "Akdeniz"}

	q, err := store.SelectQuestionForCity(context.Background(), room.ID, city, map[string]struct{}{})
	require.NoError(t, err)
	assert.Empty(t, q.CityID)
	assert.Equal(t, "Akdeniz", q.Region)
}

func TestSelectQuestionFallsBackToAnyUnbound(t *testing.T) {
	store, room := newTestStore(t)

	city := City{ID: "synthetic", RoomID: room.ID, Code: "SYN", Region: "Kibris"}

	q, err := store.SelectQuestionForCity(context.Background(), room.ID, city, map[string]struct{}{})
	require.NoError(t, err)
	assert.Empty(t, q.CityID)
	assert.NotEqual(t, "Kibris", q.Region)
}

func TestIncrementTeamScore(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	state, err := store.GetRoomWithState(ctx, testRoomCode)
	require.NoError(t, err)
	team := state.Teams[0]

	updated, err := store.IncrementTeamScore(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Score)

	updated, err = store.IncrementTeamScore(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Score)

	_, err = store.IncrementTeamScore(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordAnswerLog(t *testing.T) {
	store, _ := newTestStore(t)

	entry := AnswerLog{TeamID: "t1", QuestionID: "q1", CityID: "c1", IsCorrect: true, IsFirstCorrect: true}
	require.NoError(t, store.RecordAnswerLog(context.Background(), entry))

	require.Len(t, store.answerLogs, 1)
	assert.Equal(t, entry, store.answerLogs[0])
}
