package pet_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/leighmacdonald/lilguy/internal/pet"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	body []byte
}

func (m *memoryStorage) SaveCharacter(_ context.Context, state any) error {
	body, err := json.Marshal(state)
	m.body = body

	return err
}

func (m *memoryStorage) LoadCharacter(_ context.Context, state any) (bool, error) {
	if m.body == nil {
		return false, nil
	}

	return true, json.Unmarshal(m.body, state)
}

func TestDecay(t *testing.T) {
	start := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	state := pet.New(start)

	same := state.Decay(start.Add(59*time.Minute), 2)
	require.Equal(t, state, same)

	later := state.Decay(start.Add(3*time.Hour+30*time.Minute), 2)
	require.Equal(t, 44, later.Hunger)
	require.Equal(t, start.Add(3*time.Hour), later.UpdatedAt, "partial hours carry over")

	again := later.Decay(start.Add(4*time.Hour), 2)
	require.Equal(t, 42, again.Hunger)

	starved := state.Decay(start.Add(1000*time.Hour), 1)
	require.Zero(t, starved.Hunger)
}

func TestFeedCapsAtMax(t *testing.T) {
	state := pet.New(time.Now()).Feed(1000)
	require.Equal(t, pet.Max, state.Hunger)
	require.Equal(t, pet.Max, state.Happiness)
}

func TestMood(t *testing.T) {
	require.Equal(t, pet.Sad, pet.State{Hunger: 10, Happiness: 90}.Mood())
	require.Equal(t, pet.TeethSmile, pet.State{Hunger: 50, Happiness: 90}.Mood())
	require.Equal(t, pet.Happy, pet.State{Hunger: 50, Happiness: 60}.Mood())
	require.Equal(t, pet.LittleSmile, pet.State{Hunger: 50, Happiness: 35}.Mood())
	require.Equal(t, pet.Bruh, pet.State{Hunger: 50, Happiness: 5}.Mood())
	require.Equal(t, 0, pet.Expression("unknown").Index())
	require.Equal(t, 1, pet.LittleSmile.Index())
}

func TestKeeper(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	storage := &memoryStorage{}
	keeper := pet.NewKeeper(storage, 1, func() time.Time { return now })

	state, err := keeper.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, pet.New(now), state)

	fed, err := keeper.Feed(t.Context(), 10)
	require.NoError(t, err)
	require.Equal(t, 60, fed.Hunger)

	now = now.Add(5 * time.Hour)
	state, err = keeper.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, 55, state.Hunger)
}
