package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPetDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pet := NewPet(1, 2, "Жужа", now)

	assert.Equal(t, SchemaVersion, pet.Schema)
	assert.Equal(t, 39, pet.Feed)
	assert.Equal(t, 50, pet.Happy)
	assert.Equal(t, 1, pet.Level)
	assert.Equal(t, 0, pet.Coins)
	assert.Equal(t, NoWarning, pet.State.LastFeedWarning)
	assert.True(t, pet.CreationDate.Equal(now))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-10, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{140, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp(tt.in))
	}
}

func TestAddFeedAndHappyClamp(t *testing.T) {
	pet := &Pet{Feed: 95, Happy: 5}

	pet.AddFeed(20)
	pet.AddHappy(-20)
	assert.Equal(t, 100, pet.Feed)
	assert.Equal(t, 0, pet.Happy)

	pet.AddFeed(-150)
	assert.Equal(t, 0, pet.Feed)
}

func TestLevelTierAndProgress(t *testing.T) {
	pet := &Pet{Level: 1}
	assert.Equal(t, 0, pet.LevelTier())
	assert.Equal(t, 1, pet.LevelProgress())

	pet.Level = 100
	assert.Equal(t, 1, pet.LevelTier())
	assert.Equal(t, 0, pet.LevelProgress())

	pet.Level = 245
	assert.Equal(t, 2, pet.LevelTier())
	assert.Equal(t, 45, pet.LevelProgress())
}

func TestStartAndFinishAdventure(t *testing.T) {
	now := time.Now()
	pet := NewPet(1, 2, "Жужа", now)

	outcome := AdventureOutcome{Text: "гуляла", Feed: 5, Happiness: 5}
	pet.StartAdventureAt(outcome, now)

	assert.True(t, pet.IsAdventuring)
	require.NotNil(t, pet.AdventureResult)
	assert.Equal(t, outcome, *pet.AdventureResult)
	require.NotNil(t, pet.State.AdventureStartTime)

	pet.FinishAdventure()
	assert.False(t, pet.IsAdventuring)
	assert.Nil(t, pet.AdventureResult)
	assert.Nil(t, pet.State.AdventureStartTime)
}

func TestNotifyChatIDFallsBackToUserID(t *testing.T) {
	pet := &Pet{UserID: 42}
	assert.Equal(t, int64(42), pet.NotifyChatID())

	pet.State.LastChatID = 77
	assert.Equal(t, int64(77), pet.NotifyChatID())
}

func TestNormalizeBackfillsOldDocuments(t *testing.T) {
	// Документ первой схемы: без маркера предупреждений
	pet := &Pet{
		UserID: 1,
		Feed:   40,
		Happy:  50,
		Level:  1,
	}

	changed := pet.Normalize()
	assert.True(t, changed)
	assert.Equal(t, SchemaVersion, pet.Schema)
	assert.Equal(t, NoWarning, pet.State.LastFeedWarning)

	// Повторный вызов ничего не меняет
	assert.False(t, pet.Normalize())
}

func TestNormalizeClampsCorruptedValues(t *testing.T) {
	pet := &Pet{
		Schema: SchemaVersion,
		Feed:   150,
		Happy:  -5,
		Level:  0,
		Coins:  -10,
		Boost:  Boost("something_else"),
		State:  State{LastFeedWarning: NoWarning},
	}

	require.True(t, pet.Normalize())
	assert.Equal(t, 100, pet.Feed)
	assert.Equal(t, 0, pet.Happy)
	assert.Equal(t, 1, pet.Level)
	assert.Equal(t, 0, pet.Coins)
	assert.Equal(t, BoostNone, pet.Boost)
}

func TestNormalizeRepairsAdventureTriple(t *testing.T) {
	now := time.Now()

	// Флаг выставлен, но исхода нет: приключение нельзя завершить
	pet := &Pet{
		Schema:        SchemaVersion,
		Feed:          40,
		Happy:         50,
		Level:         1,
		IsAdventuring: true,
		State:         State{LastFeedWarning: NoWarning, AdventureStartTime: &now},
	}

	require.True(t, pet.Normalize())
	assert.False(t, pet.IsAdventuring)
	assert.Nil(t, pet.State.AdventureStartTime)
}
