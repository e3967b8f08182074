package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukashka-bot/internal/features/pet/models"
)

func TestSweepDecaysFeedAndHappy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Feed = 100
	pet.Happy = 100
	require.NoError(t, f.repo.Update(ctx, pet))

	f.advance(FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))

	stored := f.mustPet(100)
	assert.Equal(t, 97, stored.Feed)
	assert.Equal(t, 97, stored.Happy)
	require.NotNil(t, stored.State.LastFeedDecayTime)
	assert.True(t, stored.State.LastFeedDecayTime.Equal(f.now))
}

func TestSweepCatchesUpMissedIntervals(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Feed = 100
	pet.Happy = 100
	last := f.now
	pet.State.LastFeedDecayTime = &last
	require.NoError(t, f.repo.Update(ctx, pet))

	// Процесс лежал четыре интервала — списываем за все разом
	f.advance(4 * FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))

	stored := f.mustPet(100)
	assert.Equal(t, 88, stored.Feed)
	assert.Equal(t, 88, stored.Happy)
}

func TestSweepSkipsFreshPet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	last := f.now
	pet.State.LastFeedDecayTime = &last
	require.NoError(t, f.repo.Update(ctx, pet))

	// Интервал ещё не прошёл — списывать нечего
	f.advance(FeedDecayInterval / 2)
	require.NoError(t, f.sweep.SweepOnce(ctx))

	stored := f.mustPet(100)
	assert.Equal(t, 39, stored.Feed)
}

func TestSweepSkipsAdventurers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	_, err = f.adventures.Start(ctx, 100, 200, false)
	require.NoError(t, err)
	before := f.mustPet(100)

	// Дедлайн приключения не настал: свип не трогает путешественницу
	f.advance(10 * time.Second)
	require.NoError(t, f.sweep.SweepOnce(ctx))

	stored := f.mustPet(100)
	assert.Equal(t, before.Feed, stored.Feed)
	assert.True(t, stored.IsAdventuring)
}

func TestSweepCompletesOverdueAdventure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	_, err = f.adventures.Start(ctx, 100, 200, false)
	require.NoError(t, err)

	// Таймер потерялся, дедлайн давно прошёл — свип подстраховывает
	f.timers.Shutdown()
	f.advance(2 * time.Minute)
	require.NoError(t, f.sweep.SweepOnce(ctx))

	stored := f.mustPet(100)
	assert.False(t, stored.IsAdventuring)
	assert.Len(t, f.notifier.completed, 1)
}

func TestHungerWarningIssuedOncePerThreshold(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Feed = 13
	last := f.now
	pet.State.LastFeedDecayTime = &last
	require.NoError(t, f.repo.Update(ctx, pet))

	// 13 → 10: пересекли порог 10
	f.advance(FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))
	assert.Equal(t, []int{10}, f.notifier.warnings)

	// 10 → 7: порог 10 уже отработал, новых предупреждений нет
	f.advance(FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))
	assert.Equal(t, 1, f.notifier.warningCount())

	// 7 → 4: пересекли порог 5
	f.advance(FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))
	assert.Equal(t, []int{10, 5}, f.notifier.warnings)
}

func TestHungerWarningResetsAfterRecovery(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Feed = 12
	last := f.now
	pet.State.LastFeedDecayTime = &last
	require.NoError(t, f.repo.Update(ctx, pet))

	f.advance(FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))
	require.Equal(t, 1, f.notifier.warningCount())

	// Кормим до восстановления: тестовый каталог даёт +5 за раз
	for i := 0; i < 5; i++ {
		f.advance(FeedCooldown + time.Second)
		_, err = f.pets.Feed(ctx, 100, 200)
		require.NoError(t, err)
	}
	stored := f.mustPet(100)
	require.Greater(t, stored.Feed, 10)
	assert.Equal(t, models.NoWarning, stored.State.LastFeedWarning)

	// Падение ниже порога после восстановления снова предупреждает
	pet = f.mustPet(100)
	pet.Feed = 12
	require.NoError(t, f.repo.Update(ctx, pet))

	f.advance(FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))
	assert.Equal(t, []int{10, 10}, f.notifier.warnings)
}

func TestHungerWarningResetsAfterAdventureRecovery(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Feed = 13
	last := f.now
	pet.State.LastFeedDecayTime = &last
	require.NoError(t, f.repo.Update(ctx, pet))

	f.advance(FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))
	require.Equal(t, []int{10}, f.notifier.warnings)

	// Сытость восстанавливается исходом приключения: тестовый каталог
	// даёт +10, этого хватает, чтобы подняться выше порога
	_, err = f.adventures.Start(ctx, 100, 200, true)
	require.NoError(t, err)
	f.advance(AdventureDuration)
	require.NoError(t, f.adventures.Complete(ctx, 100))

	stored := f.mustPet(100)
	require.Greater(t, stored.Feed, 10)
	assert.Equal(t, models.NoWarning, stored.State.LastFeedWarning)

	// Падение сквозь тот же порог снова предупреждает
	f.advance(3 * FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))
	assert.Equal(t, []int{10, 10}, f.notifier.warnings)
}

func TestSweepStarvationDeath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Feed = 2
	last := f.now
	pet.State.LastFeedDecayTime = &last
	require.NoError(t, f.repo.Update(ctx, pet))

	f.advance(FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))

	_, err = f.pets.Get(ctx, 100)
	assert.ErrorIs(t, err, ErrNoPet)

	require.Len(t, f.notifier.obituaries, 1)
	assert.Equal(t, string(ReasonStarvation), f.notifier.obituaries[0].Reason)
}

func TestFeedBoostSlowsDecay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Feed = 50
	pet.Happy = 50
	pet.Boost = models.BoostFeed
	until := f.now.Add(FeedBoostDuration)
	pet.State.FeedBoostUntil = &until
	last := f.now
	pet.State.LastFeedDecayTime = &last
	require.NoError(t, f.repo.Update(ctx, pet))

	f.advance(FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))

	stored := f.mustPet(100)
	assert.Equal(t, 48, stored.Feed) // 3 / 1.5 = 2
	assert.Equal(t, 47, stored.Happy)
	assert.Equal(t, models.BoostFeed, stored.Boost)
}

func TestFeedBoostExpires(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Feed = 50
	pet.Boost = models.BoostFeed
	until := f.now.Add(5 * time.Minute)
	pet.State.FeedBoostUntil = &until
	last := f.now
	pet.State.LastFeedDecayTime = &last
	require.NoError(t, f.repo.Update(ctx, pet))

	// К моменту свипа буст уже истёк: списание полное, буст снят
	f.advance(FeedDecayInterval)
	require.NoError(t, f.sweep.SweepOnce(ctx))

	stored := f.mustPet(100)
	assert.Equal(t, 47, stored.Feed)
	assert.Equal(t, models.BoostNone, stored.Boost)
	assert.Nil(t, stored.State.FeedBoostUntil)
}
