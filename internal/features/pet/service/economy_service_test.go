package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukashka-bot/internal/features/pet/models"
)

func newEconomy(f *fixture, roller *fakeRoller) *EconomyService {
	economy := NewEconomyService(f.repo, roller, NewRand(rand.NewSource(1)))
	economy.now = func() time.Time { return f.now }
	return economy
}

func TestBuyBoost(t *testing.T) {
	f := newFixture()
	economy := newEconomy(f, &fakeRoller{values: []int{1}})
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Coins = 150
	require.NoError(t, f.repo.Update(ctx, pet))

	report, err := economy.BuyBoost(ctx, 100, 200, models.BoostAdventure)
	require.NoError(t, err)
	assert.Equal(t, models.BoostAdventure, report.Bought)
	assert.Equal(t, models.BoostNone, report.Replaced)
	assert.Equal(t, 50, report.Pet.Coins)
}

func TestBuyBoostInsufficientCoins(t *testing.T) {
	f := newFixture()
	economy := newEconomy(f, &fakeRoller{values: []int{1}})
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	_, err = economy.BuyBoost(ctx, 100, 200, models.BoostHappy)
	assert.ErrorIs(t, err, ErrNotEnoughCoins)

	// Баланс не тронут
	assert.Equal(t, 0, f.mustPet(100).Coins)
}

func TestBuyBoostReplacesActive(t *testing.T) {
	f := newFixture()
	economy := newEconomy(f, &fakeRoller{values: []int{1}})
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Coins = 300
	require.NoError(t, f.repo.Update(ctx, pet))

	_, err = economy.BuyBoost(ctx, 100, 200, models.BoostFeed)
	require.NoError(t, err)

	stored := f.mustPet(100)
	require.NotNil(t, stored.State.FeedBoostUntil)

	// Тот же буст повторно не продаётся
	_, err = economy.BuyBoost(ctx, 100, 200, models.BoostFeed)
	assert.ErrorIs(t, err, ErrBoostRedundant)

	// Другой буст заменяет без возврата монет
	report, err := economy.BuyBoost(ctx, 100, 200, models.BoostHappy)
	require.NoError(t, err)
	assert.Equal(t, models.BoostFeed, report.Replaced)

	stored = f.mustPet(100)
	assert.Equal(t, models.BoostHappy, stored.Boost)
	assert.Nil(t, stored.State.FeedBoostUntil)
	assert.Equal(t, 300-PriceFeedBoost-PriceHappyBoost, stored.Coins)
}

func TestBuyUnknownBoost(t *testing.T) {
	f := newFixture()
	economy := newEconomy(f, &fakeRoller{values: []int{1}})

	_, err := economy.BuyBoost(context.Background(), 100, 200, models.Boost("mega_boost"))
	assert.ErrorIs(t, err, ErrUnknownBoost)
}

func TestPlayGame(t *testing.T) {
	f := newFixture()
	roller := &fakeRoller{values: []int{6}}
	economy := newEconomy(f, roller)
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	report, err := economy.PlayGame(ctx, 100, 200, GameDice)
	require.NoError(t, err)
	assert.Equal(t, 6, report.Value)
	assert.Equal(t, 8, report.HappyDelta)
	assert.GreaterOrEqual(t, report.Coins, gameCoinsSixMin)
	assert.LessOrEqual(t, report.Coins, gameCoinsSixMax)

	stored := f.mustPet(100)
	assert.Equal(t, 58, stored.Happy)
	assert.Equal(t, 38, stored.Feed) // игра отнимает сытость
	assert.Equal(t, report.Coins, stored.Coins)
}

func TestPlayGameCooldown(t *testing.T) {
	f := newFixture()
	economy := newEconomy(f, &fakeRoller{values: []int{3}})
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	_, err = economy.PlayGame(ctx, 100, 200, GameBowling)
	require.NoError(t, err)

	_, err = economy.PlayGame(ctx, 100, 200, GameBowling)
	_, ok := AsCooldown(err)
	assert.True(t, ok)

	f.advance(GameCooldown + time.Second)
	_, err = economy.PlayGame(ctx, 100, 200, GameBowling)
	assert.NoError(t, err)
}

func TestPlayGameLowValueCostsHappiness(t *testing.T) {
	f := newFixture()
	economy := newEconomy(f, &fakeRoller{values: []int{1}})
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	report, err := economy.PlayGame(ctx, 100, 200, GameDice)
	require.NoError(t, err)
	assert.Equal(t, -3, report.HappyDelta)
	assert.Equal(t, 0, report.Coins)
	assert.Equal(t, 47, f.mustPet(100).Happy)
}

func TestCasinoLossKeepsEntryFee(t *testing.T) {
	f := newFixture()
	economy := newEconomy(f, &fakeRoller{values: []int{17}})
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Coins = 50
	require.NoError(t, f.repo.Update(ctx, pet))

	report, err := economy.PlayCasino(ctx, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, CasinoLoss, report.Tier)

	// Ставка списана до результата и при проигрыше не возвращается
	assert.Equal(t, 30, f.mustPet(100).Coins)
}

func TestCasinoJackpot(t *testing.T) {
	f := newFixture()
	economy := newEconomy(f, &fakeRoller{values: []int{64}})
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Coins = 20
	require.NoError(t, f.repo.Update(ctx, pet))

	report, err := economy.PlayCasino(ctx, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, CasinoJackpot, report.Tier)
	assert.Equal(t, CasinoJackpotCoins, report.Coins)

	stored := f.mustPet(100)
	assert.Equal(t, CasinoJackpotCoins, stored.Coins) // 20 - 20 + 500
	assert.Equal(t, 80, stored.Happy)
}

func TestCasinoWin(t *testing.T) {
	f := newFixture()
	economy := newEconomy(f, &fakeRoller{values: []int{22}})
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Coins = 25
	require.NoError(t, f.repo.Update(ctx, pet))

	report, err := economy.PlayCasino(ctx, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, CasinoWin, report.Tier)
	assert.Equal(t, 25-CasinoEntryPrice+CasinoWinCoins, f.mustPet(100).Coins)
}

func TestCasinoRefundsEntryOnRollFailure(t *testing.T) {
	f := newFixture()
	roller := &fakeRoller{err: errors.New("sendDice: chat not found")}
	economy := newEconomy(f, roller)
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	pet := f.mustPet(100)
	pet.Coins = 50
	require.NoError(t, f.repo.Update(ctx, pet))

	_, err = economy.PlayCasino(ctx, 100, 200)
	require.Error(t, err)
	require.Equal(t, 1, roller.calls)

	// Барабан не крутился — ставка вернулась
	assert.Equal(t, 50, f.mustPet(100).Coins)
}

func TestCasinoRequiresEntryFee(t *testing.T) {
	f := newFixture()
	economy := newEconomy(f, &fakeRoller{values: []int{64}})
	ctx := context.Background()

	_, err := f.pets.Create(ctx, 100, 200, "Жужа")
	require.NoError(t, err)

	_, err = economy.PlayCasino(ctx, 100, 200)
	assert.ErrorIs(t, err, ErrNotEnoughCoins)
}
