package service

import (
	"context"

	"bukashka-bot/internal/features/pet/models"
)

// Notifier доставляет асинхронные события владельцу букашки.
// Синхронные ответы на команды формирует доставка сама, по отчётам сервисов.
type Notifier interface {
	AdventureCompleted(ctx context.Context, chatID int64, report *AdventureReport) error
	HungerWarning(ctx context.Context, chatID int64, pet *models.Pet, threshold int) error
	PetDied(ctx context.Context, chatID int64, obituary *models.Obituary) error
}

// GameKind — вид мини-игры.
type GameKind string

const (
	GameDice    GameKind = "dice"
	GameBowling GameKind = "bowling"
	GameSlot    GameKind = "slot"
)

// Roller бросает анимированный кубик в чате и возвращает выпавшее значение.
// Для dice и bowling значение в пределах 1..6, для slot — 1..64.
type Roller interface {
	Roll(ctx context.Context, chatID int64, kind GameKind) (int, error)
}

// AdventureReport — итоги завершившегося приключения.
type AdventureReport struct {
	Outcome     models.AdventureOutcome
	FeedDelta   int
	HappyDelta  int
	Coins       int
	LevelPoints int
	Died        bool
	Pet         *models.Pet
}

// StartReport — подтверждение начала приключения.
type StartReport struct {
	Pet       *models.Pet
	ReturnsIn int64 // секунды до возвращения
}

// FeedReport — результат кормления.
type FeedReport struct {
	Outcome models.FeedOutcome
	Died    bool
	Pet     *models.Pet
}

// PurchaseReport — результат покупки буста.
type PurchaseReport struct {
	Bought   models.Boost
	Replaced models.Boost
	Price    int
	Pet      *models.Pet
}

// GameReport — результат мини-игры.
type GameReport struct {
	Kind       GameKind
	Value      int
	HappyDelta int
	Coins      int
	Pet        *models.Pet
}

// CasinoTier — исход крутки казино.
type CasinoTier string

const (
	CasinoLoss    CasinoTier = "loss"
	CasinoWin     CasinoTier = "win"
	CasinoJackpot CasinoTier = "jackpot"
)

// CasinoReport — результат похода в казино.
type CasinoReport struct {
	Value      int
	Tier       CasinoTier
	Coins      int
	HappyDelta int
	Pet        *models.Pet
}
