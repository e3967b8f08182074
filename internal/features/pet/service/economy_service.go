package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"bukashka-bot/internal/common/logger"
	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/repository"
)

// Выигрыши мини-игр: прибавка к счастью по выпавшему значению
// и монеты за два старших исхода.
var gameHappyDelta = map[int]int{1: -3, 2: -1, 3: 1, 4: 3, 5: 5, 6: 8}

const (
	gameCoinsFiveMin, gameCoinsFiveMax = 5, 15
	gameCoinsSixMin, gameCoinsSixMax   = 10, 25
)

// Выигрышные значения слота: 64 — три семёрки, джекпот;
// 1, 22, 43 — три одинаковых символа попроще.
const slotJackpotValue = 64

var slotWinValues = map[int]bool{1: true, 22: true, 43: true}

// EconomyService — магазин бустов, мини-игры и казино.
type EconomyService struct {
	repo   repository.PetRepository
	roller Roller
	log    zerolog.Logger
	now    func() time.Time
	rng    *Rand
}

func NewEconomyService(repo repository.PetRepository, roller Roller, rng *Rand) *EconomyService {
	return &EconomyService{
		repo:   repo,
		roller: roller,
		log:    logger.Component("economy"),
		now:    time.Now,
		rng:    rng,
	}
}

// BoostPrice возвращает цену буста в магазине.
func BoostPrice(boost models.Boost) (int, bool) {
	switch boost {
	case models.BoostAdventure:
		return PriceAdventureBoost, true
	case models.BoostHappy:
		return PriceHappyBoost, true
	case models.BoostFeed:
		return PriceFeedBoost, true
	default:
		return 0, false
	}
}

// BuyBoost покупает буст. Одновременно активен только один: покупка другого
// заменяет прежний без возврата монет, покупка того же самого отклоняется.
func (s *EconomyService) BuyBoost(ctx context.Context, userID, chatID int64, boost models.Boost) (*PurchaseReport, error) {
	price, ok := BoostPrice(boost)
	if !ok {
		return nil, ErrUnknownBoost
	}

	if err := s.repo.AcquireLock(ctx, userID, LockTTL); err != nil {
		if errors.Is(err, repository.ErrAlreadyLocked) {
			return nil, &CooldownError{Remaining: time.Second}
		}
		return nil, err
	}
	defer s.repo.ReleaseLock(ctx, userID)

	pet, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pet.IsAdventuring {
		return nil, ErrAdventuring
	}
	if pet.Boost == boost {
		return nil, ErrBoostRedundant
	}
	if pet.Coins < price {
		return nil, ErrNotEnoughCoins
	}

	replaced := pet.Boost
	pet.Coins -= price
	pet.Boost = boost
	if boost == models.BoostFeed {
		until := s.now().Add(FeedBoostDuration)
		pet.State.FeedBoostUntil = &until
	} else {
		pet.State.FeedBoostUntil = nil
	}
	pet.State.LastChatID = chatID

	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("user_id", userID).
		Str("boost", string(boost)).
		Str("replaced", string(replaced)).
		Int("price", price).
		Msg("boost purchased")

	return &PurchaseReport{Bought: boost, Replaced: replaced, Price: price, Pet: pet}, nil
}

// PlayGame играет в кости или боулинг. Исход определяет анимированный кубик,
// брошенный ботом в чат: значение с экрана и есть результат игры.
func (s *EconomyService) PlayGame(ctx context.Context, userID, chatID int64, kind GameKind) (*GameReport, error) {
	if kind != GameDice && kind != GameBowling {
		return nil, errors.New("unsupported game kind")
	}

	if err := s.repo.AcquireLock(ctx, userID, LockTTL); err != nil {
		if errors.Is(err, repository.ErrAlreadyLocked) {
			return nil, &CooldownError{Remaining: GameCooldown}
		}
		return nil, err
	}
	defer s.repo.ReleaseLock(ctx, userID)

	pet, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pet.IsAdventuring {
		return nil, ErrAdventuring
	}

	now := s.now()
	if err := checkCooldown(pet.State.LastGameTime, GameCooldown, now); err != nil {
		return nil, err
	}

	value, err := s.roller.Roll(ctx, chatID, kind)
	if err != nil {
		return nil, err
	}

	happyDelta := gameHappyDelta[value]
	coins := 0
	switch value {
	case 5:
		coins = s.rng.IntBetween(gameCoinsFiveMin, gameCoinsFiveMax)
	case 6:
		coins = s.rng.IntBetween(gameCoinsSixMin, gameCoinsSixMax)
	}

	pet.AddHappy(happyDelta)
	pet.AddFeed(-GameFeedCost)
	pet.Coins += coins
	pet.State.LastGameTime = &now
	pet.State.LastChatID = chatID

	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, err
	}

	return &GameReport{Kind: kind, Value: value, HappyDelta: happyDelta, Coins: coins, Pet: pet}, nil
}

// PlayCasino крутит слот. Ставка списывается и сохраняется до броска;
// проигрышный результат её не возвращает, но если сам бросок не удался,
// ставка возвращается владельцу.
func (s *EconomyService) PlayCasino(ctx context.Context, userID, chatID int64) (*CasinoReport, error) {
	if err := s.repo.AcquireLock(ctx, userID, LockTTL); err != nil {
		if errors.Is(err, repository.ErrAlreadyLocked) {
			return nil, &CooldownError{Remaining: time.Second}
		}
		return nil, err
	}
	defer s.repo.ReleaseLock(ctx, userID)

	pet, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pet.IsAdventuring {
		return nil, ErrAdventuring
	}
	if pet.Coins < CasinoEntryPrice {
		return nil, ErrNotEnoughCoins
	}

	pet.Coins -= CasinoEntryPrice
	pet.State.LastChatID = chatID
	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, err
	}

	value, err := s.roller.Roll(ctx, chatID, GameSlot)
	if err != nil {
		// Барабан так и не крутился: ставка возвращается
		pet.Coins += CasinoEntryPrice
		if refundErr := s.repo.Update(ctx, pet); refundErr != nil {
			s.log.Error().Err(refundErr).Int64("user_id", userID).Msg("failed to refund casino entry")
		}
		return nil, err
	}

	report := &CasinoReport{Value: value, Tier: CasinoLoss, Pet: pet}
	switch {
	case value == slotJackpotValue:
		report.Tier = CasinoJackpot
		report.Coins = CasinoJackpotCoins
		report.HappyDelta = CasinoJackpotHappy
	case slotWinValues[value]:
		report.Tier = CasinoWin
		report.Coins = CasinoWinCoins
		report.HappyDelta = CasinoWinHappy
	}

	if report.Tier != CasinoLoss {
		pet.Coins += report.Coins
		pet.AddHappy(report.HappyDelta)
		if err := s.repo.Update(ctx, pet); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Int64("user_id", userID).
		Int("value", value).
		Str("tier", string(report.Tier)).
		Msg("casino spin")

	return report, nil
}

func (s *EconomyService) get(ctx context.Context, userID int64) (*models.Pet, error) {
	pet, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPetNotFound) {
			return nil, ErrNoPet
		}
		return nil, err
	}
	return pet, nil
}
