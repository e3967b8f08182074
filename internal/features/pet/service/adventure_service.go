package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"bukashka-bot/internal/common/logger"
	"bukashka-bot/internal/features/pet/catalog"
	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/repository"
)

// completionTimeout ограничивает обработку завершения, запущенную таймером.
const completionTimeout = 30 * time.Second

// AdventureService управляет приключениями: отправляет букашку в путь,
// завершает приключение по дедлайну и восстанавливает таймеры после рестарта.
// Исход выбирается уже при старте и хранится вместе с питомцем, так что
// завершить приключение можно из любого места — таймера, свипа или рестарта —
// с одинаковым результатом.
type AdventureService struct {
	repo      repository.PetRepository
	notifier  Notifier
	catalog   *catalog.Catalog
	timers    *Timers
	mortality *MortalityService
	log       zerolog.Logger
	now       func() time.Time
	rng       *Rand
}

func NewAdventureService(
	repo repository.PetRepository,
	notifier Notifier,
	cat *catalog.Catalog,
	timers *Timers,
	mortality *MortalityService,
	rng *Rand,
) *AdventureService {
	return &AdventureService{
		repo:      repo,
		notifier:  notifier,
		catalog:   cat,
		timers:    timers,
		mortality: mortality,
		log:       logger.Component("adventures"),
		now:       time.Now,
		rng:       rng,
	}
}

// Start отправляет букашку в приключение. При сытости не выше порога
// требуется явное подтверждение риска: голодная букашка может не вернуться.
func (s *AdventureService) Start(ctx context.Context, userID, chatID int64, acceptRisk bool) (*StartReport, error) {
	if err := s.repo.AcquireLock(ctx, userID, LockTTL); err != nil {
		if errors.Is(err, repository.ErrAlreadyLocked) {
			return nil, ErrAdventuring
		}
		return nil, err
	}
	defer s.repo.ReleaseLock(ctx, userID)

	pet, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPetNotFound) {
			return nil, ErrNoPet
		}
		return nil, err
	}
	if pet.IsAdventuring {
		return nil, ErrAdventuring
	}
	if pet.Feed <= LowFeedThreshold && !acceptRisk {
		return nil, ErrFeedTooLow
	}

	now := s.now()
	outcome := s.rng.PickAdventure(s.catalog)
	duration := s.durationFor(pet)

	// Сборы в дорогу отнимают силы
	pet.AddFeed(-AdventureFeedCost)
	pet.StartAdventureAt(outcome, now)
	pet.State.LastChatID = chatID
	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, err
	}

	s.schedule(userID, duration)

	s.log.Info().
		Int64("user_id", userID).
		Dur("duration", duration).
		Msg("adventure started")

	return &StartReport{Pet: pet, ReturnsIn: int64(duration / time.Second)}, nil
}

// Complete завершает приключение и применяет сохранённый исход. Идемпотентен:
// повторный вызов (гонка таймера и свипа, дубль после рестарта) не найдёт
// питомца в приключении и молча выйдет.
func (s *AdventureService) Complete(ctx context.Context, userID int64) error {
	if err := s.repo.AcquireLock(ctx, userID, LockTTL); err != nil {
		if errors.Is(err, repository.ErrAlreadyLocked) {
			// Кто-то уже завершает это приключение
			return nil
		}
		return err
	}
	defer s.repo.ReleaseLock(ctx, userID)

	pet, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPetNotFound) {
			return nil
		}
		return err
	}
	if !pet.IsAdventuring || pet.AdventureResult == nil {
		return nil
	}

	outcome := *pet.AdventureResult
	preHappy := pet.Happy
	preFeed := pet.Feed

	happyDelta := outcome.Happiness
	if pet.Boost == models.BoostHappy && happyDelta > 0 {
		happyDelta = int(math.Round(float64(happyDelta) * BoostSpeedup))
	}

	pet.AddFeed(outcome.Feed)
	pet.AddHappy(happyDelta)
	resolveWarning(pet, preFeed)

	coins, levelPoints := s.rewards(outcome, preHappy)
	pet.Coins += coins
	pet.Level += levelPoints

	// Буст тратится на одно приключение
	if pet.Boost == models.BoostAdventure || pet.Boost == models.BoostHappy {
		pet.Boost = models.BoostNone
	}
	pet.FinishAdventure()

	if err := s.repo.Update(ctx, pet); err != nil {
		return err
	}
	s.timers.Cancel(userID)

	report := &AdventureReport{
		Outcome:     outcome,
		FeedDelta:   outcome.Feed,
		HappyDelta:  happyDelta,
		Coins:       coins,
		LevelPoints: levelPoints,
		Died:        pet.Feed == 0,
		Pet:         pet,
	}

	s.log.Info().
		Int64("user_id", userID).
		Int("coins", coins).
		Int("level_points", levelPoints).
		Bool("died", report.Died).
		Msg("adventure completed")

	if err := s.notifier.AdventureCompleted(ctx, pet.NotifyChatID(), report); err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to deliver adventure report")
	}

	if report.Died {
		if _, err := s.mortality.Kill(ctx, userID, ReasonAdventure); err != nil {
			return err
		}
	}
	return nil
}

// Recover восстанавливает таймеры приключений после рестарта процесса.
// Просроченные приключения завершаются сразу же.
func (s *AdventureService) Recover(ctx context.Context) error {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return err
	}

	recovered := 0
	for _, id := range ids {
		pet, err := s.repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPetNotFound) {
				continue
			}
			s.log.Error().Err(err).Int64("user_id", id).Msg("failed to load pet during recovery")
			continue
		}
		if !pet.IsAdventuring || pet.State.AdventureStartTime == nil {
			continue
		}

		deadline := pet.State.AdventureStartTime.Add(s.durationFor(pet))
		remaining := deadline.Sub(s.now())
		if remaining <= 0 {
			if err := s.Complete(ctx, id); err != nil {
				s.log.Error().Err(err).Int64("user_id", id).Msg("failed to complete overdue adventure")
			}
		} else {
			s.schedule(id, remaining)
		}
		recovered++
	}

	if recovered > 0 {
		s.log.Info().Int("count", recovered).Msg("adventures recovered after restart")
	}
	return nil
}

// Deadline возвращает момент возвращения из текущего приключения.
func (s *AdventureService) Deadline(pet *models.Pet) (time.Time, bool) {
	if !pet.IsAdventuring || pet.State.AdventureStartTime == nil {
		return time.Time{}, false
	}
	return pet.State.AdventureStartTime.Add(s.durationFor(pet)), true
}

func (s *AdventureService) schedule(userID int64, d time.Duration) {
	s.timers.Schedule(userID, d, func() {
		ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
		defer cancel()
		if err := s.Complete(ctx, userID); err != nil {
			s.log.Error().Err(err).Int64("user_id", userID).Msg("timer-driven completion failed")
		}
	})
}

// durationFor учитывает буст приключений: с ним букашка возвращается быстрее.
func (s *AdventureService) durationFor(pet *models.Pet) time.Duration {
	if pet.Boost == models.BoostAdventure {
		return time.Duration(float64(AdventureDuration) / BoostSpeedup)
	}
	return AdventureDuration
}

// rewards выбирает награду по знаку исхода: тяжёлые приключения (оба эффекта
// отрицательные) платят лучше всего, нейтральные — символически. Очки уровня
// масштабируются настроением до приключения: счастливая букашка учится лучше.
func (s *AdventureService) rewards(outcome models.AdventureOutcome, preHappy int) (coins, levelPoints int) {
	var raw int
	switch {
	case outcome.Feed < 0 && outcome.Happiness < 0:
		coins = s.rng.IntBetween(HardCoinsMin, HardCoinsMax)
		raw = s.rng.IntBetween(HardLevelMin, HardLevelMax)
	case outcome.Feed > 0 || outcome.Happiness > 0:
		coins = s.rng.IntBetween(MidCoinsMin, MidCoinsMax)
		raw = s.rng.IntBetween(BaseLevelMin, BaseLevelMax)
	default:
		coins = s.rng.IntBetween(LowCoinsMin, LowCoinsMax)
		raw = s.rng.IntBetween(BaseLevelMin, BaseLevelMax)
	}
	levelPoints = int(float64(raw) * (float64(preHappy)/100 + 0.5))
	return coins, levelPoints
}
