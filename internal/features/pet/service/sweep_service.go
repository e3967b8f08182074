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

// SweepService — фоновый процесс голодания. Раз в интервал проходит по всем
// живым букашкам, списывает сытость и счастье, шлёт предупреждения о голоде
// и добивает тех, кто доголодался до нуля. Питомцы в приключении не голодают,
// но просроченные приключения свип завершает как страховка от потерянных
// таймеров.
type SweepService struct {
	repo       repository.PetRepository
	notifier   Notifier
	adventures *AdventureService
	mortality  *MortalityService
	log        zerolog.Logger
	now        func() time.Time
	interval   time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweepService(
	repo repository.PetRepository,
	notifier Notifier,
	adventures *AdventureService,
	mortality *MortalityService,
) *SweepService {
	return &SweepService{
		repo:       repo,
		notifier:   notifier,
		adventures: adventures,
		mortality:  mortality,
		log:        logger.Component("sweep"),
		now:        time.Now,
		interval:   FeedDecayInterval,
	}
}

// Start запускает цикл голодания в фоне.
func (s *SweepService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.log.Info().Dur("interval", s.interval).Msg("sweep loop started")
		for {
			select {
			case <-ctx.Done():
				s.log.Info().Msg("sweep loop stopped")
				return
			case <-ticker.C:
				if err := s.SweepOnce(ctx); err != nil {
					s.log.Error().Err(err).Msg("sweep pass failed")
				}
			}
		}
	}()
}

// Stop останавливает цикл и дожидается завершения текущего прохода.
func (s *SweepService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// SweepOnce выполняет один проход голодания по всем букашкам.
// Ошибки по отдельным питомцам логируются и не прерывают проход.
func (s *SweepService) SweepOnce(ctx context.Context) error {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		overdue, err := s.sweepPet(ctx, id)
		if err != nil {
			s.log.Error().Err(err).Int64("user_id", id).Msg("failed to sweep pet")
			continue
		}
		// Завершение берёт собственную блокировку, поэтому вызывается
		// уже после того, как sweepPet свою отпустил
		if overdue {
			if err := s.adventures.Complete(ctx, id); err != nil {
				s.log.Error().Err(err).Int64("user_id", id).Msg("failed to complete overdue adventure")
			}
		}
	}
	return nil
}

func (s *SweepService) sweepPet(ctx context.Context, userID int64) (overdue bool, err error) {
	if err := s.repo.AcquireLock(ctx, userID, LockTTL); err != nil {
		if errors.Is(err, repository.ErrAlreadyLocked) {
			// Питомцем занят кто-то другой, догоним на следующем проходе
			return false, nil
		}
		return false, err
	}
	defer s.repo.ReleaseLock(ctx, userID)

	pet, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPetNotFound) {
			return false, nil
		}
		return false, err
	}

	now := s.now()

	if pet.IsAdventuring {
		// В приключении не голодают. Но если дедлайн прошёл, а таймер
		// потерялся, приключение завершит вызывающий — страховка от
		// потерянных таймеров.
		if deadline, ok := s.adventures.Deadline(pet); ok && !now.Before(deadline) {
			return true, nil
		}
		return false, nil
	}

	// Сколько целых интервалов прошло с последнего списания. Если отметки
	// ещё нет (букашка только родилась) — считаем ровно один интервал.
	intervals := 1
	if last := pet.State.LastFeedDecayTime; last != nil {
		intervals = int(now.Sub(*last) / s.interval)
		if intervals < 1 {
			return false, nil
		}
	}

	feedDecay := FeedDecayPerInterval * intervals
	happyDecay := HappyDecayPerInterval * intervals

	// Буст сытости замедляет голодание, пока не истёк
	if pet.Boost == models.BoostFeed {
		until := pet.State.FeedBoostUntil
		if until == nil || now.After(*until) {
			pet.Boost = models.BoostNone
			pet.State.FeedBoostUntil = nil
		} else {
			feedDecay = int(float64(feedDecay) / BoostSpeedup)
		}
	}

	oldFeed := pet.Feed
	pet.AddFeed(-feedDecay)
	pet.AddHappy(-happyDecay)
	pet.State.LastFeedDecayTime = &now

	threshold, warn := resolveWarning(pet, oldFeed)

	if err := s.repo.Update(ctx, pet); err != nil {
		return false, err
	}

	if warn && pet.Feed > 0 {
		if err := s.notifier.HungerWarning(ctx, pet.NotifyChatID(), pet, threshold); err != nil {
			s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to deliver hunger warning")
		}
	}

	if pet.Feed == 0 {
		if _, err := s.mortality.Kill(ctx, userID, ReasonStarvation); err != nil {
			return false, err
		}
	}
	return false, nil
}
