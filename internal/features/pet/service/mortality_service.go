package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bukashka-bot/internal/common/logger"
	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/repository"
)

// DeathReason — причина гибели, попадает в некролог как есть.
type DeathReason string

const (
	ReasonStarvation DeathReason = "голод"
	ReasonAdventure  DeathReason = "последствия приключения"
	ReasonBadFood    DeathReason = "плохая еда"
	ReasonOwner      DeathReason = "решение хозяина"
)

// MortalityService — единственная точка, через которую букашка покидает мир.
// Все пути гибели (голод, приключение, еда, решение хозяина) сходятся сюда.
type MortalityService struct {
	repo     repository.PetRepository
	notifier Notifier
	timers   *Timers
	log      zerolog.Logger
	now      func() time.Time
}

func NewMortalityService(repo repository.PetRepository, notifier Notifier, timers *Timers) *MortalityService {
	return &MortalityService{
		repo:     repo,
		notifier: notifier,
		timers:   timers,
		log:      logger.Component("mortality"),
		now:      time.Now,
	}
}

// Kill необратимо завершает жизнь букашки: снимает таймеры, пишет некролог,
// удаляет запись и уведомляет владельца. Порядок важен — сначала удаление,
// чтобы параллельные операции увидели отсутствие питомца, потом уведомление.
func (s *MortalityService) Kill(ctx context.Context, userID int64, reason DeathReason) (*models.Obituary, error) {
	pet, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.timers.Cancel(userID)

	now := s.now()
	obituary := &models.Obituary{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      pet.Name,
		Reason:    string(reason),
		Age:       pet.Age(now),
		DiedAt:    now,
		LastLevel: pet.Level,
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.repo.AddObituary(ctx, obituary); err != nil {
		// Некролог — память, а не состояние; его потеря не отменяет смерть
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to store obituary")
	}

	s.log.Info().
		Int64("user_id", userID).
		Str("name", pet.Name).
		Str("reason", string(reason)).
		Int("level", pet.Level).
		Msg("pet died")

	if err := s.notifier.PetDied(ctx, pet.NotifyChatID(), obituary); err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to notify owner about death")
	}

	return obituary, nil
}
