package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"bukashka-bot/internal/common/logger"
	"bukashka-bot/internal/features/pet/catalog"
	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/repository"
)

// PetService отвечает за жизненный цикл букашки вне приключений:
// рождение, кормление, карточка питомца, портрет и усыпление.
type PetService struct {
	repo      repository.PetRepository
	catalog   *catalog.Catalog
	mortality *MortalityService
	log       zerolog.Logger
	now       func() time.Time
	rng       *Rand
}

func NewPetService(repo repository.PetRepository, cat *catalog.Catalog, mortality *MortalityService, rng *Rand) *PetService {
	return &PetService{
		repo:      repo,
		catalog:   cat,
		mortality: mortality,
		log:       logger.Component("pets"),
		now:       time.Now,
		rng:       rng,
	}
}

// Create заводит новую букашку. Одновременно у пользователя может жить
// только одна.
func (s *PetService) Create(ctx context.Context, userID, chatID int64, name string) (*models.Pet, error) {
	pet := models.NewPet(userID, chatID, name, s.now())
	if err := s.repo.Create(ctx, pet); err != nil {
		if errors.Is(err, repository.ErrPetExists) {
			return nil, ErrPetExists
		}
		return nil, err
	}

	s.log.Info().Int64("user_id", userID).Str("name", name).Msg("pet created")
	return pet, nil
}

// Get возвращает букашку пользователя.
func (s *PetService) Get(ctx context.Context, userID int64) (*models.Pet, error) {
	return s.get(ctx, userID)
}

// Feed кормит букашку случайной едой из каталога. Еда бывает и плохой:
// исход может уронить сытость до нуля, и тогда букашка погибает.
func (s *PetService) Feed(ctx context.Context, userID, chatID int64) (*FeedReport, error) {
	if err := s.repo.AcquireLock(ctx, userID, LockTTL); err != nil {
		if errors.Is(err, repository.ErrAlreadyLocked) {
			return nil, &CooldownError{Remaining: FeedCooldown}
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
	if err := checkCooldown(pet.State.LastFeedTime, FeedCooldown, now); err != nil {
		return nil, err
	}

	outcome := s.rng.PickFeed(s.catalog)
	oldFeed := pet.Feed
	pet.AddFeed(outcome.Feed)
	pet.AddHappy(outcome.Happiness)
	pet.State.LastFeedTime = &now
	pet.State.LastChatID = chatID
	resolveWarning(pet, oldFeed)

	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, err
	}

	report := &FeedReport{Outcome: outcome, Pet: pet}
	if pet.Feed == 0 {
		if _, err := s.mortality.Kill(ctx, userID, ReasonBadFood); err != nil {
			return nil, err
		}
		report.Died = true
	}
	return report, nil
}

// SetImage сохраняет портрет букашки (file_id фото в Telegram).
func (s *PetService) SetImage(ctx context.Context, userID int64, fileID string) (*models.Pet, error) {
	pet, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	pet.Image = fileID
	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

// Dispose усыпляет букашку по решению хозяина.
func (s *PetService) Dispose(ctx context.Context, userID int64) (*models.Obituary, error) {
	obituary, err := s.mortality.Kill(ctx, userID, ReasonOwner)
	if err != nil {
		if errors.Is(err, repository.ErrPetNotFound) {
			return nil, ErrNoPet
		}
		return nil, err
	}
	return obituary, nil
}

func (s *PetService) get(ctx context.Context, userID int64) (*models.Pet, error) {
	pet, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPetNotFound) {
			return nil, ErrNoPet
		}
		return nil, err
	}
	return pet, nil
}
