package repository

import (
	"context"
	"errors"
	"time"

	"bukashka-bot/internal/features/pet/models"
)

var (
	ErrPetNotFound   = errors.New("pet not found")
	ErrPetExists     = errors.New("pet already exists")
	ErrAlreadyLocked = errors.New("pet is already locked")
)

// PetRepository is the document store for pets. Reads and writes are
// separate round trips with no multi-step transaction guarantee, so
// callers must re-check preconditions between Get and Update.
type PetRepository interface {
	Create(ctx context.Context, pet *models.Pet) error
	Get(ctx context.Context, userID int64) (*models.Pet, error)
	Update(ctx context.Context, pet *models.Pet) error
	Delete(ctx context.Context, userID int64) error
	ListIDs(ctx context.Context) ([]int64, error)

	// AcquireLock takes a short-lived per-pet lock used to serialize the
	// sweep against the per-pet completion timers. Returns ErrAlreadyLocked
	// when another trigger is working on the same pet.
	AcquireLock(ctx context.Context, userID int64, ttl time.Duration) error
	ReleaseLock(ctx context.Context, userID int64) error

	AddObituary(ctx context.Context, ob *models.Obituary) error
}
