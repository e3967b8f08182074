// Package memory is an in-memory PetRepository used by tests and local runs
// without Redis. It copies documents on the way in and out to mimic the
// separate read/write round trips of the real store.
package memory

import (
	"context"
	"sync"
	"time"

	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/repository"
)

type memoryRepository struct {
	mu         sync.Mutex
	pets       map[int64]models.Pet
	locks      map[int64]time.Time
	obituaries []models.Obituary
}

func NewMemoryPetRepository() repository.PetRepository {
	return &memoryRepository{
		pets:  make(map[int64]models.Pet),
		locks: make(map[int64]time.Time),
	}
}

func (r *memoryRepository) Create(_ context.Context, pet *models.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[pet.UserID]; ok {
		return repository.ErrPetExists
	}
	r.pets[pet.UserID] = clone(pet)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, userID int64) (*models.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[userID]
	if !ok {
		return nil, repository.ErrPetNotFound
	}
	copied := clone(&pet)
	copied.Normalize()
	return &copied, nil
}

func (r *memoryRepository) Update(_ context.Context, pet *models.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pets[pet.UserID] = clone(pet)
	return nil
}

// clone копирует документ вместе с полями-указателями, чтобы сохранённая
// и возвращённая копии не делили память, как не делят её раунд-трипы в Redis.
func clone(pet *models.Pet) models.Pet {
	copied := *pet
	copied.AdventureResult = cloneOutcome(pet.AdventureResult)
	copied.State.LastFeedDecayTime = cloneTime(pet.State.LastFeedDecayTime)
	copied.State.LastFeedTime = cloneTime(pet.State.LastFeedTime)
	copied.State.LastGameTime = cloneTime(pet.State.LastGameTime)
	copied.State.AdventureStartTime = cloneTime(pet.State.AdventureStartTime)
	copied.State.FeedBoostUntil = cloneTime(pet.State.FeedBoostUntil)
	return copied
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneOutcome(o *models.AdventureOutcome) *models.AdventureOutcome {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

func (r *memoryRepository) Delete(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pets, userID)
	return nil
}

func (r *memoryRepository) ListIDs(_ context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.pets))
	for id := range r.pets {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memoryRepository) AcquireLock(_ context.Context, userID int64, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if until, ok := r.locks[userID]; ok && time.Now().Before(until) {
		return repository.ErrAlreadyLocked
	}
	r.locks[userID] = time.Now().Add(ttl)
	return nil
}

func (r *memoryRepository) ReleaseLock(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, userID)
	return nil
}

func (r *memoryRepository) AddObituary(_ context.Context, ob *models.Obituary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obituaries = append(r.obituaries, *ob)
	return nil
}
