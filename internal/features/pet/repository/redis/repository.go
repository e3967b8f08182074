package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	apperrors "bukashka-bot/internal/common/errors"
	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/repository"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefixPet      = "pet:"
	keyPrefixObituary = "obituary:"
	keyActivePets     = "pets:active"
	keyGraveyard      = "pets:graveyard"
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisPetRepository(client *redis.Client) repository.PetRepository {
	return &redisRepository{client: client}
}

func makePetKey(userID int64) string {
	return keyPrefixPet + strconv.FormatInt(userID, 10)
}

func makeLockKey(userID int64) string {
	return makePetKey(userID) + ":lock"
}

func (r *redisRepository) Create(ctx context.Context, pet *models.Pet) error {
	data, err := json.Marshal(pet)
	if err != nil {
		return fmt.Errorf("failed to marshal pet: %w", err)
	}

	ok, err := r.client.SetNX(ctx, makePetKey(pet.UserID), data, 0).Result()
	if err != nil {
		return apperrors.NewStoreError("create_pet", err)
	}
	if !ok {
		return repository.ErrPetExists
	}

	if err := r.client.SAdd(ctx, keyActivePets, pet.UserID).Err(); err != nil {
		return apperrors.NewStoreError("create_pet", err)
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, userID int64) (*models.Pet, error) {
	data, err := r.client.Get(ctx, makePetKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrPetNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_pet", err).WithUserID(userID)
	}

	var pet models.Pet
	if err := json.Unmarshal(data, &pet); err != nil {
		return nil, apperrors.NewStoreError("decode_pet", err).WithUserID(userID)
	}
	pet.Normalize()

	return &pet, nil
}

func (r *redisRepository) Update(ctx context.Context, pet *models.Pet) error {
	data, err := json.Marshal(pet)
	if err != nil {
		return fmt.Errorf("failed to marshal pet: %w", err)
	}
	if err := r.client.Set(ctx, makePetKey(pet.UserID), data, 0).Err(); err != nil {
		return apperrors.NewStoreError("update_pet", err).WithUserID(pet.UserID)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, userID int64) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, makePetKey(userID))
	pipe.SRem(ctx, keyActivePets, userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewStoreError("delete_pet", err).WithUserID(userID)
	}
	return nil
}

func (r *redisRepository) ListIDs(ctx context.Context) ([]int64, error) {
	members, err := r.client.SMembers(ctx, keyActivePets).Result()
	if err != nil {
		return nil, apperrors.NewStoreError("list_pets", err)
	}

	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AcquireLock получает блокировку с таймаутом
func (r *redisRepository) AcquireLock(ctx context.Context, userID int64, ttl time.Duration) error {
	ok, err := r.client.SetNX(ctx, makeLockKey(userID), "locked", ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return repository.ErrAlreadyLocked
	}
	return nil
}

// ReleaseLock освобождает блокировку
func (r *redisRepository) ReleaseLock(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, makeLockKey(userID)).Err()
}

func (r *redisRepository) AddObituary(ctx context.Context, ob *models.Obituary) error {
	data, err := json.Marshal(ob)
	if err != nil {
		return fmt.Errorf("failed to marshal obituary: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, keyPrefixObituary+ob.ID, data, 0)
	pipe.SAdd(ctx, keyGraveyard, ob.ID)
	if _, err = pipe.Exec(ctx); err != nil {
		return apperrors.NewStoreError("add_obituary", err)
	}
	return nil
}
