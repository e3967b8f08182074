package service

import (
	"math/rand"
	"sync"

	"bukashka-bot/internal/features/pet/catalog"
	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/utils/random"
)

// Rand — общий генератор случайностей. Обновления приходят из gin-обработчиков
// и таймеров конкурентно, а rand.Rand к этому не готов, поэтому все обращения
// идут под мьютексом.
type Rand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRand(src rand.Source) *Rand {
	return &Rand{rng: rand.New(src)}
}

func (r *Rand) IntBetween(min, max int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return random.IntBetween(r.rng, min, max)
}

func (r *Rand) PickAdventure(c *catalog.Catalog) models.AdventureOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return c.PickAdventure(r.rng)
}

func (r *Rand) PickFeed(c *catalog.Catalog) models.FeedOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return c.PickFeed(r.rng)
}
