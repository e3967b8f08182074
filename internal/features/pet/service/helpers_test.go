package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"bukashka-bot/internal/features/pet/catalog"
	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/features/pet/repository"
	"bukashka-bot/internal/features/pet/repository/memory"
)

var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeNotifier записывает события вместо отправки в Telegram.
type fakeNotifier struct {
	mu         sync.Mutex
	completed  []*AdventureReport
	warnings   []int
	obituaries []*models.Obituary
}

func (f *fakeNotifier) AdventureCompleted(_ context.Context, _ int64, report *AdventureReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, report)
	return nil
}

func (f *fakeNotifier) HungerWarning(_ context.Context, _ int64, _ *models.Pet, threshold int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warnings = append(f.warnings, threshold)
	return nil
}

func (f *fakeNotifier) PetDied(_ context.Context, _ int64, ob *models.Obituary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obituaries = append(f.obituaries, ob)
	return nil
}

func (f *fakeNotifier) warningCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.warnings)
}

// fakeRoller отдаёт заранее заданные значения кубика.
type fakeRoller struct {
	values []int
	calls  int
	err    error
}

func (f *fakeRoller) Roll(_ context.Context, _ int64, _ GameKind) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	v := f.values[(f.calls-1)%len(f.values)]
	return v, nil
}

// testCatalog — маленький детерминированный каталог для тестов.
func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Adventures: []models.AdventureOutcome{
			{Text: "нашла полянку", Feed: 10, Happiness: 5},
		},
		FeedOutcomes: []models.FeedOutcome{
			{Name: "водичка", Weight: 100, Feed: 5, Happiness: 0},
		},
	}
}

type fixture struct {
	repo       repository.PetRepository
	notifier   *fakeNotifier
	timers     *Timers
	mortality  *MortalityService
	pets       *PetService
	adventures *AdventureService
	sweep      *SweepService
	now        time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:     memory.NewMemoryPetRepository(),
		notifier: &fakeNotifier{},
		timers:   NewTimers(),
		now:      testEpoch,
	}
	rng := NewRand(rand.NewSource(1))
	f.mortality = NewMortalityService(f.repo, f.notifier, f.timers)
	f.adventures = NewAdventureService(f.repo, f.notifier, testCatalog(), f.timers, f.mortality, rng)
	f.pets = NewPetService(f.repo, testCatalog(), f.mortality, rng)
	f.sweep = NewSweepService(f.repo, f.notifier, f.adventures, f.mortality)

	clock := func() time.Time { return f.now }
	f.mortality.now = clock
	f.adventures.now = clock
	f.pets.now = clock
	f.sweep.now = clock
	return f
}

// advance сдвигает тестовые часы.
func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) mustPet(userID int64) *models.Pet {
	pet, err := f.repo.Get(context.Background(), userID)
	if err != nil {
		panic(err)
	}
	return pet
}
