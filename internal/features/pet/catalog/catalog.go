// Package catalog holds the static random-outcome tables (adventures and
// feeding results) shipped with the bot. The tables are plain data injected
// into the services, so they can be swapped in tests.
package catalog

import (
	_ "embed"
	"fmt"
	"math/rand"

	"bukashka-bot/internal/features/pet/models"
	"bukashka-bot/internal/utils/random"

	"github.com/pelletier/go-toml/v2"
)

//go:embed catalog.toml
var rawCatalog []byte

// Catalog bundles the outcome tables.
type Catalog struct {
	Adventures   []models.AdventureOutcome `toml:"adventure"`
	FeedOutcomes []models.FeedOutcome      `toml:"feed"`
}

// Load parses a TOML catalog and validates it is usable.
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Adventures) == 0 {
		return nil, fmt.Errorf("catalog has no adventures")
	}
	if len(c.FeedOutcomes) == 0 {
		return nil, fmt.Errorf("catalog has no feed outcomes")
	}
	total := 0
	for _, f := range c.FeedOutcomes {
		if f.Weight <= 0 {
			return nil, fmt.Errorf("feed outcome %q has non-positive weight", f.Name)
		}
		total += f.Weight
	}
	if total != 100 {
		return nil, fmt.Errorf("feed outcome weights sum to %d, want 100", total)
	}
	return &c, nil
}

// Default returns the embedded catalog. It panics on a malformed embed,
// which can only happen at build time.
func Default() *Catalog {
	c, err := Load(rawCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// PickAdventure chooses an adventure outcome uniformly at random.
func (c *Catalog) PickAdventure(r *rand.Rand) models.AdventureOutcome {
	return random.Pick(r, c.Adventures)
}

// PickFeed chooses a feeding outcome according to the table weights.
func (c *Catalog) PickFeed(r *rand.Rand) models.FeedOutcome {
	weights := make([]int, len(c.FeedOutcomes))
	for i, f := range c.FeedOutcomes {
		weights[i] = f.Weight
	}
	return c.FeedOutcomes[random.PickWeighted(r, weights)]
}
