package catalog

import (
	"fmt"

	"github.com/mcdev12/outbreak/go/internal/models"
)

// Shuffler is the randomness the catalog needs for ordering scenarios.
// *math/rand.Rand satisfies it.
type Shuffler interface {
	Perm(n int) []int
}

// Catalog holds the fixed, ordered scenario set for a deployment.
type Catalog struct {
	scenarios []models.Scenario
	byID      map[string]models.Scenario
}

// New builds a catalog from an ordered scenario list. IDs must be unique.
func New(scenarios []models.Scenario) (*Catalog, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("catalog requires at least one scenario")
	}

	byID := make(map[string]models.Scenario, len(scenarios))
	for _, sc := range scenarios {
		if sc.ID == "" {
			return nil, fmt.Errorf("scenario with empty id")
		}
		if _, dup := byID[sc.ID]; dup {
			return nil, fmt.Errorf("duplicate scenario id: %s", sc.ID)
		}
		if err := validateChoice(sc.ID, "safe", sc.Safe); err != nil {
			return nil, err
		}
		if err := validateChoice(sc.ID, "risky", sc.Risky); err != nil {
			return nil, err
		}
		byID[sc.ID] = sc
	}

	return &Catalog{scenarios: scenarios, byID: byID}, nil
}

// Default returns a catalog built from the built-in scenario table.
func Default() *Catalog {
	c, err := New(builtinScenarios)
	if err != nil {
		// The built-in table is validated by tests; a bad entry is a
		// programming error.
		panic(fmt.Sprintf("built-in scenario table invalid: %v", err))
	}
	return c
}

// Size returns the number of scenarios in the catalog.
func (c *Catalog) Size() int {
	return len(c.scenarios)
}

// ByID looks up a scenario. ok is false for unknown ids.
func (c *Catalog) ByID(id string) (models.Scenario, bool) {
	sc, ok := c.byID[id]
	return sc, ok
}

// ShuffledIDs returns an unbiased permutation of the catalog's scenario ids
// truncated to count. count must not exceed the catalog size.
func (c *Catalog) ShuffledIDs(count int, rng Shuffler) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	if count > len(c.scenarios) {
		return nil, fmt.Errorf("count %d exceeds catalog size %d", count, len(c.scenarios))
	}

	perm := rng.Perm(len(c.scenarios))
	ids := make([]string, count)
	for i := 0; i < count; i++ {
		ids[i] = c.scenarios[perm[i]].ID
	}
	return ids, nil
}

func validateChoice(scenarioID, kind string, ch models.Choice) error {
	if ch.FailureProbability < 0 || ch.FailureProbability > 1 {
		return fmt.Errorf("scenario %s: %s choice failure probability %v out of [0,1]", scenarioID, kind, ch.FailureProbability)
	}
	if ch.SuccessMultiplier <= 0 {
		return fmt.Errorf("scenario %s: %s choice success multiplier %v must be > 0", scenarioID, kind, ch.SuccessMultiplier)
	}
	return nil
}
