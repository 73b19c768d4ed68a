package catalog

import (
	"math/rand"
	"testing"

	"github.com/mcdev12/outbreak/go/internal/models"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	if c.Size() < 15 {
		t.Fatalf("built-in catalog must cover the maximum round count, got %d scenarios", c.Size())
	}
}

func TestNewRejectsBadScenarios(t *testing.T) {
	tests := []struct {
		name      string
		scenarios []models.Scenario
	}{
		{name: "empty catalog", scenarios: nil},
		{
			name: "duplicate id",
			scenarios: []models.Scenario{
				{ID: "a", Safe: validChoice(), Risky: validChoice()},
				{ID: "a", Safe: validChoice(), Risky: validChoice()},
			},
		},
		{
			name: "empty id",
			scenarios: []models.Scenario{
				{ID: "", Safe: validChoice(), Risky: validChoice()},
			},
		},
		{
			name: "failure probability above one",
			scenarios: []models.Scenario{
				{ID: "a", Safe: models.Choice{FailureProbability: 1.5, SuccessMultiplier: 1.2}, Risky: validChoice()},
			},
		},
		{
			name: "zero multiplier",
			scenarios: []models.Scenario{
				{ID: "a", Safe: validChoice(), Risky: models.Choice{FailureProbability: 0.5, SuccessMultiplier: 0}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.scenarios); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestByID(t *testing.T) {
	c := Default()

	sc, ok := c.ByID("grain-blight")
	if !ok {
		t.Fatal("expected grain-blight to exist")
	}
	if sc.ID != "grain-blight" {
		t.Fatalf("expected id grain-blight, got %q", sc.ID)
	}

	if _, ok := c.ByID("no-such-scenario"); ok {
		t.Fatal("expected lookup miss for unknown id")
	}
}

func TestShuffledIDsIsTruncatedPermutation(t *testing.T) {
	c := Default()
	rng := rand.New(rand.NewSource(42))

	ids, err := c.ShuffledIDs(10, rng)
	if err != nil {
		t.Fatalf("shuffled ids: %v", err)
	}
	if len(ids) != 10 {
		t.Fatalf("expected 10 ids, got %d", len(ids))
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %q in shuffled order", id)
		}
		seen[id] = true
		if _, ok := c.ByID(id); !ok {
			t.Fatalf("shuffled order contains unknown id %q", id)
		}
	}
}

func TestShuffledIDsDeterministicForSeed(t *testing.T) {
	c := Default()

	first, err := c.ShuffledIDs(c.Size(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("shuffled ids: %v", err)
	}
	second, err := c.ShuffledIDs(c.Size(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("shuffled ids: %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different orders at index %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestShuffledIDsBounds(t *testing.T) {
	c := Default()
	rng := rand.New(rand.NewSource(1))

	if _, err := c.ShuffledIDs(0, rng); err == nil {
		t.Fatal("expected error for zero count")
	}
	if _, err := c.ShuffledIDs(c.Size()+1, rng); err == nil {
		t.Fatal("expected error for count beyond catalog size")
	}
}

func validChoice() models.Choice {
	return models.Choice{FailureProbability: 0.1, SuccessMultiplier: 1.2}
}
