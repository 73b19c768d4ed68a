package models

// ChoiceKind identifies which of a scenario's two choices a participant took.
type ChoiceKind string

const (
	ChoiceSafe  ChoiceKind = "safe"
	ChoiceRisky ChoiceKind = "risky"
)

// Valid reports whether the kind is one of the two known choices.
func (k ChoiceKind) Valid() bool {
	return k == ChoiceSafe || k == ChoiceRisky
}

// Choice is one of the two weighted options a scenario offers.
type Choice struct {
	Label              string  `json:"label"`
	FailureProbability float64 `json:"failure_probability"` // in [0,1]
	SuccessMultiplier  float64 `json:"success_multiplier"`  // > 0
}

// Scenario is an immutable, catalog-owned round definition.
type Scenario struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Safe  Choice `json:"safe"`
	Risky Choice `json:"risky"`
}

// Choice returns the choice record for a kind. Unknown kinds fall back to
// the safe choice, matching the late/absent submission default.
func (s Scenario) Choice(kind ChoiceKind) Choice {
	if kind == ChoiceRisky {
		return s.Risky
	}
	return s.Safe
}
