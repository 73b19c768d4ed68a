package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a joined player. Exactly one participant per session has
// IsHost set; the host controls round progression and never plays rounds.
type Participant struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Population    int         `json:"population"`
	IsHost        bool        `json:"is_host"`
	HasChosen     bool        `json:"has_chosen"`
	PendingChoice *ChoiceKind `json:"pending_choice,omitempty"` // stripped from snapshots
	IsEliminated  bool        `json:"is_eliminated"`
	SecretToken   string      `json:"secret_token,omitempty"` // stripped from snapshots
	JoinedAt      time.Time   `json:"joined_at"`
}

// Plays reports whether the participant takes part in outcome resolution.
func (p *Participant) Plays() bool {
	return !p.IsHost && !p.IsEliminated
}
