// Package events defines the envelope pushed to every subscriber of a
// session after each successful mutation.
package events

import (
	"time"

	"github.com/mcdev12/outbreak/go/internal/models"
)

// EventType tags what mutation produced a snapshot.
type EventType string

const (
	// EventTypeConnected is the out-of-band bootstrap snapshot a new
	// subscriber receives on connect; it is never broadcast.
	EventTypeConnected EventType = "connected"

	EventTypePlayerJoined EventType = "player_joined"
	EventTypePlayerLeft   EventType = "player_left"
	EventTypeGameStarted  EventType = "game_started"
	EventTypeGamePaused   EventType = "game_paused"
	EventTypeGameResumed  EventType = "game_resumed"
	EventTypeRoundStarted EventType = "round_started"
	EventTypePlayerChose  EventType = "player_chose"
	EventTypeRoundEnded   EventType = "round_ended"
	EventTypeGameEnded    EventType = "game_ended"
)

// Event carries the full post-mutation session snapshot to subscribers.
// Session is always a sanitized snapshot (no tokens, no pending choices).
type Event struct {
	Type      EventType       `json:"type"`
	Code      string          `json:"code"`
	Session   *models.Session `json:"session,omitempty"`
	Message   string          `json:"message,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
