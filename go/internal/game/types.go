package game

import (
	"github.com/google/uuid"
	"github.com/mcdev12/outbreak/go/internal/models"
)

// CreateGameResult is the one response that carries the host's credentials.
type CreateGameResult struct {
	Code        string          `json:"code"`
	HostID      uuid.UUID       `json:"host_id"`
	SecretToken string          `json:"secret_token"`
	Session     *models.Session `json:"session"`
}

// JoinGameResult is the one response that carries a player's credentials.
type JoinGameResult struct {
	ParticipantID uuid.UUID       `json:"participant_id"`
	SecretToken   string          `json:"secret_token"`
	Session       *models.Session `json:"session"`
}

// LeaveGameResult reports whether the leave also ended the session.
type LeaveGameResult struct {
	Success      bool `json:"success"`
	SessionEnded bool `json:"session_ended"`
}
