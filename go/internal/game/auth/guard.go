package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/outbreak/go/internal/models"
)

// ErrUnauthorized is returned for an unknown participant or a token
// mismatch. Both cases report identically so a caller cannot probe for
// valid participant ids.
var ErrUnauthorized = errors.New("unknown participant or bad token")

// ErrNotHost is returned when a host-only operation is attempted by a
// regular participant.
var ErrNotHost = errors.New("operation requires the host")

// Verify checks a caller-presented (participant id, secret token) pair
// against the session's participant records. It must pass before any
// mutating engine call proceeds.
func Verify(s *models.Session, participantID uuid.UUID, token string) (*models.Participant, error) {
	p := s.Participant(participantID)
	if p == nil {
		return nil, ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(p.SecretToken), []byte(token)) != 1 {
		return nil, ErrUnauthorized
	}
	return p, nil
}

// VerifyHost is Verify plus a host-privilege check.
func VerifyHost(s *models.Session, participantID uuid.UUID, token string) (*models.Participant, error) {
	p, err := Verify(s, participantID, token)
	if err != nil {
		return nil, err
	}
	if !p.IsHost {
		return nil, fmt.Errorf("participant %s: %w", p.Name, ErrNotHost)
	}
	return p, nil
}
